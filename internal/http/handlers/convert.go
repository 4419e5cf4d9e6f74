package handlers

import (
	"github.com/support2-byte/Consolidate-sub000/internal/domain"
	"github.com/support2-byte/Consolidate-sub000/internal/service/assignment"
	"github.com/support2-byte/Consolidate-sub000/internal/service/consignment"
	"github.com/support2-byte/Consolidate-sub000/internal/service/registry"
	"github.com/support2-byte/Consolidate-sub000/internal/service/status"
)

func (req allocateRequest) toBatch(actor string) assignment.Batch {
	b := assignment.Batch{Actor: actor}
	for _, o := range req.Orders {
		ord := assignment.OrderRequest{OrderID: o.OrderID}
		for _, r := range o.Receivers {
			rec := assignment.ReceiverRequest{ReceiverID: r.ReceiverID}
			for _, l := range r.Lines {
				rec.Lines = append(rec.Lines, assignment.LineRequest{
					CargoLineID:  l.CargoLineID,
					Quantity:     l.Quantity,
					Weight:       l.Weight,
					ContainerIDs: l.ContainerIDs,
				})
			}
			ord.Receivers = append(ord.Receivers, rec)
		}
		b.Orders = append(b.Orders, ord)
	}
	return b
}

func (req removeRequest) toBatch(actor string) assignment.RemovalBatch {
	b := assignment.RemovalBatch{Actor: actor}
	for _, o := range req.Orders {
		ord := assignment.RemovalOrder{OrderID: o.OrderID}
		for _, r := range o.Receivers {
			rec := assignment.RemovalReceiver{ReceiverID: r.ReceiverID}
			for _, l := range r.Lines {
				rec.Lines = append(rec.Lines, assignment.RemovalLine{
					CargoLineID:  l.CargoLineID,
					ContainerIDs: l.ContainerIDs,
				})
			}
			ord.Receivers = append(ord.Receivers, rec)
		}
		b.Orders = append(b.Orders, ord)
	}
	return b
}

func resultToResponse(res *assignment.Result) allocateResponse {
	out := allocateResponse{Receivers: make([]receiverReportDTO, 0, len(res.Receivers))}
	for _, r := range res.Receivers {
		out.Receivers = append(out.Receivers, receiverReportDTO{
			ReceiverID:       r.ReceiverID,
			AssignedQuantity: r.AssignedQuantity,
			AssignedWeight:   r.AssignedWeight,
			Containers:       r.Containers,
		})
	}
	for _, s := range res.Skips {
		out.Skips = append(out.Skips, skipDTO{
			OrderID:     s.OrderID,
			ReceiverID:  s.ReceiverID,
			CargoLineID: s.CargoLineID,
			ContainerID: s.ContainerID,
			Reason:      s.Reason,
		})
	}
	return out
}

func removalToResponse(r assignment.RemovalReport) removalReportDTO {
	return removalReportDTO{
		ReceiverID:      r.ReceiverID,
		RemovedQuantity: r.RemovedQuantity,
		RemovedWeight:   r.RemovedWeight,
		Containers:      r.Containers,
	}
}

func removalsToResponse(list []assignment.RemovalReport) []removalReportDTO {
	out := make([]removalReportDTO, 0, len(list))
	for _, r := range list {
		out = append(out, removalToResponse(r))
	}
	return out
}

func snapshotToResponse(s *status.Snapshot) statusResponse {
	return statusResponse{
		Receiver: receiverDTO{
			ID:           s.Receiver.ID,
			OrderID:      s.Receiver.OrderID,
			Name:         s.Receiver.Name,
			Status:       s.Receiver.Status,
			ETA:          s.Receiver.ETA,
			Containers:   s.Receiver.Containers,
			QtyDelivered: s.Receiver.QtyDelivered,
		},
		Order: orderDTO{
			ID:                    s.Order.ID,
			Reference:             s.Order.Reference,
			TotalAssignedQuantity: s.Order.TotalAssignedQuantity,
			Status:                s.Order.Status,
			ETA:                   s.Order.ETA,
		},
	}
}

func reportToResponse(r *consignment.Report) advanceResponse {
	return advanceResponse{
		PreviousStatus: r.PreviousStatus,
		NewStatus:      r.NewStatus,
		SyncedStatus:   r.SyncedStatus,
		NewEta:         r.NewEta,
		AffectedOrders: r.AffectedOrders,
	}
}

func lineToResponse(l *domain.CargoLine) cargoLineDTO {
	dto := cargoLineDTO{
		ID:               l.ID,
		ReceiverID:       l.ReceiverID,
		Description:      l.Description,
		TotalQuantity:    l.TotalQuantity,
		Weight:           l.Weight,
		AssignedQuantity: l.AssignedQuantity,
		AssignedWeight:   l.AssignedWeight,
		Remaining:        l.Remaining(),
	}
	for _, f := range l.Fragments {
		dto.Fragments = append(dto.Fragments, fragmentDTO{
			ContainerID:       f.ContainerID,
			ContainerNumber:   f.ContainerNumber,
			Status:            f.Status,
			AssignedQuantity:  f.AssignedQuantity,
			AssignedWeight:    f.AssignedWeight,
			RemainingQuantity: f.RemainingQuantity,
		})
	}
	return dto
}

func viewToResponse(v *registry.View) containerDTO {
	dto := containerDTO{
		ID:           v.Container.ID,
		Number:       v.Container.Number,
		Size:         v.Container.Size,
		Type:         v.Container.Type,
		OwnerType:    string(v.Container.OwnerType),
		Location:     v.Container.Location,
		Availability: string(v.Availability),
	}
	for _, ev := range v.History {
		dto.History = append(dto.History, containerEventDTO{
			State:     string(ev.State),
			Location:  ev.Location,
			Actor:     ev.Actor,
			Notes:     ev.Notes,
			CreatedAt: ev.CreatedAt,
		})
	}
	return dto
}
