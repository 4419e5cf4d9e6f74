package status

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/support2-byte/Consolidate-sub000/internal/apperr"
	"github.com/support2-byte/Consolidate-sub000/internal/domain"
	"github.com/support2-byte/Consolidate-sub000/internal/logx"
	"github.com/support2-byte/Consolidate-sub000/internal/metrics"
	"github.com/support2-byte/Consolidate-sub000/internal/ports/bookingtx"
)

type stubTx struct {
	orders    map[int64]*domain.Order
	receivers map[int64]*domain.Receiver
	lines     map[int64]*domain.CargoLine
	events    []domain.ContainerStatusEvent
	tracking  []domain.TrackingEntry
}

func newStubTx() *stubTx {
	return &stubTx{
		orders:    make(map[int64]*domain.Order),
		receivers: make(map[int64]*domain.Receiver),
		lines:     make(map[int64]*domain.CargoLine),
	}
}

func (s *stubTx) GetOrderForUpdate(_ context.Context, orderID int64) (*domain.Order, error) {
	return s.orders[orderID], nil
}

func (s *stubTx) ListReceivers(_ context.Context, orderID int64) ([]domain.Receiver, error) {
	var out []domain.Receiver
	for _, r := range s.receivers {
		if r.OrderID == orderID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubTx) GetReceiverForUpdate(_ context.Context, orderID, receiverID int64) (*domain.Receiver, error) {
	r := s.receivers[receiverID]
	if r == nil || r.OrderID != orderID {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (s *stubTx) ListCargoLines(_ context.Context, receiverID int64) ([]domain.CargoLine, error) {
	var out []domain.CargoLine
	for _, l := range s.lines {
		if l.ReceiverID == receiverID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubTx) GetCargoLineForUpdate(_ context.Context, receiverID, cargoLineID int64) (*domain.CargoLine, error) {
	l := s.lines[cargoLineID]
	if l == nil || l.ReceiverID != receiverID {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (s *stubTx) UpdateCargoLineAssignment(_ context.Context, line *domain.CargoLine) error {
	cp := *line
	s.lines[line.ID] = &cp
	return nil
}

func (s *stubTx) SetCargoConsignmentStatus(_ context.Context, receiverID int64, status string) error {
	for _, l := range s.lines {
		if l.ReceiverID == receiverID {
			l.ConsignmentStatus = status
		}
	}
	return nil
}

func (s *stubTx) UpdateReceiverAssignment(_ context.Context, r *domain.Receiver) error {
	cp := *r
	s.receivers[r.ID] = &cp
	return nil
}

func (s *stubTx) UpdateReceiverStatus(_ context.Context, receiverID int64, status string, eta *time.Time) error {
	r := s.receivers[receiverID]
	if r == nil {
		return errors.New("receiver not found")
	}
	r.Status = status
	r.ETA = eta
	return nil
}

func (s *stubTx) UpdateOrderAggregates(_ context.Context, orderID, totalAssigned int64, status string, eta *time.Time) error {
	o := s.orders[orderID]
	if o == nil {
		return errors.New("order not found")
	}
	o.TotalAssignedQuantity = totalAssigned
	o.Status = status
	o.ETA = eta
	return nil
}

func (s *stubTx) AppendLedger(context.Context, *domain.LedgerEntry) error { return nil }

func (s *stubTx) SumAssigned(context.Context, int64) (domain.AssignedTotals, error) {
	return domain.AssignedTotals{}, nil
}

func (s *stubTx) GetContainer(context.Context, int64) (*domain.Container, error) { return nil, nil }

func (s *stubTx) LatestContainerEvent(context.Context, int64) (*domain.ContainerStatusEvent, error) {
	return nil, nil
}

func (s *stubTx) InsertContainerEvent(_ context.Context, ev *domain.ContainerStatusEvent) error {
	s.events = append(s.events, *ev)
	return nil
}

func (s *stubTx) GetConsignmentForUpdate(context.Context, int64) (*domain.Consignment, error) {
	return nil, nil
}

func (s *stubTx) UpdateConsignment(context.Context, *domain.Consignment) error { return nil }

func (s *stubTx) InsertTrackingEntry(_ context.Context, t *domain.TrackingEntry) error {
	s.tracking = append(s.tracking, *t)
	return nil
}

type stubRepo struct{ tx *stubTx }

func (r *stubRepo) WithTx(_ context.Context, fn func(tx bookingtx.Repository) error) error {
	return fn(r.tx)
}

type stubPolicies struct{}

func (stubPolicies) Load(context.Context) (*domain.Policy, error) {
	return domain.DefaultPolicy(), nil
}

func newTestService(tx *stubTx) *Service {
	return NewService(
		&stubRepo{tx: tx},
		stubPolicies{},
		nil,
		Aggregator{},
		metrics.NewSet(prometheus.NewRegistry()),
		logx.Nop(),
		time.Second,
	)
}

func seedWorld(tx *stubTx) {
	tx.orders[1] = &domain.Order{ID: 1, Reference: "ORD-1", Status: domain.StagePending}
	tx.receivers[10] = &domain.Receiver{ID: 10, OrderID: 1, Name: "Acme Imports", Status: domain.StagePending}
	tx.lines[100] = &domain.CargoLine{
		ID:               100,
		ReceiverID:       10,
		TotalQuantity:    50,
		AssignedQuantity: 50,
		Fragments: []domain.ContainerFragment{
			{ContainerID: 7, ContainerNumber: "CONT-7", AssignedQuantity: 30, AssignedWeight: decimal.NewFromInt(60)},
			{ContainerID: 8, ContainerNumber: "CONT-8", AssignedQuantity: 20, AssignedWeight: decimal.NewFromInt(40)},
		},
	}
}

func TestSetReceiverStatusCascades(t *testing.T) {
	t.Parallel()

	tx := newStubTx()
	seedWorld(tx)
	svc := newTestService(tx)

	snap, err := svc.SetReceiverStatus(context.Background(), 1, 10, "loaded on vessel", Options{Actor: "ops"})
	require.NoError(t, err)
	require.Equal(t, domain.StageLoadedOnVessel, snap.Receiver.Status)
	require.NotNil(t, snap.Receiver.ETA)

	// one availability row per distinct container in the fragments
	require.Len(t, tx.events, 2)
	for _, ev := range tx.events {
		require.Equal(t, domain.StateLoaded, ev.State)
		require.Equal(t, "ops", ev.Actor)
	}

	require.Equal(t, domain.StageLoadedOnVessel, tx.lines[100].ConsignmentStatus)
	require.Equal(t, domain.StageLoadedOnVessel, tx.orders[1].Status)

	require.Len(t, tx.tracking, 1)
	require.Equal(t, "receiver", tx.tracking[0].Kind)
	require.Equal(t, domain.StagePending, tx.tracking[0].StatusBefore)
	require.Equal(t, domain.StageLoadedOnVessel, tx.tracking[0].StatusAfter)
}

func TestSetReceiverStatusEtaFollowsOffset(t *testing.T) {
	t.Parallel()

	tx := newStubTx()
	seedWorld(tx)
	svc := newTestService(tx)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	snap, err := svc.SetReceiverStatus(context.Background(), 1, 10, domain.StageInTransit, Options{})
	require.NoError(t, err)
	require.NotNil(t, snap.Receiver.ETA)
	require.Equal(t, base.AddDate(0, 0, 7), *snap.Receiver.ETA)
}

func TestSetReceiverStatusPastEtaAutoUpgrades(t *testing.T) {
	t.Parallel()

	tx := newStubTx()
	seedWorld(tx)
	past := time.Now().UTC().Add(-48 * time.Hour)
	tx.receivers[10].Status = domain.StageOutForDelivery
	tx.receivers[10].ETA = &past
	svc := newTestService(tx)

	snap, err := svc.SetReceiverStatus(context.Background(), 1, 10, domain.StageInTransit, Options{})
	require.NoError(t, err)
	require.Equal(t, domain.StageDelivered, snap.Receiver.Status)
}

func TestSetReceiverStatusUnknownLabel(t *testing.T) {
	t.Parallel()

	tx := newStubTx()
	seedWorld(tx)
	svc := newTestService(tx)

	_, err := svc.SetReceiverStatus(context.Background(), 1, 10, "teleported", Options{})
	require.ErrorIs(t, err, apperr.Invalid)

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Reason, domain.StagePending)
}

func TestSetReceiverStatusNotFound(t *testing.T) {
	t.Parallel()

	tx := newStubTx()
	seedWorld(tx)
	svc := newTestService(tx)

	_, err := svc.SetReceiverStatus(context.Background(), 1, 99, domain.StageInTransit, Options{})
	require.ErrorIs(t, err, apperr.NotFound)

	_, err = svc.SetReceiverStatus(context.Background(), 42, 10, domain.StageInTransit, Options{})
	require.ErrorIs(t, err, apperr.NotFound)
}
