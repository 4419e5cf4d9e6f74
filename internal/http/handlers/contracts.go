package handlers

import (
	"context"

	"github.com/support2-byte/Consolidate-sub000/internal/domain"
	"github.com/support2-byte/Consolidate-sub000/internal/service/assignment"
	"github.com/support2-byte/Consolidate-sub000/internal/service/consignment"
	"github.com/support2-byte/Consolidate-sub000/internal/service/registry"
	"github.com/support2-byte/Consolidate-sub000/internal/service/status"
)

type assignmentUsecase interface {
	Allocate(ctx context.Context, batch assignment.Batch) (*assignment.Result, error)
	Deallocate(ctx context.Context, batch assignment.RemovalBatch) ([]assignment.RemovalReport, error)
	DeallocateReceiver(ctx context.Context, orderID, receiverID int64, actor string) (*assignment.RemovalReport, error)
}

// NewAssignmentUsecase wires an assignment Engine into an assignmentUsecase.
func NewAssignmentUsecase(eng *assignment.Engine) assignmentUsecase {
	return eng
}

type cargoUsecase interface {
	GetCargoLine(ctx context.Context, cargoLineID int64) (*domain.CargoLine, error)
}

// NewCargoUsecase wires an assignment Reader into a cargoUsecase.
func NewCargoUsecase(r *assignment.Reader) cargoUsecase {
	return r
}

type statusUsecase interface {
	SetReceiverStatus(ctx context.Context, orderID, receiverID int64, rawStatus string, opts status.Options) (*status.Snapshot, error)
}

// NewStatusUsecase wires a status Service into a statusUsecase.
func NewStatusUsecase(svc *status.Service) statusUsecase {
	return svc
}

type consignmentUsecase interface {
	Advance(ctx context.Context, consignmentID int64, actor string) (*consignment.Report, error)
}

// NewConsignmentUsecase wires a consignment Service into a consignmentUsecase.
func NewConsignmentUsecase(svc *consignment.Service) consignmentUsecase {
	return svc
}

type containerUsecase interface {
	Get(ctx context.Context, id int64) (*registry.View, error)
	SetStatus(ctx context.Context, id int64, rawState, location, actor, notes string) (*registry.View, error)
}

// NewContainerUsecase wires a registry Service into a containerUsecase.
func NewContainerUsecase(svc *registry.Service) containerUsecase {
	return svc
}
