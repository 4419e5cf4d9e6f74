package bookingtx

import (
	"context"
	"time"

	"github.com/support2-byte/Consolidate-sub000/internal/domain"
)

// Repository abstracts the mutating operations available inside one booking
// transaction. Implementations hold an open transaction; *ForUpdate methods
// take row locks that live until commit or rollback.
type Repository interface {
	GetOrderForUpdate(ctx context.Context, orderID int64) (*domain.Order, error)
	ListReceivers(ctx context.Context, orderID int64) ([]domain.Receiver, error)
	GetReceiverForUpdate(ctx context.Context, orderID, receiverID int64) (*domain.Receiver, error)
	ListCargoLines(ctx context.Context, receiverID int64) ([]domain.CargoLine, error)
	GetCargoLineForUpdate(ctx context.Context, receiverID, cargoLineID int64) (*domain.CargoLine, error)
	UpdateCargoLineAssignment(ctx context.Context, line *domain.CargoLine) error
	SetCargoConsignmentStatus(ctx context.Context, receiverID int64, status string) error
	UpdateReceiverAssignment(ctx context.Context, r *domain.Receiver) error
	UpdateReceiverStatus(ctx context.Context, receiverID int64, status string, eta *time.Time) error
	UpdateOrderAggregates(ctx context.Context, orderID, totalAssigned int64, status string, eta *time.Time) error

	AppendLedger(ctx context.Context, e *domain.LedgerEntry) error
	SumAssigned(ctx context.Context, cargoLineID int64) (domain.AssignedTotals, error)

	GetContainer(ctx context.Context, containerID int64) (*domain.Container, error)
	LatestContainerEvent(ctx context.Context, containerID int64) (*domain.ContainerStatusEvent, error)
	InsertContainerEvent(ctx context.Context, ev *domain.ContainerStatusEvent) error

	GetConsignmentForUpdate(ctx context.Context, consignmentID int64) (*domain.Consignment, error)
	UpdateConsignment(ctx context.Context, c *domain.Consignment) error
	InsertTrackingEntry(ctx context.Context, t *domain.TrackingEntry) error
}
