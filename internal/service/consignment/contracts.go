package consignment

import (
	"context"
	"time"

	"github.com/support2-byte/Consolidate-sub000/internal/domain"
	"github.com/support2-byte/Consolidate-sub000/internal/notify"
	"github.com/support2-byte/Consolidate-sub000/internal/ports/bookingtx"
)

// Report is the result of one pipeline advancement.
type Report struct {
	PreviousStatus string
	NewStatus      string
	SyncedStatus   string
	NewEta         time.Time
	AffectedOrders []int64
}

type consignmentRepository interface {
	WithTx(ctx context.Context, fn func(tx bookingtx.Repository) error) error
}

type policySource interface {
	Load(ctx context.Context) (*domain.Policy, error)
}

type notificationSink interface {
	Notify(msg notify.Message)
}
