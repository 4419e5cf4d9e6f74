package status

import (
	"context"

	"github.com/support2-byte/Consolidate-sub000/internal/domain"
	"github.com/support2-byte/Consolidate-sub000/internal/notify"
	"github.com/support2-byte/Consolidate-sub000/internal/ports/bookingtx"
)

// Options tunes one status transition request.
type Options struct {
	ForceRecalcEta bool
	Actor          string
}

// Snapshot is the post-cascade view returned to the caller.
type Snapshot struct {
	Receiver domain.Receiver
	Order    domain.Order
}

type statusRepository interface {
	WithTx(ctx context.Context, fn func(tx bookingtx.Repository) error) error
}

type policySource interface {
	Load(ctx context.Context) (*domain.Policy, error)
}

type notificationSink interface {
	Notify(msg notify.Message)
}
