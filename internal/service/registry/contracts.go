package registry

import (
	"context"

	"github.com/support2-byte/Consolidate-sub000/internal/domain"
)

// View is a container together with its derived availability and the
// recent status history.
type View struct {
	Container    domain.Container
	Availability domain.ContainerState
	History      []domain.ContainerStatusEvent
}

type containerSource interface {
	Get(ctx context.Context, id int64) (*domain.Container, error)
	LatestEvent(ctx context.Context, containerID int64) (*domain.ContainerStatusEvent, error)
	History(ctx context.Context, containerID int64, limit int) ([]domain.ContainerStatusEvent, error)
	InsertEvent(ctx context.Context, ev *domain.ContainerStatusEvent) error
}
