package registry

import (
	"context"
	"time"

	"github.com/support2-byte/Consolidate-sub000/internal/apperr"
	"github.com/support2-byte/Consolidate-sub000/internal/domain"
	"github.com/support2-byte/Consolidate-sub000/internal/logx"
)

const historyLimit = 50

// Service reads containers with derived availability and records manual
// status overrides.
type Service struct {
	containers       containerSource
	logger           logx.Logger
	operationTimeout time.Duration
	now              func() time.Time
}

// NewService creates and configures a registry Service.
func NewService(containers containerSource, logger logx.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		containers:       containers,
		logger:           logger,
		operationTimeout: timeout,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Get returns one container with availability derived from its manual
// override, charter window and latest recorded event, plus recent history.
func (s *Service) Get(ctx context.Context, id int64) (*View, error) {
	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	c, err := s.containers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound
	}

	last, err := s.containers.LatestEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.containers.History(ctx, id, historyLimit)
	if err != nil {
		return nil, err
	}

	return &View{
		Container:    *c,
		Availability: domain.DeriveAvailability(c, last, s.now()),
		History:      history,
	}, nil
}

// SetStatus records a manual availability event for a container. Unknown
// states are rejected before anything is written.
func (s *Service) SetStatus(ctx context.Context, id int64, rawState, location, actor, notes string) (*View, error) {
	state := domain.ContainerState(rawState)
	if !state.Valid() {
		return nil, apperr.Validation("state", "unknown container state %q", rawState)
	}
	if actor == "" {
		actor = "system"
	}

	ctx, cancel := context.WithTimeout(ctx, s.operationTimeout)
	defer cancel()

	c, err := s.containers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound
	}

	err = s.containers.InsertEvent(ctx, &domain.ContainerStatusEvent{
		ContainerID: id,
		State:       state,
		Location:    location,
		Actor:       actor,
		Notes:       notes,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("container status recorded",
		logx.String("event", "container_status_recorded"),
		logx.Int64("container_id", id),
		logx.String("state", string(state)),
	)
	return s.Get(ctx, id)
}
