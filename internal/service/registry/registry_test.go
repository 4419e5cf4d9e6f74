package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/support2-byte/Consolidate-sub000/internal/apperr"
	"github.com/support2-byte/Consolidate-sub000/internal/domain"
	"github.com/support2-byte/Consolidate-sub000/internal/logx"
)

type stubContainers struct {
	containers map[int64]*domain.Container
	events     map[int64][]domain.ContainerStatusEvent
}

func newStubContainers() *stubContainers {
	return &stubContainers{
		containers: make(map[int64]*domain.Container),
		events:     make(map[int64][]domain.ContainerStatusEvent),
	}
}

func (s *stubContainers) Get(_ context.Context, id int64) (*domain.Container, error) {
	return s.containers[id], nil
}

func (s *stubContainers) LatestEvent(_ context.Context, containerID int64) (*domain.ContainerStatusEvent, error) {
	evs := s.events[containerID]
	if len(evs) == 0 {
		return nil, nil
	}
	last := evs[len(evs)-1]
	return &last, nil
}

func (s *stubContainers) History(_ context.Context, containerID int64, limit int) ([]domain.ContainerStatusEvent, error) {
	evs := s.events[containerID]
	if len(evs) > limit {
		evs = evs[len(evs)-limit:]
	}
	return append([]domain.ContainerStatusEvent(nil), evs...), nil
}

func (s *stubContainers) InsertEvent(_ context.Context, ev *domain.ContainerStatusEvent) error {
	s.events[ev.ContainerID] = append(s.events[ev.ContainerID], *ev)
	return nil
}

func TestGetDerivesAvailability(t *testing.T) {
	t.Parallel()

	src := newStubContainers()
	src.containers[1] = &domain.Container{ID: 1, Number: "CONT-1", OwnerType: domain.OwnerTypeOwned}
	src.events[1] = []domain.ContainerStatusEvent{
		{ContainerID: 1, State: domain.StateAssignedToJob},
		{ContainerID: 1, State: domain.StateInTransit},
	}
	svc := NewService(src, logx.Nop(), time.Second)

	view, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, domain.StateInTransit, view.Availability)
	require.Len(t, view.History, 2)
}

func TestGetManualOverrideWins(t *testing.T) {
	t.Parallel()

	src := newStubContainers()
	repair := domain.StateUnderRepair
	src.containers[1] = &domain.Container{ID: 1, Number: "CONT-1", ManualState: &repair}
	src.events[1] = []domain.ContainerStatusEvent{{ContainerID: 1, State: domain.StateInTransit}}
	svc := NewService(src, logx.Nop(), time.Second)

	view, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, domain.StateUnderRepair, view.Availability)
}

func TestGetNotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newStubContainers(), logx.Nop(), time.Second)

	_, err := svc.Get(context.Background(), 404)
	require.ErrorIs(t, err, apperr.NotFound)
}

func TestSetStatusRecordsEvent(t *testing.T) {
	t.Parallel()

	src := newStubContainers()
	src.containers[1] = &domain.Container{ID: 1, Number: "CONT-1", OwnerType: domain.OwnerTypeOwned}
	svc := NewService(src, logx.Nop(), time.Second)

	view, err := svc.SetStatus(context.Background(), 1, "under repair", "yard 4", "ops", "door damage")
	require.NoError(t, err)
	require.Equal(t, domain.StateUnderRepair, view.Availability)
	require.Len(t, src.events[1], 1)
	require.Equal(t, "yard 4", src.events[1][0].Location)
	require.Equal(t, "ops", src.events[1][0].Actor)
	require.Equal(t, "door damage", src.events[1][0].Notes)
}

func TestSetStatusRejectsUnknownState(t *testing.T) {
	t.Parallel()

	src := newStubContainers()
	src.containers[1] = &domain.Container{ID: 1, Number: "CONT-1"}
	svc := NewService(src, logx.Nop(), time.Second)

	_, err := svc.SetStatus(context.Background(), 1, "levitating", "yard", "ops", "")
	require.ErrorIs(t, err, apperr.Invalid)
	require.Empty(t, src.events[1])
}
