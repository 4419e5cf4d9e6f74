package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/support2-byte/Consolidate-sub000/internal/domain"
)

func TestOverallMostAdvancedWins(t *testing.T) {
	t.Parallel()

	policy := domain.DefaultPolicy()
	now := time.Now().UTC()
	future := now.Add(72 * time.Hour)

	tests := []struct {
		name      string
		receivers []domain.Receiver
		want      string
	}{
		{
			name: "no receivers",
			want: domain.StagePending,
		},
		{
			name: "smallest offset is furthest along",
			receivers: []domain.Receiver{
				{Status: domain.StageReadyForLoading, ETA: &future},
				{Status: domain.StageDelivered, ETA: &future},
				{Status: domain.StageInTransit, ETA: &future},
			},
			want: domain.StageDelivered,
		},
		{
			name: "cancelled receivers do not advance the order",
			receivers: []domain.Receiver{
				{Status: domain.StageCancelled},
				{Status: domain.StagePending, ETA: &future},
			},
			want: domain.StagePending,
		},
		{
			name: "all cancelled collapses to cancelled",
			receivers: []domain.Receiver{
				{Status: domain.StageCancelled},
				{Status: domain.StageCancelled},
			},
			want: domain.StageCancelled,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Aggregator{}.Overall(policy, tc.receivers, now)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestOverallAllPastEtaForcesDelivered(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	past := now.Add(-24 * time.Hour)
	receivers := []domain.Receiver{
		{Status: domain.StageInTransit, ETA: &past},
		{Status: domain.StageArrivedAtPort, ETA: &past},
	}

	got := Aggregator{}.Overall(domain.DefaultPolicy(), receivers, now)
	require.Equal(t, domain.StageDelivered, got)
}

func TestDeliveredMajorityOverride(t *testing.T) {
	t.Parallel()

	receivers := []domain.Receiver{
		{Status: domain.StageDelivered},
		{Status: domain.StageDelivered},
		{Status: domain.StagePending},
	}

	forced, ok := DeliveredMajorityOverride(receivers, domain.StagePending)
	require.True(t, ok)
	require.Equal(t, domain.StageInTransit, forced)

	// already delivered overall, nothing to override
	_, ok = DeliveredMajorityOverride(receivers, domain.StageDelivered)
	require.False(t, ok)

	// exactly half is not a majority
	half := []domain.Receiver{
		{Status: domain.StageDelivered},
		{Status: domain.StagePending},
	}
	_, ok = DeliveredMajorityOverride(half, domain.StagePending)
	require.False(t, ok)
}
