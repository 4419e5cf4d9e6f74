package status

import (
	"time"

	"github.com/support2-byte/Consolidate-sub000/internal/domain"
)

// Aggregator computes an order's overall status from its receivers.
type Aggregator struct {
	// DisableMajorityOverride turns off the >50%-delivered heuristic
	// without touching the core most-advanced-wins aggregation.
	DisableMajorityOverride bool
}

// Overall derives the order status: the most advanced receiver stage wins,
// ranked by the offset policy. Cancelled receivers do not advance the
// order. Two overrides sit on top, see deliveredAll and the majority
// heuristic.
func (a Aggregator) Overall(policy *domain.Policy, receivers []domain.Receiver, now time.Time) string {
	if len(receivers) == 0 {
		return domain.StagePending
	}

	overall := ""
	bestRank := -1
	active := 0
	for i := range receivers {
		r := &receivers[i]
		if r.Status == domain.StageCancelled {
			continue
		}
		active++
		if rank := policy.Rank(r.Status); rank > bestRank {
			bestRank = rank
			overall = r.Status
		}
	}
	if active == 0 {
		return domain.StageCancelled
	}

	if deliveredAll(receivers, now) {
		return domain.StageDelivered
	}

	if !a.DisableMajorityOverride {
		if forced, ok := DeliveredMajorityOverride(receivers, overall); ok {
			return forced
		}
	}
	return overall
}

// deliveredAll forces the delivered stage when every receiver is past its
// ETA and none is cancelled.
func deliveredAll(receivers []domain.Receiver, now time.Time) bool {
	for i := range receivers {
		r := &receivers[i]
		if r.Status == domain.StageCancelled {
			return false
		}
		if !r.PastETA(now) {
			return false
		}
	}
	return true
}

// DeliveredMajorityOverride is the soft heuristic inherited from the
// booking desk: once more than half the receivers report delivered, an
// order that is not itself delivered is shown as in transit. Kept isolated
// so it can be switched off wholesale.
func DeliveredMajorityOverride(receivers []domain.Receiver, overall string) (string, bool) {
	if overall == domain.StageDelivered {
		return "", false
	}
	delivered := 0
	for i := range receivers {
		if receivers[i].Status == domain.StageDelivered {
			delivered++
		}
	}
	if delivered*2 > len(receivers) {
		return domain.StageInTransit, true
	}
	return "", false
}
