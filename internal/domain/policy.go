package domain

import (
	"sort"
	"time"
)

// StatusOffset is one configurable policy row: status label → day offset.
type StatusOffset struct {
	Status    string
	DayOffset int
}

// Policy maps shipment-stage labels to day offsets. The offset drives both
// ETA computation (base date + offset days) and the "how advanced" ordering
// over statuses (smaller offset = further along).
type Policy struct {
	offsets map[string]int
	order   []string // insertion order, keeps Ranking stable on ties
}

// NewPolicy builds a Policy from configured rows. Later duplicates of the
// same label win.
func NewPolicy(rows []StatusOffset) *Policy {
	p := &Policy{offsets: make(map[string]int, len(rows))}
	for _, r := range rows {
		if _, seen := p.offsets[r.Status]; !seen {
			p.order = append(p.order, r.Status)
		}
		p.offsets[r.Status] = r.DayOffset
	}
	return p
}

// DefaultPolicy returns the built-in offset table used when no configured
// policy is available.
func DefaultPolicy() *Policy {
	return NewPolicy([]StatusOffset{
		{Status: StagePending, DayOffset: 15},
		{Status: StageReadyForLoading, DayOffset: 12},
		{Status: StageLoadedOnVessel, DayOffset: 10},
		{Status: StageInTransit, DayOffset: 7},
		{Status: StageArrivedAtPort, DayOffset: 4},
		{Status: StageReadyForDelivery, DayOffset: 3},
		{Status: StageOutForDelivery, DayOffset: 1},
		{Status: StageDelivered, DayOffset: 0},
	})
}

// Offset returns the day offset for a status and whether it is known.
func (p *Policy) Offset(status string) (int, bool) {
	v, ok := p.offsets[status]
	return v, ok
}

// ETA computes the projected arrival for a status: base plus the status
// offset in days. Unknown statuses get offset zero, so the ETA collapses to
// the base date.
func (p *Policy) ETA(base time.Time, status string) time.Time {
	return base.AddDate(0, 0, p.offsets[status])
}

// MoreAdvanced reports whether target is further along than current.
// A missing current is treated as infinitely early and a missing target as
// fully advanced, so unknown labels bias toward recomputing ETAs.
func (p *Policy) MoreAdvanced(target, current string) bool {
	t, ok := p.offsets[target]
	if !ok {
		t = 0
	}
	c, ok := p.offsets[current]
	if !ok {
		return true
	}
	return t < c
}

// Ranking returns the known status labels ordered by descending offset,
// earliest stage first. Ties keep configured order.
func (p *Policy) Ranking() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	sort.SliceStable(out, func(i, j int) bool {
		return p.offsets[out[i]] > p.offsets[out[j]]
	})
	return out
}

// Rank gives the position of a status in the advancement ordering. Statuses
// absent from the policy rank after every known one.
func (p *Policy) Rank(status string) int {
	for i, s := range p.Ranking() {
		if s == status {
			return i
		}
	}
	return len(p.order)
}
