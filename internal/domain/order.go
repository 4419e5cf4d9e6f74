package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receiver - a shipping party within an order, aggregating cargo lines.
type Receiver struct {
	ID            int64
	OrderID       int64
	Name          string
	TotalQuantity int64
	TotalWeight   decimal.Decimal
	Containers    []string // container numbers currently in use
	Status        string
	ETA           *time.Time
	ETD           *time.Time
	QtyDelivered  int64
}

// PastETA reports whether the receiver's projected arrival has passed.
func (r *Receiver) PastETA(now time.Time) bool {
	return r.ETA != nil && !r.ETA.After(now)
}

// Order - a booking aggregating receivers. Status and ETA are computed from
// the receivers, not independently settable in normal flow.
type Order struct {
	ID                    int64
	Reference             string
	TotalAssignedQuantity int64
	Status                string
	ETA                   *time.Time
}

// MinETA returns the earliest ETA among receivers, or nil when none is set.
func MinETA(receivers []Receiver) *time.Time {
	var min *time.Time
	for i := range receivers {
		eta := receivers[i].ETA
		if eta == nil {
			continue
		}
		if min == nil || eta.Before(*min) {
			t := *eta
			min = &t
		}
	}
	return min
}
