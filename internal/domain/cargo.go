package domain

import "github.com/shopspring/decimal"

// ContainerFragment is the denormalized share of a cargo line carried by one
// container. Stored as JSONB on the cargo line for fast reads; the ledger
// stays the audit source.
type ContainerFragment struct {
	ContainerID       int64           `json:"container_id"`
	ContainerNumber   string          `json:"container_number"`
	Status            string          `json:"status"`
	TotalQuantity     int64           `json:"total_quantity"`
	AssignedQuantity  int64           `json:"assigned_quantity"`
	AssignedWeight    decimal.Decimal `json:"assigned_weight"`
	RemainingQuantity int64           `json:"remaining_quantity"`
}

// CargoLine - struct representing one booked line of cargo within a receiver.
type CargoLine struct {
	ID                int64
	ReceiverID        int64
	Description       string
	TotalQuantity     int64
	Weight            decimal.Decimal
	AssignedQuantity  int64
	AssignedWeight    decimal.Decimal
	ConsignmentStatus string
	Fragments         []ContainerFragment
}

// Remaining returns the quantity still open for assignment.
func (l *CargoLine) Remaining() int64 {
	return l.TotalQuantity - l.AssignedQuantity
}

// Fragment returns the fragment for a container, or nil.
func (l *CargoLine) Fragment(containerID int64) *ContainerFragment {
	for i := range l.Fragments {
		if l.Fragments[i].ContainerID == containerID {
			return &l.Fragments[i]
		}
	}
	return nil
}

// DropFragment removes the fragment for a container, if any. Fragments are
// removed whole, never shrunk.
func (l *CargoLine) DropFragment(containerID int64) {
	for i := range l.Fragments {
		if l.Fragments[i].ContainerID == containerID {
			l.Fragments = append(l.Fragments[:i], l.Fragments[i+1:]...)
			return
		}
	}
}

// RefreshRemaining recomputes every fragment's remaining quantity against
// the line's current assigned total.
func (l *CargoLine) RefreshRemaining() {
	remaining := l.Remaining()
	for i := range l.Fragments {
		l.Fragments[i].RemainingQuantity = remaining
		l.Fragments[i].TotalQuantity = l.TotalQuantity
	}
}
