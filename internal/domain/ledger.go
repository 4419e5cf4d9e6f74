package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerAction is the kind of an assignment ledger entry.
type LedgerAction string

// List of possible ledger actions
const (
	ActionAssign   LedgerAction = "ASSIGN"
	ActionUnassign LedgerAction = "UNASSIGN"
)

// LedgerEntry is one immutable row of the assignment audit log. Quantity and
// weight deltas are negative for unassignments. The running sum of deltas
// per cargo line is the authoritative "currently assigned" figure.
type LedgerEntry struct {
	ID            uuid.UUID
	ContainerID   int64
	OrderID       int64
	ReceiverID    int64
	CargoLineID   int64
	QuantityDelta int64
	WeightDelta   decimal.Decimal
	StatusBefore  string
	StatusAfter   string
	Action        LedgerAction
	Actor         string
	Notes         string
	CreatedAt     time.Time
}

// AssignedTotals is the fold of ledger deltas for one cargo line.
type AssignedTotals struct {
	Quantity int64
	Weight   decimal.Decimal
}

// TrackingEntry records one status transition for audit. Append-only.
type TrackingEntry struct {
	ID             int64
	Kind           string // "receiver" or "consignment"
	ConsignmentID  int64
	OrderID        int64
	ReceiverID     int64
	StatusBefore   string
	StatusAfter    string
	ETA            *time.Time
	AffectedOrders []int64
	Actor          string
	CreatedAt      time.Time
}
