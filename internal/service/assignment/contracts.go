package assignment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/support2-byte/Consolidate-sub000/internal/domain"
	"github.com/support2-byte/Consolidate-sub000/internal/notify"
	"github.com/support2-byte/Consolidate-sub000/internal/ports/bookingtx"
)

// Batch is an allocation request: order → receiver → cargo line → amounts
// plus the containers to spread them across.
type Batch struct {
	Actor  string
	Orders []OrderRequest
}

// OrderRequest groups receiver allocations under one order.
type OrderRequest struct {
	OrderID   int64
	Receivers []ReceiverRequest
}

// ReceiverRequest groups cargo line allocations under one receiver.
type ReceiverRequest struct {
	ReceiverID int64
	Lines      []LineRequest
}

// LineRequest asks for quantity and weight to be split across containers,
// in list order.
type LineRequest struct {
	CargoLineID  int64
	Quantity     int64
	Weight       decimal.Decimal
	ContainerIDs []int64
}

// RemovalBatch is a partial deallocation request: per cargo line, the
// containers to detach in full.
type RemovalBatch struct {
	Actor  string
	Orders []RemovalOrder
}

// RemovalOrder groups receiver removals under one order.
type RemovalOrder struct {
	OrderID   int64
	Receivers []RemovalReceiver
}

// RemovalReceiver groups cargo line removals under one receiver.
type RemovalReceiver struct {
	ReceiverID int64
	Lines      []RemovalLine
}

// RemovalLine names the containers to detach from one cargo line.
type RemovalLine struct {
	CargoLineID  int64
	ContainerIDs []int64
}

// ReceiverReport summarizes what one receiver got out of a batch.
type ReceiverReport struct {
	ReceiverID       int64
	AssignedQuantity int64
	AssignedWeight   decimal.Decimal
	Containers       []string
}

// Skip is a reported per-entry outcome, not an error: the entry was left
// out of the batch for the stated reason.
type Skip struct {
	OrderID     int64
	ReceiverID  int64
	CargoLineID int64
	ContainerID int64
	Reason      string
}

// Result is the allocation response: per-receiver reports plus skips.
type Result struct {
	Receivers []ReceiverReport
	Skips     []Skip
}

// RemovalReport summarizes what was detached from one receiver.
type RemovalReport struct {
	ReceiverID      int64
	RemovedQuantity int64
	RemovedWeight   decimal.Decimal
	Containers      []string
}

type assignmentRepository interface {
	WithTx(ctx context.Context, fn func(tx bookingtx.Repository) error) error
}

type policySource interface {
	Load(ctx context.Context) (*domain.Policy, error)
}

type notificationSink interface {
	Notify(msg notify.Message)
}

type cargoInvalidator interface {
	InvalidateCargoLines(ctx context.Context, cargoLineIDs ...int64) error
}
