package handlers

import (
	"time"

	"github.com/shopspring/decimal"
)

type allocateRequest struct {
	Orders []allocateOrder `json:"orders"`
}

type allocateOrder struct {
	OrderID   int64              `json:"order_id"`
	Receivers []allocateReceiver `json:"receivers"`
}

type allocateReceiver struct {
	ReceiverID int64          `json:"receiver_id"`
	Lines      []allocateLine `json:"lines"`
}

type allocateLine struct {
	CargoLineID  int64           `json:"cargo_line_id"`
	Quantity     int64           `json:"quantity"`
	Weight       decimal.Decimal `json:"weight"`
	ContainerIDs []int64         `json:"container_ids"`
}

type removeRequest struct {
	Orders []removeOrder `json:"orders"`
}

type removeOrder struct {
	OrderID   int64            `json:"order_id"`
	Receivers []removeReceiver `json:"receivers"`
}

type removeReceiver struct {
	ReceiverID int64        `json:"receiver_id"`
	Lines      []removeLine `json:"lines"`
}

type removeLine struct {
	CargoLineID  int64   `json:"cargo_line_id"`
	ContainerIDs []int64 `json:"container_ids"`
}

type receiverReportDTO struct {
	ReceiverID       int64           `json:"receiver_id"`
	AssignedQuantity int64           `json:"assigned_quantity"`
	AssignedWeight   decimal.Decimal `json:"assigned_weight"`
	Containers       []string        `json:"containers,omitempty"`
}

type skipDTO struct {
	OrderID     int64  `json:"order_id"`
	ReceiverID  int64  `json:"receiver_id"`
	CargoLineID int64  `json:"cargo_line_id"`
	ContainerID int64  `json:"container_id,omitempty"`
	Reason      string `json:"reason"`
}

type allocateResponse struct {
	Receivers []receiverReportDTO `json:"receivers"`
	Skips     []skipDTO           `json:"skips,omitempty"`
}

type removalReportDTO struct {
	ReceiverID      int64           `json:"receiver_id"`
	RemovedQuantity int64           `json:"removed_quantity"`
	RemovedWeight   decimal.Decimal `json:"removed_weight"`
	Containers      []string        `json:"containers,omitempty"`
}

type setStatusRequest struct {
	Status         string `json:"status"`
	ForceRecalcEta bool   `json:"force_recalc_eta,omitempty"`
}

type receiverDTO struct {
	ID           int64      `json:"id"`
	OrderID      int64      `json:"order_id"`
	Name         string     `json:"name"`
	Status       string     `json:"status"`
	ETA          *time.Time `json:"eta,omitempty"`
	Containers   []string   `json:"containers,omitempty"`
	QtyDelivered int64      `json:"qty_delivered"`
}

type orderDTO struct {
	ID                    int64      `json:"id"`
	Reference             string     `json:"reference"`
	TotalAssignedQuantity int64      `json:"total_assigned_quantity"`
	Status                string     `json:"status"`
	ETA                   *time.Time `json:"eta,omitempty"`
}

type statusResponse struct {
	Receiver receiverDTO `json:"receiver"`
	Order    orderDTO    `json:"order"`
}

type advanceResponse struct {
	PreviousStatus string    `json:"previous_status"`
	NewStatus      string    `json:"new_status"`
	SyncedStatus   string    `json:"synced_status"`
	NewEta         time.Time `json:"new_eta"`
	AffectedOrders []int64   `json:"affected_orders,omitempty"`
}

type fragmentDTO struct {
	ContainerID       int64           `json:"container_id"`
	ContainerNumber   string          `json:"container_number"`
	Status            string          `json:"status"`
	AssignedQuantity  int64           `json:"assigned_quantity"`
	AssignedWeight    decimal.Decimal `json:"assigned_weight"`
	RemainingQuantity int64           `json:"remaining_quantity"`
}

type cargoLineDTO struct {
	ID               int64           `json:"id"`
	ReceiverID       int64           `json:"receiver_id"`
	Description      string          `json:"description"`
	TotalQuantity    int64           `json:"total_quantity"`
	Weight           decimal.Decimal `json:"weight"`
	AssignedQuantity int64           `json:"assigned_quantity"`
	AssignedWeight   decimal.Decimal `json:"assigned_weight"`
	Remaining        int64           `json:"remaining"`
	Fragments        []fragmentDTO   `json:"fragments,omitempty"`
}

type containerEventDTO struct {
	State     string    `json:"state"`
	Location  string    `json:"location,omitempty"`
	Actor     string    `json:"actor"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type containerDTO struct {
	ID           int64               `json:"id"`
	Number       string              `json:"number"`
	Size         string              `json:"size"`
	Type         string              `json:"type"`
	OwnerType    string              `json:"owner_type"`
	Location     string              `json:"location,omitempty"`
	Availability string              `json:"availability"`
	History      []containerEventDTO `json:"history,omitempty"`
}

type setContainerStatusRequest struct {
	State    string `json:"state"`
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
}
