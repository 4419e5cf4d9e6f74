package handlers

import (
	"net/http"

	"github.com/support2-byte/Consolidate-sub000/internal/logx"
	"github.com/support2-byte/Consolidate-sub000/internal/service/status"
)

// StatusHandler serves the receiver status transition endpoint.
type StatusHandler struct {
	logger logx.Logger
	uc     statusUsecase
}

// NewStatusHandler wires a statusUsecase into HTTP handlers.
func NewStatusHandler(logger logx.Logger, uc statusUsecase) *StatusHandler {
	return &StatusHandler{logger: logger, uc: uc}
}

// Set handles PUT /orders/{orderID}/receivers/{receiverID}/status.
func (h *StatusHandler) Set(w http.ResponseWriter, r *http.Request) {
	orderID, err := idFromURL(r, "orderID")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	receiverID, err := idFromURL(r, "receiverID")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid receiver id")
		return
	}

	var req setStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	snap, err := h.uc.SetReceiverStatus(r.Context(), orderID, receiverID, req.Status, status.Options{
		ForceRecalcEta: req.ForceRecalcEta,
		Actor:          actorFrom(r),
	})
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, snapshotToResponse(snap))
}
