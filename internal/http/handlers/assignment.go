package handlers

import (
	"net/http"

	"github.com/support2-byte/Consolidate-sub000/internal/logx"
)

// AssignmentHandler serves the allocation and removal endpoints.
type AssignmentHandler struct {
	logger logx.Logger
	uc     assignmentUsecase
}

// NewAssignmentHandler wires an assignmentUsecase into HTTP handlers.
func NewAssignmentHandler(logger logx.Logger, uc assignmentUsecase) *AssignmentHandler {
	return &AssignmentHandler{logger: logger, uc: uc}
}

// Allocate handles POST /assignments.
func (h *AssignmentHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	var req allocateRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	res, err := h.uc.Allocate(r.Context(), req.toBatch(actorFrom(r)))
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, resultToResponse(res))
}

// Remove handles POST /assignments/remove.
func (h *AssignmentHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	reports, err := h.uc.Deallocate(r.Context(), req.toBatch(actorFrom(r)))
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, removalsToResponse(reports))
}

// RemoveReceiver handles DELETE /orders/{orderID}/receivers/{receiverID}/assignments.
func (h *AssignmentHandler) RemoveReceiver(w http.ResponseWriter, r *http.Request) {
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

	report, err := h.uc.DeallocateReceiver(r.Context(), orderID, receiverID, actorFrom(r))
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, removalToResponse(*report))
}
