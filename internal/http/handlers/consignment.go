package handlers

import (
	"net/http"

	"github.com/support2-byte/Consolidate-sub000/internal/logx"
)

// ConsignmentHandler serves the consignment pipeline endpoint.
type ConsignmentHandler struct {
	logger logx.Logger
	uc     consignmentUsecase
}

// NewConsignmentHandler wires a consignmentUsecase into HTTP handlers.
func NewConsignmentHandler(logger logx.Logger, uc consignmentUsecase) *ConsignmentHandler {
	return &ConsignmentHandler{logger: logger, uc: uc}
}

// Advance handles POST /consignments/{id}/advance.
func (h *ConsignmentHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	report, err := h.uc.Advance(r.Context(), id, actorFrom(r))
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, reportToResponse(report))
}
