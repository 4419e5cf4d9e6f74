package handlers

import (
	"net/http"

	"github.com/support2-byte/Consolidate-sub000/internal/logx"
)

// CargoHandler serves cargo line reads.
type CargoHandler struct {
	logger logx.Logger
	uc     cargoUsecase
}

// NewCargoHandler wires a cargoUsecase into HTTP handlers.
func NewCargoHandler(logger logx.Logger, uc cargoUsecase) *CargoHandler {
	return &CargoHandler{logger: logger, uc: uc}
}

// Get handles GET /orders/{orderID}/cargo-lines/{lineID}.
func (h *CargoHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, err := idFromURL(r, "orderID"); err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid order id")
		return
	}
	lineID, err := idFromURL(r, "lineID")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid cargo line id")
		return
	}

	line, err := h.uc.GetCargoLine(r.Context(), lineID)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, lineToResponse(line))
}
