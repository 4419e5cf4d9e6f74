package handlers

import (
	"net/http"

	"github.com/support2-byte/Consolidate-sub000/internal/logx"
)

// ContainerHandler serves container reads and manual status overrides.
type ContainerHandler struct {
	logger logx.Logger
	uc     containerUsecase
}

// NewContainerHandler wires a containerUsecase into HTTP handlers.
func NewContainerHandler(logger logx.Logger, uc containerUsecase) *ContainerHandler {
	return &ContainerHandler{logger: logger, uc: uc}
}

// Get handles GET /containers/{id}.
func (h *ContainerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	view, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, viewToResponse(view))
}

// SetStatus handles PUT /containers/{id}/status.
func (h *ContainerHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	var req setContainerStatusRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	view, err := h.uc.SetStatus(r.Context(), id, req.State, req.Location, actorFrom(r), req.Notes)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, viewToResponse(view))
}
