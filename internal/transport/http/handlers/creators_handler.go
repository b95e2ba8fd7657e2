package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	adminauth "github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/adminauth"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/creatorops"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/transport/http/dto"
	httperrors "github.com/joaoFerreiragHub/API-finhub-sub002/internal/transport/http/errors"
)

type CreatorsHandler struct {
	service *creatorops.Service
}

func NewCreatorsHandler(service *creatorops.Service) *CreatorsHandler {
	return &CreatorsHandler{service: service}
}

func (h *CreatorsHandler) GetControls(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CREATOR_OPS_UNAVAILABLE", "creator controls are unavailable")
		return
	}

	state, err := h.service.GetState(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleCreatorsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, state)
}

func (h *CreatorsHandler) ApplyControl(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "CREATOR_OPS_UNAVAILABLE", "creator controls are unavailable")
		return
	}
	identity, ok := adminauth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.ApplyControlRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	state, err := h.service.ApplyControl(r.Context(), identity.AdminID, chi.URLParam(r, "id"), req.Control, req.Enabled)
	if err != nil {
		handleCreatorsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, state)
}

func handleCreatorsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, creatorops.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", err.Error())
	case errors.Is(err, creatorops.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
