package handlers

import (
	"errors"
	"net/http"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/trust"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/transport/http/dto"
	httperrors "github.com/joaoFerreiragHub/API-finhub-sub002/internal/transport/http/errors"
)

type TrustHandler struct {
	service *trust.Service
}

func NewTrustHandler(service *trust.Service) *TrustHandler {
	return &TrustHandler{service: service}
}

func (h *TrustHandler) ScoreCreators(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "TRUST_SERVICE_UNAVAILABLE", "trust scorer is unavailable")
		return
	}

	var req dto.TrustScoresRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	if len(req.CreatorIDs) == 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "creator_ids are required")
		return
	}

	scores, err := h.service.ScoreCreators(r.Context(), req.CreatorIDs)
	if err != nil {
		if errors.Is(err, trust.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", err.Error())
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	httperrors.Write(w, http.StatusOK, map[string]any{"creators": scores})
}
