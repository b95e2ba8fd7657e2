package handlers

import (
	"errors"
	"net/http"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/policy"
	httperrors "github.com/joaoFerreiragHub/API-finhub-sub002/internal/transport/http/errors"
)

type PolicyHandler struct {
	service *policy.Service
}

func NewPolicyHandler(service *policy.Service) *PolicyHandler {
	return &PolicyHandler{service: service}
}

func (h *PolicyHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "POLICY_SERVICE_UNAVAILABLE", "policy engine is unavailable")
		return
	}

	evaluation, err := h.service.Evaluate(r.Context(), targetFromRequest(r))
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrNotFound):
			writeNotFound(w, "NOT_FOUND", "content not found")
		case errors.Is(err, policy.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		default:
			writeInternal(w, "INTERNAL_ERROR", "internal server error")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, evaluation)
}
