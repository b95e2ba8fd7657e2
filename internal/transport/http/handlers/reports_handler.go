package handlers

import (
	"errors"
	"net/http"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/model"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/reports"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/transport/http/dto"
	httperrors "github.com/joaoFerreiragHub/API-finhub-sub002/internal/transport/http/errors"
)

type ReportsHandler struct {
	service *reports.Service
}

func NewReportsHandler(service *reports.Service) *ReportsHandler {
	return &ReportsHandler{service: service}
}

// Submit files a report on behalf of the platform user named in
// X-User-Id. End-user authentication lives in the main API gateway;
// this service trusts the forwarded identity header.
func (h *ReportsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "REPORTS_SERVICE_UNAVAILABLE", "report intake is unavailable")
		return
	}

	reporterID := r.Header.Get("X-User-Id")
	if reporterID == "" {
		writeUnauthorized(w, "UNAUTHORIZED", "X-User-Id header is required")
		return
	}

	var req dto.SubmitReportRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	target := model.Target{Kind: enums.ContentKind(req.Kind), ID: req.ID}
	err := h.service.Submit(r.Context(), reporterID, target, enums.ReportReason(req.Reason), req.Note)
	if err != nil {
		handleReportsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SubmitReportResponse{OK: true})
}

func (h *ReportsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "REPORTS_SERVICE_UNAVAILABLE", "report intake is unavailable")
		return
	}

	reporterID := r.Header.Get("X-User-Id")
	if reporterID == "" {
		writeUnauthorized(w, "UNAUTHORIZED", "X-User-Id header is required")
		return
	}

	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}

	items, err := h.service.ListMine(r.Context(), reporterID, limit, offset)
	if err != nil {
		handleReportsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, map[string]any{"items": items})
}

func handleReportsError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, reports.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", err.Error())
	case errors.Is(err, reports.ErrConflict):
		writeConflict(w, "CONFLICT", err.Error())
	case errors.Is(err, reports.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
