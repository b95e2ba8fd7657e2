package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/enums"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/domain/model"
	adminauth "github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/adminauth"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/services/modqueue"
	"github.com/joaoFerreiragHub/API-finhub-sub002/internal/transport/http/dto"
	httperrors "github.com/joaoFerreiragHub/API-finhub-sub002/internal/transport/http/errors"
)

type QueueHandler struct {
	service *modqueue.Service
}

func NewQueueHandler(service *modqueue.Service) *QueueHandler {
	return &QueueHandler{service: service}
}

func (h *QueueHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "QUEUE_SERVICE_UNAVAILABLE", "moderation queue is unavailable")
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.service.List(r.Context(), filter)
	if err != nil {
		handleQueueError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, result)
}

func (h *QueueHandler) Moderate(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "QUEUE_SERVICE_UNAVAILABLE", "moderation queue is unavailable")
		return
	}
	identity, ok := adminauth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.ModerateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	action, err := enums.ParseModerationAction(req.Action)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}

	outcome, err := h.service.Moderate(r.Context(), identity.AdminID, targetFromRequest(r), action, req.Reason, req.Note)
	if err != nil {
		handleQueueError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, outcome)
}

func (h *QueueHandler) FastHide(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "QUEUE_SERVICE_UNAVAILABLE", "moderation queue is unavailable")
		return
	}
	identity, ok := adminauth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.FastHideRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	outcome, err := h.service.FastHide(r.Context(), identity.AdminID, targetFromRequest(r), req.Note, req.Reason)
	if err != nil {
		handleQueueError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, outcome)
}

func (h *QueueHandler) BulkModerate(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "QUEUE_SERVICE_UNAVAILABLE", "moderation queue is unavailable")
		return
	}
	identity, ok := adminauth.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}

	var req dto.BulkModerateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	action, err := enums.ParseModerationAction(req.Action)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}

	items := make([]model.Target, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.Target{Kind: enums.ContentKind(item.Kind), ID: item.ID})
	}

	result, err := h.service.BulkModerate(r.Context(), identity.AdminID, action, req.Reason, req.Note, req.Confirm, items)
	if err != nil {
		handleQueueError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, result)
}

func (h *QueueHandler) History(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "QUEUE_SERVICE_UNAVAILABLE", "moderation queue is unavailable")
		return
	}

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.service.History(r.Context(), targetFromRequest(r), limit, offset)
	if err != nil {
		handleQueueError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, result)
}

func handleQueueError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, modqueue.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", err.Error())
	case errors.Is(err, modqueue.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", err.Error())
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}

func targetFromRequest(r *http.Request) model.Target {
	return model.Target{
		Kind: enums.ContentKind(chi.URLParam(r, "kind")),
		ID:   chi.URLParam(r, "id"),
	}
}

func parseListFilter(r *http.Request) (modqueue.ListFilter, error) {
	var filter modqueue.ListFilter
	q := r.URL.Query()

	if raw := q.Get("kind"); raw != "" {
		kind, err := enums.ParseContentKind(raw)
		if err != nil {
			return modqueue.ListFilter{}, err
		}
		filter.Kind = &kind
	}
	if raw := q.Get("publish_status"); raw != "" {
		status, err := enums.ParsePublishStatus(raw)
		if err != nil {
			return modqueue.ListFilter{}, err
		}
		filter.PublishStatus = &status
	}
	if raw := q.Get("moderation_status"); raw != "" {
		status, err := enums.ParseModerationStatus(raw)
		if err != nil {
			return modqueue.ListFilter{}, err
		}
		filter.ModerationStatus = &status
	}
	if raw := q.Get("min_report_priority"); raw != "" {
		tier, err := enums.ParsePriorityTier(raw)
		if err != nil {
			return modqueue.ListFilter{}, err
		}
		filter.MinReportPriority = &tier
	}
	filter.FlaggedOnly = q.Get("flagged") == "true"
	filter.Search = strings.TrimSpace(q.Get("q"))

	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		return modqueue.ListFilter{}, err
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		return modqueue.ListFilter{}, err
	}
	filter.Limit = limit
	filter.Offset = offset

	return filter, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return v, nil
}
