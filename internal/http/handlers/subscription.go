package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"dairyfresh-fulfillment/internal/apperr"
	"dairyfresh-fulfillment/internal/logx"
)

// SubscriptionHandler handles HTTP requests for subscription resources.
type SubscriptionHandler struct {
	uc     subscriptionUsecase
	logger logx.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(logger logx.Logger, uc subscriptionUsecase) *SubscriptionHandler {
	return &SubscriptionHandler{uc: uc, logger: logger}
}

// GetByID handles GET /subscriptions/{id}.
func (h *SubscriptionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	d, err := h.uc.Detail(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, subscriptionDetailToResponse(d))
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "subscription not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

func (h *SubscriptionHandler) lifecycle(w http.ResponseWriter, r *http.Request, op func(id int64) error) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	err = op(id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusUnprocessableEntity, "operation not allowed in current state")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "subscription not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Pause handles POST /subscriptions/{id}/pause.
func (h *SubscriptionHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(id int64) error { return h.uc.Pause(r.Context(), id) })
}

// Resume handles POST /subscriptions/{id}/resume.
func (h *SubscriptionHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(id int64) error { return h.uc.Resume(r.Context(), id) })
}

// Cancel handles POST /subscriptions/{id}/cancel.
func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(id int64) error { return h.uc.Cancel(r.Context(), id) })
}

// SetVacation handles PUT /subscriptions/{id}/vacation.
func (h *SubscriptionHandler) SetVacation(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req vacationRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	start, err := parseDate(req.Start)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid start date")
		return
	}
	end, err := parseDate(req.End)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid end date")
		return
	}

	err = h.uc.SetVacation(r.Context(), id, start, end)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid vacation range")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "subscription not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// ClearVacation handles DELETE /subscriptions/{id}/vacation.
func (h *SubscriptionHandler) ClearVacation(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, func(id int64) error { return h.uc.ClearVacation(r.Context(), id) })
}

// MonthSchedule handles GET /subscriptions/{id}/schedule?year=&month=.
func (h *SubscriptionHandler) MonthSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid month")
		return
	}

	m, err := h.uc.MonthSchedule(r.Context(), id, year, time.Month(month))
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, m)
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid year/month")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "subscription not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Upcoming handles GET /subscriptions/{id}/upcoming?limit=.
// A schedule that runs out before limit dates returns the short list with
// "exhausted": true instead of an error.
func (h *SubscriptionHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	limit := 10
	if p, err := intFromQuery(r, "limit"); err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid limit")
		return
	} else if p != nil {
		limit = *p
	}

	dates, err := h.uc.UpcomingDeliveries(r.Context(), id, limit)
	exhausted := false
	switch {
	case err == nil:
	case errors.Is(err, apperr.ErrInsufficientSchedule):
		exhausted = true
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid limit")
		return
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "subscription not found")
		return
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, fmtDate(d))
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]any{
		"dates":     out,
		"exhausted": exhausted,
	})
}
