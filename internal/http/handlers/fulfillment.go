package handlers

import (
	"context"
	"errors"
	"net/http"

	"dairyfresh-fulfillment/internal/logx"
)

// FulfillmentHandler triggers the order generation batch over HTTP.
type FulfillmentHandler struct {
	uc     generationUsecase
	logger logx.Logger
}

// NewFulfillmentHandler creates a new FulfillmentHandler.
func NewFulfillmentHandler(logger logx.Logger, uc generationUsecase) *FulfillmentHandler {
	return &FulfillmentHandler{uc: uc, logger: logger}
}

// Generate handles POST /orders/generate. The batch never fails as a whole
// on per-subscription errors; the summary carries them.
func (h *FulfillmentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid date")
		return
	}

	sum, err := h.uc.GenerateForDate(r.Context(), date)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, sum)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(h.logger, w, r, http.StatusServiceUnavailable, "generation interrupted")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Preview handles GET /orders/generate/preview?date=.
func (h *FulfillmentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	date, err := dateFromQuery(r, "date")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid date")
		return
	}

	previews, err := h.uc.PreviewForDate(r.Context(), date)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, previews)
}
