package handlers

import (
	"net/http"

	"dairyfresh-fulfillment/internal/logx"
)

// ReportsHandler serves fulfillment dashboards.
type ReportsHandler struct {
	uc     assignmentUsecase
	logger logx.Logger
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(logger logx.Logger, uc assignmentUsecase) *ReportsHandler {
	return &ReportsHandler{uc: uc, logger: logger}
}

// DriverLoads handles GET /reports/driver-loads?date=.
func (h *ReportsHandler) DriverLoads(w http.ResponseWriter, r *http.Request) {
	date, err := dateFromQuery(r, "date")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid date")
		return
	}

	loads, err := h.uc.DriverLoads(r.Context(), date)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, driverLoadsToResponse(loads))
}

// ZoneSummaries handles GET /reports/zones?date=.
func (h *ReportsHandler) ZoneSummaries(w http.ResponseWriter, r *http.Request) {
	date, err := dateFromQuery(r, "date")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid date")
		return
	}

	sums, err := h.uc.ZoneSummaries(r.Context(), date)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, zoneSummariesToResponse(sums))
}

// Upcoming handles GET /reports/upcoming?date=&days=.
func (h *ReportsHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	from, err := dateFromQuery(r, "date")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid date")
		return
	}
	days := 7
	if p, err := intFromQuery(r, "days"); err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid days")
		return
	} else if p != nil && *p > 0 {
		days = *p
	}

	counts, err := h.uc.Upcoming(r.Context(), from, days)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, dateCountsToResponse(counts))
}
