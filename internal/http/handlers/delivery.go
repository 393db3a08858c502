package handlers

import (
	"errors"
	"net/http"

	"dairyfresh-fulfillment/internal/apperr"
	"dairyfresh-fulfillment/internal/domain"
	"dairyfresh-fulfillment/internal/logx"
	"dairyfresh-fulfillment/internal/service/assignment"
)

// DeliveryHandler handles HTTP requests for delivery resources.
type DeliveryHandler struct {
	status     statusUsecase
	assignment assignmentUsecase
	logger     logx.Logger
}

// NewDeliveryHandler creates a new DeliveryHandler.
func NewDeliveryHandler(logger logx.Logger, st statusUsecase, asg assignmentUsecase) *DeliveryHandler {
	return &DeliveryHandler{status: st, assignment: asg, logger: logger}
}

// UpdateStatus handles POST /deliveries/{id}/status.
func (h *DeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req transitionRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	d, err := h.status.Update(r.Context(), id, domain.DeliveryStatus(req.Status), req.toData())
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(d))
	case errors.Is(err, apperr.ErrInvalidTransition):
		writeError(h.logger, w, r, http.StatusUnprocessableEntity, "transition not allowed")
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "delivery not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "concurrent update, retry")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// AvailableStatuses handles GET /deliveries/{id}/transitions.
func (h *DeliveryHandler) AvailableStatuses(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	statuses, err := h.status.AvailableStatuses(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]any{"statuses": statuses})
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "delivery not found")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// Assign handles POST /deliveries/{id}/assign for manual assignment.
func (h *DeliveryHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req assignDriverRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if req.DriverID <= 0 {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid driver_id")
		return
	}

	d, err := h.assignment.AssignToDriver(r.Context(), id, req.DriverID)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(d))
	case errors.Is(err, apperr.ErrInvalidTransition):
		writeError(h.logger, w, r, http.StatusUnprocessableEntity, "delivery is not assignable")
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "route position taken, retry")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// AssignBulk handles POST /drivers/{id}/assignments. The whole batch lands
// on the driver's route in the order supplied, or not at all.
func (h *DeliveryHandler) AssignBulk(w http.ResponseWriter, r *http.Request) {
	driverID, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req bulkAssignRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	if len(req.DeliveryIDs) == 0 {
		writeError(h.logger, w, r, http.StatusBadRequest, "delivery_ids must not be empty")
		return
	}

	assigned, err := h.assignment.AssignManyToDriver(r.Context(), driverID, req.DeliveryIDs)
	switch {
	case err == nil:
		out := make([]deliveryDTO, 0, len(assigned))
		for i := range assigned {
			out = append(out, deliveryToResponse(&assigned[i]))
		}
		writeJSON(h.logger, w, r, http.StatusOK, out)
	case errors.Is(err, apperr.ErrInvalidTransition):
		writeError(h.logger, w, r, http.StatusUnprocessableEntity, "delivery is not assignable")
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "route position taken, retry")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

// AutoAssign handles POST /deliveries/auto-assign.
func (h *DeliveryHandler) AutoAssign(w http.ResponseWriter, r *http.Request) {
	var req autoAssignRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid date")
		return
	}

	res, err := h.assignment.AutoAssign(r.Context(), date, req.ZoneID)
	if err != nil {
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, res)
}

// Resequence handles PUT /drivers/{id}/route.
func (h *DeliveryHandler) Resequence(w http.ResponseWriter, r *http.Request) {
	driverID, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req resequenceRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid date")
		return
	}

	updates := make([]assignment.SequenceUpdate, 0, len(req.Items))
	for _, it := range req.Items {
		updates = append(updates, assignment.SequenceUpdate{DeliveryID: it.DeliveryID, Sequence: it.Sequence})
	}

	err = h.assignment.UpdateSequences(r.Context(), driverID, date, updates)
	switch {
	case err == nil:
		writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(h.logger, w, r, http.StatusNotFound, "delivery not found")
	case errors.Is(err, apperr.ErrConflict):
		writeError(h.logger, w, r, http.StatusConflict, "sequence conflict, retry")
	default:
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
