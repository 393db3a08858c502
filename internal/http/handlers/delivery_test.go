package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dairyfresh-fulfillment/internal/apperr"
	"dairyfresh-fulfillment/internal/domain"
	"dairyfresh-fulfillment/internal/http/handlers"
	"dairyfresh-fulfillment/internal/service/assignment"
)

type stubStatusUsecase struct {
	updateFn   func(ctx context.Context, deliveryID int64, next domain.DeliveryStatus, data domain.TransitionData) (*domain.Delivery, error)
	statusesFn func(ctx context.Context, deliveryID int64) ([]domain.DeliveryStatus, error)
}

func (s *stubStatusUsecase) Update(ctx context.Context, deliveryID int64, next domain.DeliveryStatus, data domain.TransitionData) (*domain.Delivery, error) {
	return s.updateFn(ctx, deliveryID, next, data)
}

func (s *stubStatusUsecase) AvailableStatuses(ctx context.Context, deliveryID int64) ([]domain.DeliveryStatus, error) {
	return s.statusesFn(ctx, deliveryID)
}

type stubAssignmentUsecase struct {
	autoAssignFn      func(ctx context.Context, date time.Time, zoneID *int64) (assignment.Result, error)
	assignToDriverFn  func(ctx context.Context, deliveryID, driverID int64) (*domain.Delivery, error)
	assignManyFn      func(ctx context.Context, driverID int64, deliveryIDs []int64) ([]domain.Delivery, error)
	updateSequencesFn func(ctx context.Context, driverID int64, date time.Time, updates []assignment.SequenceUpdate) error
	driverLoadsFn     func(ctx context.Context, date time.Time) ([]domain.DriverLoad, error)
	zoneSummariesFn   func(ctx context.Context, date time.Time) ([]domain.ZoneSummary, error)
	upcomingFn        func(ctx context.Context, from time.Time, days int) ([]domain.DateCount, error)
}

func (s *stubAssignmentUsecase) AutoAssign(ctx context.Context, date time.Time, zoneID *int64) (assignment.Result, error) {
	return s.autoAssignFn(ctx, date, zoneID)
}

func (s *stubAssignmentUsecase) AssignToDriver(ctx context.Context, deliveryID, driverID int64) (*domain.Delivery, error) {
	return s.assignToDriverFn(ctx, deliveryID, driverID)
}

func (s *stubAssignmentUsecase) AssignManyToDriver(ctx context.Context, driverID int64, deliveryIDs []int64) ([]domain.Delivery, error) {
	return s.assignManyFn(ctx, driverID, deliveryIDs)
}

func (s *stubAssignmentUsecase) UpdateSequences(ctx context.Context, driverID int64, date time.Time, updates []assignment.SequenceUpdate) error {
	return s.updateSequencesFn(ctx, driverID, date, updates)
}

func (s *stubAssignmentUsecase) DriverLoads(ctx context.Context, date time.Time) ([]domain.DriverLoad, error) {
	return s.driverLoadsFn(ctx, date)
}

func (s *stubAssignmentUsecase) ZoneSummaries(ctx context.Context, date time.Time) ([]domain.ZoneSummary, error) {
	return s.zoneSummariesFn(ctx, date)
}

func (s *stubAssignmentUsecase) Upcoming(ctx context.Context, from time.Time, days int) ([]domain.DateCount, error) {
	return s.upcomingFn(ctx, from, days)
}

func newDeliveryHandler(st *stubStatusUsecase, asg *stubAssignmentUsecase) *handlers.DeliveryHandler {
	if st == nil {
		st = &stubStatusUsecase{}
	}
	if asg == nil {
		asg = &stubAssignmentUsecase{}
	}
	return handlers.NewDeliveryHandler(testLogger(), st, asg)
}

func TestDeliveryHandler_UpdateStatus_OK(t *testing.T) {
	t.Parallel()

	driverID := int64(5)
	var gotNext domain.DeliveryStatus
	var gotData domain.TransitionData

	st := &stubStatusUsecase{
		updateFn: func(ctx context.Context, deliveryID int64, next domain.DeliveryStatus, data domain.TransitionData) (*domain.Delivery, error) {
			require.Equal(t, int64(7), deliveryID)
			gotNext, gotData = next, data
			return &domain.Delivery{
				ID:            7,
				OrderID:       70,
				ZoneID:        1,
				DriverID:      &driverID,
				Status:        domain.DeliveryAssigned,
				ScheduledDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	h := newDeliveryHandler(st, nil)

	body := `{"status":"assigned","driver_id":5}`
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/deliveries/7/status", strings.NewReader(body)), "id", "7")
	rr := httptest.NewRecorder()

	h.UpdateStatus(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, domain.DeliveryAssigned, gotNext)
	require.NotNil(t, gotData.DriverID)
	require.Equal(t, int64(5), *gotData.DriverID)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Equal(t, "assigned", resp["status"])
	require.Equal(t, "2025-06-02", resp["scheduled_date"])
}

func TestDeliveryHandler_UpdateStatus_InvalidTransition(t *testing.T) {
	t.Parallel()

	st := &stubStatusUsecase{
		updateFn: func(ctx context.Context, deliveryID int64, next domain.DeliveryStatus, data domain.TransitionData) (*domain.Delivery, error) {
			return nil, apperr.ErrInvalidTransition
		},
	}
	h := newDeliveryHandler(st, nil)

	body := `{"status":"delivered"}`
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/deliveries/7/status", strings.NewReader(body)), "id", "7")
	rr := httptest.NewRecorder()

	h.UpdateStatus(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestDeliveryHandler_UpdateStatus_Conflict(t *testing.T) {
	t.Parallel()

	st := &stubStatusUsecase{
		updateFn: func(ctx context.Context, deliveryID int64, next domain.DeliveryStatus, data domain.TransitionData) (*domain.Delivery, error) {
			return nil, apperr.ErrConflict
		},
	}
	h := newDeliveryHandler(st, nil)

	body := `{"status":"assigned","driver_id":5}`
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/deliveries/7/status", strings.NewReader(body)), "id", "7")
	rr := httptest.NewRecorder()

	h.UpdateStatus(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestDeliveryHandler_UpdateStatus_NotFound(t *testing.T) {
	t.Parallel()

	st := &stubStatusUsecase{
		updateFn: func(ctx context.Context, deliveryID int64, next domain.DeliveryStatus, data domain.TransitionData) (*domain.Delivery, error) {
			return nil, apperr.ErrNotFound
		},
	}
	h := newDeliveryHandler(st, nil)

	body := `{"status":"cancelled"}`
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/deliveries/404/status", strings.NewReader(body)), "id", "404")
	rr := httptest.NewRecorder()

	h.UpdateStatus(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeliveryHandler_AvailableStatuses_OK(t *testing.T) {
	t.Parallel()

	st := &stubStatusUsecase{
		statusesFn: func(ctx context.Context, deliveryID int64) ([]domain.DeliveryStatus, error) {
			return []domain.DeliveryStatus{domain.DeliveryAssigned, domain.DeliveryCancelled}, nil
		},
	}
	h := newDeliveryHandler(st, nil)

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/deliveries/7/transitions", nil), "id", "7")
	rr := httptest.NewRecorder()

	h.AvailableStatuses(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"statuses":["assigned","cancelled"]}`, rr.Body.String())
}

func TestDeliveryHandler_Assign_OK(t *testing.T) {
	t.Parallel()

	driverID := int64(5)
	asg := &stubAssignmentUsecase{
		assignToDriverFn: func(ctx context.Context, deliveryID, drID int64) (*domain.Delivery, error) {
			require.Equal(t, int64(7), deliveryID)
			require.Equal(t, driverID, drID)
			return &domain.Delivery{
				ID:            7,
				DriverID:      &driverID,
				Status:        domain.DeliveryAssigned,
				ScheduledDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	h := newDeliveryHandler(nil, asg)

	body := `{"driver_id":5}`
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/deliveries/7/assign", strings.NewReader(body)), "id", "7")
	rr := httptest.NewRecorder()

	h.Assign(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestDeliveryHandler_Assign_InvalidDriverID(t *testing.T) {
	t.Parallel()

	asg := &stubAssignmentUsecase{
		assignToDriverFn: func(ctx context.Context, deliveryID, driverID int64) (*domain.Delivery, error) {
			require.FailNow(t, "AssignToDriver should not be called with non-positive driver_id")
			return nil, nil
		},
	}
	h := newDeliveryHandler(nil, asg)

	body := `{"driver_id":0}`
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/deliveries/7/assign", strings.NewReader(body)), "id", "7")
	rr := httptest.NewRecorder()

	h.Assign(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeliveryHandler_Assign_RoutePositionConflict(t *testing.T) {
	t.Parallel()

	asg := &stubAssignmentUsecase{
		assignToDriverFn: func(ctx context.Context, deliveryID, driverID int64) (*domain.Delivery, error) {
			return nil, apperr.ErrConflict
		},
	}
	h := newDeliveryHandler(nil, asg)

	body := `{"driver_id":5}`
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/deliveries/7/assign", strings.NewReader(body)), "id", "7")
	rr := httptest.NewRecorder()

	h.Assign(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)
}

func TestDeliveryHandler_AssignBulk_OK(t *testing.T) {
	t.Parallel()

	driverID := int64(5)
	asg := &stubAssignmentUsecase{
		assignManyFn: func(ctx context.Context, drID int64, deliveryIDs []int64) ([]domain.Delivery, error) {
			require.Equal(t, driverID, drID)
			require.Equal(t, []int64{9, 7, 8}, deliveryIDs)
			out := make([]domain.Delivery, 0, len(deliveryIDs))
			for i, id := range deliveryIDs {
				seq := i + 1
				out = append(out, domain.Delivery{
					ID:            id,
					DriverID:      &driverID,
					Status:        domain.DeliveryAssigned,
					Sequence:      &seq,
					ScheduledDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
				})
			}
			return out, nil
		},
	}
	h := newDeliveryHandler(nil, asg)

	body := `{"delivery_ids":[9,7,8]}`
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/drivers/5/assignments", strings.NewReader(body)), "id", "5")
	rr := httptest.NewRecorder()

	h.AssignBulk(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp []map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp, 3)
	require.Equal(t, float64(9), resp[0]["id"])
	require.Equal(t, float64(1), resp[0]["sequence"])
	require.Equal(t, float64(8), resp[2]["id"])
	require.Equal(t, float64(3), resp[2]["sequence"])
}

func TestDeliveryHandler_AssignBulk_EmptyList(t *testing.T) {
	t.Parallel()

	asg := &stubAssignmentUsecase{
		assignManyFn: func(ctx context.Context, driverID int64, deliveryIDs []int64) ([]domain.Delivery, error) {
			require.FailNow(t, "AssignManyToDriver should not be called with an empty list")
			return nil, nil
		},
	}
	h := newDeliveryHandler(nil, asg)

	body := `{"delivery_ids":[]}`
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/drivers/5/assignments", strings.NewReader(body)), "id", "5")
	rr := httptest.NewRecorder()

	h.AssignBulk(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeliveryHandler_AssignBulk_NotAssignable(t *testing.T) {
	t.Parallel()

	asg := &stubAssignmentUsecase{
		assignManyFn: func(ctx context.Context, driverID int64, deliveryIDs []int64) ([]domain.Delivery, error) {
			return nil, apperr.ErrInvalidTransition
		},
	}
	h := newDeliveryHandler(nil, asg)

	body := `{"delivery_ids":[7]}`
	req := withURLParam(httptest.NewRequest(http.MethodPost, "/drivers/5/assignments", strings.NewReader(body)), "id", "5")
	rr := httptest.NewRecorder()

	h.AssignBulk(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestDeliveryHandler_AutoAssign_OK(t *testing.T) {
	t.Parallel()

	var gotZone *int64

	asg := &stubAssignmentUsecase{
		autoAssignFn: func(ctx context.Context, date time.Time, zoneID *int64) (assignment.Result, error) {
			gotZone = zoneID
			return assignment.Result{Assigned: 4, Unassigned: 1}, nil
		},
	}
	h := newDeliveryHandler(nil, asg)

	body := `{"date":"2025-06-02","zone_id":3}`
	req := httptest.NewRequest(http.MethodPost, "/deliveries/auto-assign", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.AutoAssign(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, gotZone)
	require.Equal(t, int64(3), *gotZone)
	require.JSONEq(t, `{"assigned":4,"unassigned":1}`, rr.Body.String())
}

func TestDeliveryHandler_AutoAssign_InvalidDate(t *testing.T) {
	t.Parallel()

	asg := &stubAssignmentUsecase{
		autoAssignFn: func(ctx context.Context, date time.Time, zoneID *int64) (assignment.Result, error) {
			require.FailNow(t, "AutoAssign should not be called on invalid date")
			return assignment.Result{}, nil
		},
	}
	h := newDeliveryHandler(nil, asg)

	body := `{"date":"June 2nd"}`
	req := httptest.NewRequest(http.MethodPost, "/deliveries/auto-assign", strings.NewReader(body))
	rr := httptest.NewRecorder()

	h.AutoAssign(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeliveryHandler_Resequence_OK(t *testing.T) {
	t.Parallel()

	var gotDriverID int64
	var gotUpdates []assignment.SequenceUpdate

	asg := &stubAssignmentUsecase{
		updateSequencesFn: func(ctx context.Context, driverID int64, date time.Time, updates []assignment.SequenceUpdate) error {
			gotDriverID = driverID
			gotUpdates = updates
			return nil
		},
	}
	h := newDeliveryHandler(nil, asg)

	body := `{"date":"2025-06-02","items":[{"delivery_id":7,"sequence":1},{"delivery_id":8,"sequence":2}]}`
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/drivers/5/route", strings.NewReader(body)), "id", "5")
	rr := httptest.NewRecorder()

	h.Resequence(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, int64(5), gotDriverID)
	require.Equal(t, []assignment.SequenceUpdate{
		{DeliveryID: 7, Sequence: 1},
		{DeliveryID: 8, Sequence: 2},
	}, gotUpdates)
}

func TestDeliveryHandler_Resequence_SequenceConflict(t *testing.T) {
	t.Parallel()

	asg := &stubAssignmentUsecase{
		updateSequencesFn: func(ctx context.Context, driverID int64, date time.Time, updates []assignment.SequenceUpdate) error {
			return apperr.ErrConflict
		},
	}
	h := newDeliveryHandler(nil, asg)

	body := `{"date":"2025-06-02","items":[{"delivery_id":7,"sequence":1}]}`
	req := withURLParam(httptest.NewRequest(http.MethodPut, "/drivers/5/route", strings.NewReader(body)), "id", "5")
	rr := httptest.NewRecorder()

	h.Resequence(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)
}
