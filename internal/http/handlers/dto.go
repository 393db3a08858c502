package handlers

import (
	"time"

	"dairyfresh-fulfillment/internal/domain"
)

type driverDTO struct {
	ID                  int64  `json:"id"`
	Name                string `json:"name"`
	Phone               string `json:"phone"`
	ZoneID              int64  `json:"zone_id"`
	MaxDeliveriesPerDay int    `json:"max_deliveries_per_day"`
	IsActive            bool   `json:"is_active"`
}

type createDriverRequest struct {
	Name                string `json:"name"`
	Phone               string `json:"phone"`
	ZoneID              int64  `json:"zone_id"`
	MaxDeliveriesPerDay int    `json:"max_deliveries_per_day"`
	IsActive            *bool  `json:"is_active,omitempty"`
}

type updateDriverRequest struct {
	Name                *string `json:"name,omitempty"`
	Phone               *string `json:"phone,omitempty"`
	ZoneID              *int64  `json:"zone_id,omitempty"`
	MaxDeliveriesPerDay *int    `json:"max_deliveries_per_day,omitempty"`
	IsActive            *bool   `json:"is_active,omitempty"`
}

type deliveryDTO struct {
	ID            int64      `json:"id"`
	OrderID       int64      `json:"order_id"`
	ZoneID        int64      `json:"zone_id"`
	DriverID      *int64     `json:"driver_id,omitempty"`
	Status        string     `json:"status"`
	ScheduledDate string     `json:"scheduled_date"`
	Sequence      *int       `json:"sequence,omitempty"`
	AssignedAt    *time.Time `json:"assigned_at,omitempty"`
	DispatchedAt  *time.Time `json:"dispatched_at,omitempty"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`
	ProofImage    *string    `json:"proof_image,omitempty"`
	FailureReason *string    `json:"failure_reason,omitempty"`
}

type transitionRequest struct {
	Status     string  `json:"status"`
	DriverID   *int64  `json:"driver_id,omitempty"`
	ProofImage *string `json:"proof_image,omitempty"`
	Reason     *string `json:"reason,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

type generateRequest struct {
	Date string `json:"date"`
}

type autoAssignRequest struct {
	Date   string `json:"date"`
	ZoneID *int64 `json:"zone_id,omitempty"`
}

type assignDriverRequest struct {
	DriverID int64 `json:"driver_id"`
}

type bulkAssignRequest struct {
	DeliveryIDs []int64 `json:"delivery_ids"`
}

type sequenceItem struct {
	DeliveryID int64 `json:"delivery_id"`
	Sequence   int   `json:"sequence"`
}

type resequenceRequest struct {
	Date  string         `json:"date"`
	Items []sequenceItem `json:"items"`
}

type vacationRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type subscriptionDTO struct {
	ID               int64   `json:"id"`
	CustomerID       int64   `json:"customer_id"`
	PlanID           *int64  `json:"plan_id,omitempty"`
	ZoneID           int64   `json:"zone_id"`
	Status           string  `json:"status"`
	StartDate        string  `json:"start_date"`
	EndDate          *string `json:"end_date,omitempty"`
	NextDeliveryDate *string `json:"next_delivery_date,omitempty"`
	VacationStart    *string `json:"vacation_start,omitempty"`
	VacationEnd      *string `json:"vacation_end,omitempty"`
}

type subscriptionItemDTO struct {
	ID        int64 `json:"id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
	IsActive  bool  `json:"is_active"`
}

type subscriptionDetailDTO struct {
	subscriptionDTO
	PlanName string                `json:"plan_name,omitempty"`
	Items    []subscriptionItemDTO `json:"items"`
}

type driverLoadDTO struct {
	driverDTO
	Assigned  int `json:"assigned"`
	Remaining int `json:"remaining"`
}

type zoneSummaryDTO struct {
	ZoneID         int64  `json:"zone_id"`
	ZoneName       string `json:"zone_name"`
	Pending        int    `json:"pending"`
	Assigned       int    `json:"assigned"`
	OutForDelivery int    `json:"out_for_delivery"`
	Delivered      int    `json:"delivered"`
	Failed         int    `json:"failed"`
}

type dateCountDTO struct {
	Date       string `json:"date"`
	Deliveries int    `json:"deliveries"`
}

func fmtDate(t time.Time) string { return t.Format(dateLayout) }

func fmtDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := fmtDate(*t)
	return &s
}

func (r transitionRequest) toData() domain.TransitionData {
	return domain.TransitionData{
		DriverID:   r.DriverID,
		ProofImage: r.ProofImage,
		Reason:     r.Reason,
		Notes:      r.Notes,
	}
}
