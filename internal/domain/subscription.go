package domain

import "time"

// SubscriptionStatus represents the lifecycle state of a subscription.
type SubscriptionStatus string

// List of possible subscription statuses
const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPaused    SubscriptionStatus = "paused"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
	SubscriptionExpired   SubscriptionStatus = "expired"
)

var allowedSubscriptionStatuses = [...]SubscriptionStatus{
	SubscriptionActive, SubscriptionPaused, SubscriptionCancelled, SubscriptionExpired,
}

// Valid checks if the SubscriptionStatus is valid
func (s SubscriptionStatus) Valid() bool {
	for _, v := range allowedSubscriptionStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Subscription is a recurring standing order. NextDeliveryDate is nil when
// the subscription has no plan; otherwise it always points at a date the
// recurrence engine classifies as a valid, non-vacation delivery date.
type Subscription struct {
	ID               int64
	CustomerID       int64
	PlanID           *int64
	ZoneID           int64
	Status           SubscriptionStatus
	StartDate        time.Time
	EndDate          *time.Time
	NextDeliveryDate *time.Time
	VacationStart    *time.Time
	VacationEnd      *time.Time
}

// OnVacation reports whether date falls inside the subscription's vacation
// hold, inclusive on both ends.
func (s *Subscription) OnVacation(date time.Time) bool {
	if s.VacationStart == nil || s.VacationEnd == nil {
		return false
	}
	return WithinDates(date, s.VacationStart, s.VacationEnd)
}

// SubscriptionItem is one product line of a subscription.
type SubscriptionItem struct {
	ID        int64
	ProductID int64
	Quantity  int
	UnitPrice int64 // minor currency units
	IsActive  bool
}

// SubscriptionDetail bundles a subscription with its plan and items as
// loaded for order generation and schedule projection.
type SubscriptionDetail struct {
	Subscription Subscription
	Plan         *SubscriptionPlan
	Items        []SubscriptionItem
}

// ActiveItems returns the subset of items still marked active.
func (d *SubscriptionDetail) ActiveItems() []SubscriptionItem {
	out := make([]SubscriptionItem, 0, len(d.Items))
	for _, it := range d.Items {
		if it.IsActive {
			out = append(out, it)
		}
	}
	return out
}
