// Package recurrence implements the pure scheduling rules of subscription
// plans: whether a given date is a delivery date and where the next one
// falls. It performs no I/O; the current date is always passed in.
package recurrence

import (
	"time"

	"dairyfresh-fulfillment/internal/apperr"
	"dairyfresh-fulfillment/internal/domain"
)

// probeCeiling bounds every day-by-day walk. A custom plan with an empty
// weekday set would otherwise never terminate.
const probeCeiling = 2 * 366

// IsDeliveryDate reports whether date is a valid, non-vacation delivery date
// for the subscription. Inactive subscriptions, dates before the start date,
// dates past the end date and vacation-held dates never qualify.
func IsDeliveryDate(sub *domain.Subscription, plan *domain.SubscriptionPlan, date time.Time) bool {
	if sub.Status != domain.SubscriptionActive {
		return false
	}
	day := domain.DateOnly(date)
	if day.Before(domain.DateOnly(sub.StartDate)) {
		return false
	}
	if sub.EndDate != nil && day.After(domain.DateOnly(*sub.EndDate)) {
		return false
	}
	if sub.OnVacation(day) {
		return false
	}
	if plan == nil {
		return false
	}
	return matchesPattern(plan, sub.StartDate, day)
}

// NextDeliveryDate returns the first plan candidate strictly after from that
// is not vacation-held and not before today. Held occurrences are dropped,
// not rescheduled: the cycle keeps its anchor and skipped days are never
// compensated. A subscription without a plan degrades to from+1 day.
func NextDeliveryDate(sub *domain.Subscription, plan *domain.SubscriptionPlan, from, today time.Time) (time.Time, error) {
	if plan == nil {
		return domain.DateOnly(from).AddDate(0, 0, 1), nil
	}

	start := domain.DateOnly(sub.StartDate)
	candidate := domain.DateOnly(from).AddDate(0, 0, 1)
	if candidate.Before(start) {
		candidate = start
	}
	floor := domain.DateOnly(today)

	for probes := 0; probes < probeCeiling; probes++ {
		if sub.EndDate != nil && candidate.After(domain.DateOnly(*sub.EndDate)) {
			return time.Time{}, apperr.ErrInsufficientSchedule
		}
		if matchesPattern(plan, sub.StartDate, candidate) &&
			!sub.OnVacation(candidate) &&
			!candidate.Before(floor) {
			return candidate, nil
		}
		candidate = candidate.AddDate(0, 0, 1)
	}
	return time.Time{}, apperr.ErrInsufficientSchedule
}

// matchesPattern is the raw recurrence test, before vacation and lifecycle
// checks are applied.
func matchesPattern(plan *domain.SubscriptionPlan, start, date time.Time) bool {
	switch plan.Frequency {
	case domain.FrequencyDaily:
		return true
	case domain.FrequencyAlternateDays:
		return domain.DaysBetween(start, date)%2 == 0
	case domain.FrequencyWeekly:
		return date.Weekday() == domain.DateOnly(start).Weekday()
	case domain.FrequencyCustom:
		return plan.DeliversOn(date.Weekday())
	default:
		return false
	}
}
