package domain

import "time"

// PlanFrequency represents the recurrence rule of a subscription plan.
type PlanFrequency string

// List of possible plan frequencies
const (
	FrequencyDaily         PlanFrequency = "daily"
	FrequencyAlternateDays PlanFrequency = "alternate_days"
	FrequencyWeekly        PlanFrequency = "weekly"
	FrequencyCustom        PlanFrequency = "custom"
)

var allowedFrequencies = [...]PlanFrequency{
	FrequencyDaily, FrequencyAlternateDays, FrequencyWeekly, FrequencyCustom,
}

// Valid checks if the PlanFrequency is valid
func (f PlanFrequency) Valid() bool {
	for _, v := range allowedFrequencies {
		if f == v {
			return true
		}
	}
	return false
}

// SubscriptionPlan is immutable reference data describing how often a
// subscription delivers and what discount it earns.
type SubscriptionPlan struct {
	ID              int64
	Name            string
	Frequency       PlanFrequency
	DaysOfWeek      []time.Weekday // used only when Frequency is custom
	DiscountPercent int            // 0..100
}

// DeliversOn reports whether weekday belongs to the plan's custom day set.
func (p *SubscriptionPlan) DeliversOn(weekday time.Weekday) bool {
	for _, d := range p.DaysOfWeek {
		if d == weekday {
			return true
		}
	}
	return false
}
