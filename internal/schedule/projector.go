// Package schedule builds read-only calendar projections on top of the
// recurrence engine.
package schedule

import (
	"time"

	"dairyfresh-fulfillment/internal/apperr"
	"dairyfresh-fulfillment/internal/domain"
	"dairyfresh-fulfillment/internal/recurrence"
)

// upcomingProbeLimit bounds the day-by-day walk of Upcoming. Hitting it is
// reported as apperr.ErrInsufficientSchedule together with whatever dates
// were collected, so callers can tell a short schedule from a full one.
const upcomingProbeLimit = 366

// Day is one calendar day of a month projection.
type Day struct {
	Date       time.Time `json:"date"`
	IsDelivery bool      `json:"is_delivery"`
	IsVacation bool      `json:"is_vacation"`
	IsToday    bool      `json:"is_today"`
}

// Month aggregates a subscription's delivery calendar for one month.
// VacationDays counts occurrences the plan would have delivered but the
// vacation hold suppressed, not plain days inside the hold.
type Month struct {
	Year            int        `json:"year"`
	Month           time.Month `json:"month"`
	TotalDeliveries int        `json:"total_deliveries"`
	VacationDays    int        `json:"vacation_days"`
	Days            []Day      `json:"days"`
}

// ForMonth projects the delivery calendar of one month by querying the
// recurrence engine for every day.
func ForMonth(sub *domain.Subscription, plan *domain.SubscriptionPlan, year int, month time.Month, today time.Time) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// unheld mirrors sub without the vacation hold, to detect suppressed
	// occurrences.
	unheld := *sub
	unheld.VacationStart, unheld.VacationEnd = nil, nil

	out := Month{Year: year, Month: month, Days: make([]Day, 0, daysInMonth)}
	for i := 0; i < daysInMonth; i++ {
		d := first.AddDate(0, 0, i)
		delivers := recurrence.IsDeliveryDate(sub, plan, d)
		suppressed := !delivers && sub.OnVacation(d) && recurrence.IsDeliveryDate(&unheld, plan, d)

		if delivers {
			out.TotalDeliveries++
		}
		if suppressed {
			out.VacationDays++
		}
		out.Days = append(out.Days, Day{
			Date:       d,
			IsDelivery: delivers,
			IsVacation: sub.OnVacation(d),
			IsToday:    domain.SameDay(d, today),
		})
	}
	return out
}

// Upcoming walks forward day-by-day from today collecting delivery dates
// until limit matches are found. When the probe ceiling is reached first,
// the short list is returned along with apperr.ErrInsufficientSchedule.
func Upcoming(sub *domain.Subscription, plan *domain.SubscriptionPlan, limit int, today time.Time) ([]time.Time, error) {
	if limit <= 0 {
		return nil, apperr.ErrInvalid
	}

	dates := make([]time.Time, 0, limit)
	day := domain.DateOnly(today)
	for probes := 0; probes < upcomingProbeLimit; probes++ {
		if recurrence.IsDeliveryDate(sub, plan, day) {
			dates = append(dates, day)
			if len(dates) == limit {
				return dates, nil
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return dates, apperr.ErrInsufficientSchedule
}
