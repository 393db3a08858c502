// Package subscriptions manages the subscription lifecycle and exposes
// schedule projections.
package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dairyfresh-fulfillment/internal/apperr"
	"dairyfresh-fulfillment/internal/domain"
	"dairyfresh-fulfillment/internal/logx"
	"dairyfresh-fulfillment/internal/recurrence"
	"dairyfresh-fulfillment/internal/schedule"
)

const opTimeout = 5 * time.Second

// Service - the subscription lifecycle service.
type Service struct {
	repo   subscriptionRepo
	logger logx.Logger
	now    func() time.Time
}

// NewService creates a subscriptions Service.
func NewService(repo subscriptionRepo, logger logx.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Get returns a subscription by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Subscription, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	sub, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("subscription %d: %w", id, apperr.ErrNotFound)
	}
	return sub, nil
}

// Detail returns a subscription with its plan and items.
func (s *Service) Detail(ctx context.Context, id int64) (*domain.SubscriptionDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.detail(ctx, id)
}

func (s *Service) detail(ctx context.Context, id int64) (*domain.SubscriptionDetail, error) {
	d, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("subscription %d: %w", id, apperr.ErrNotFound)
	}
	return d, nil
}

// Pause suspends order generation for an active subscription.
func (s *Service) Pause(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	sub, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if sub.Status != domain.SubscriptionActive {
		return fmt.Errorf("subscription %d is %s: %w", id, sub.Status, apperr.ErrInvalid)
	}

	if _, err := s.repo.UpdateStatus(ctx, id, domain.SubscriptionPaused); err != nil {
		return err
	}
	// The cached next date is meaningless while paused.
	if err := s.repo.UpdateNextDeliveryDate(ctx, id, nil); err != nil {
		return err
	}
	s.logger.Info("subscription paused", logx.Int64("subscription_id", id))
	return nil
}

// Resume reactivates a paused subscription and recomputes its next delivery
// date.
func (s *Service) Resume(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	d, err := s.detail(ctx, id)
	if err != nil {
		return err
	}
	if d.Subscription.Status != domain.SubscriptionPaused {
		return fmt.Errorf("subscription %d is %s: %w", id, d.Subscription.Status, apperr.ErrInvalid)
	}

	if _, err := s.repo.UpdateStatus(ctx, id, domain.SubscriptionActive); err != nil {
		return err
	}
	d.Subscription.Status = domain.SubscriptionActive
	if err := s.recomputeNextDate(ctx, d); err != nil {
		return err
	}
	s.logger.Info("subscription resumed", logx.Int64("subscription_id", id))
	return nil
}

// Cancel terminally stops a subscription. Already generated orders are not
// touched.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	sub, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	switch sub.Status {
	case domain.SubscriptionActive, domain.SubscriptionPaused:
	default:
		return fmt.Errorf("subscription %d is %s: %w", id, sub.Status, apperr.ErrInvalid)
	}

	if _, err := s.repo.UpdateStatus(ctx, id, domain.SubscriptionCancelled); err != nil {
		return err
	}
	if err := s.repo.UpdateNextDeliveryDate(ctx, id, nil); err != nil {
		return err
	}
	s.logger.Info("subscription cancelled", logx.Int64("subscription_id", id))
	return nil
}

// SetVacation places a vacation hold on the subscription. Deliveries inside
// the hold are dropped, not rescheduled.
func (s *Service) SetVacation(ctx context.Context, id int64, start, end time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	start, end = domain.DateOnly(start), domain.DateOnly(end)
	if end.Before(start) {
		return fmt.Errorf("vacation ends before it starts: %w", apperr.ErrInvalid)
	}

	d, err := s.detail(ctx, id)
	if err != nil {
		return err
	}
	switch d.Subscription.Status {
	case domain.SubscriptionActive, domain.SubscriptionPaused:
	default:
		return fmt.Errorf("subscription %d is %s: %w", id, d.Subscription.Status, apperr.ErrInvalid)
	}

	if _, err := s.repo.SetVacation(ctx, id, start, end); err != nil {
		return err
	}
	d.Subscription.VacationStart, d.Subscription.VacationEnd = &start, &end
	if err := s.recomputeNextDate(ctx, d); err != nil {
		return err
	}
	s.logger.Info("vacation hold set",
		logx.Int64("subscription_id", id),
		logx.Date("start", start),
		logx.Date("end", end),
	)
	return nil
}

// ClearVacation removes the vacation hold.
func (s *Service) ClearVacation(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	d, err := s.detail(ctx, id)
	if err != nil {
		return err
	}

	if _, err := s.repo.ClearVacation(ctx, id); err != nil {
		return err
	}
	d.Subscription.VacationStart, d.Subscription.VacationEnd = nil, nil
	if err := s.recomputeNextDate(ctx, d); err != nil {
		return err
	}
	s.logger.Info("vacation hold cleared", logx.Int64("subscription_id", id))
	return nil
}

// recomputeNextDate rewrites the cached next delivery date from the
// recurrence engine. Seeding the probe at yesterday lets today qualify.
func (s *Service) recomputeNextDate(ctx context.Context, d *domain.SubscriptionDetail) error {
	if d.Subscription.Status != domain.SubscriptionActive {
		return s.repo.UpdateNextDeliveryDate(ctx, d.Subscription.ID, nil)
	}

	today := domain.DateOnly(s.now())
	next, err := recurrence.NextDeliveryDate(&d.Subscription, d.Plan, today.AddDate(0, 0, -1), today)
	switch {
	case err == nil:
		return s.repo.UpdateNextDeliveryDate(ctx, d.Subscription.ID, &next)
	case errors.Is(err, apperr.ErrInsufficientSchedule):
		return s.repo.UpdateNextDeliveryDate(ctx, d.Subscription.ID, nil)
	default:
		return err
	}
}

// MonthSchedule projects the subscription's delivery calendar for a month.
func (s *Service) MonthSchedule(ctx context.Context, id int64, year int, month time.Month) (schedule.Month, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if year < 1 || month < time.January || month > time.December {
		return schedule.Month{}, fmt.Errorf("bad year/month %d/%d: %w", year, month, apperr.ErrInvalid)
	}
	d, err := s.detail(ctx, id)
	if err != nil {
		return schedule.Month{}, err
	}
	return schedule.ForMonth(&d.Subscription, d.Plan, year, month, domain.DateOnly(s.now())), nil
}

// UpcomingDeliveries returns the subscription's next delivery dates, up to
// limit. A short list together with apperr.ErrInsufficientSchedule means the
// schedule genuinely runs out.
func (s *Service) UpcomingDeliveries(ctx context.Context, id int64, limit int) ([]time.Time, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	d, err := s.detail(ctx, id)
	if err != nil {
		return nil, err
	}
	return schedule.Upcoming(&d.Subscription, d.Plan, limit, domain.DateOnly(s.now()))
}
