// Package generation materializes due subscriptions into orders and
// deliveries, once per subscription per calendar date.
package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dairyfresh-fulfillment/internal/apperr"
	"dairyfresh-fulfillment/internal/domain"
	"dairyfresh-fulfillment/internal/logx"
	"dairyfresh-fulfillment/internal/ports/fulfilltx"
	"dairyfresh-fulfillment/internal/recurrence"
)

// errDuplicateOrder signals that the subscription already has an order for
// the target date. The batch treats it as a skip, not a failure.
var errDuplicateOrder = errors.New("order already generated for date")

// Summary is the aggregate outcome of one batch run. One subscription's
// failure never aborts the run; it lands in Errors keyed by subscription id.
type Summary struct {
	Processed int              `json:"processed"`
	Succeeded int              `json:"succeeded"`
	Skipped   int              `json:"skipped"`
	Failed    int              `json:"failed"`
	Errors    map[int64]string `json:"errors,omitempty"`
}

// OrderPreview is the dry-run projection of one would-be order.
type OrderPreview struct {
	SubscriptionID int64 `json:"subscription_id"`
	Items          int   `json:"items"`
	Subtotal       int64 `json:"subtotal"`
	Discount       int64 `json:"discount"`
	Total          int64 `json:"total"`
}

// Service - the order generation batch.
type Service struct {
	subs      subscriptionSource
	orders    orderStore
	catalog   catalog
	logger    logx.Logger
	generated counter
	failures  counter
	now       func() time.Time
}

// NewService creates a generation Service.
func NewService(subs subscriptionSource, orders orderStore, cat catalog, logger logx.Logger, generated, failures counter) *Service {
	return &Service{
		subs:      subs,
		orders:    orders,
		catalog:   cat,
		logger:    logger,
		generated: generated,
		failures:  failures,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// GenerateForDate materializes an order and a pending delivery for every
// subscription due on date, each in its own atomic unit. Re-running for the
// same date is idempotent: already generated subscriptions are skipped.
// Cancellation is honored between units and reported with the partial
// summary.
func (s *Service) GenerateForDate(ctx context.Context, date time.Time) (Summary, error) {
	day := domain.DateOnly(date)
	today := domain.DateOnly(s.now())

	details, err := s.subs.ListActiveDetails(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load subscriptions: %w", err)
	}

	sum := Summary{Errors: make(map[int64]string)}
	for i := range details {
		d := &details[i]
		if !recurrence.IsDeliveryDate(&d.Subscription, d.Plan, day) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		sum.Processed++
		err := s.generateOne(ctx, d, day, today)
		switch {
		case err == nil:
			sum.Succeeded++
			if s.generated != nil {
				s.generated.Inc()
			}
		case errors.Is(err, errDuplicateOrder) || errors.Is(err, apperr.ErrConflict):
			sum.Skipped++
		default:
			sum.Failed++
			sum.Errors[d.Subscription.ID] = err.Error()
			if s.failures != nil {
				s.failures.Inc()
			}
			s.logger.Warn("order generation failed",
				logx.Int64("subscription_id", d.Subscription.ID),
				logx.Date("date", day),
				logx.Err(err),
			)
		}
	}

	s.logger.Info("order generation finished",
		logx.Date("date", day),
		logx.Int("processed", sum.Processed),
		logx.Int("succeeded", sum.Succeeded),
		logx.Int("skipped", sum.Skipped),
		logx.Int("failed", sum.Failed),
	)
	return sum, nil
}

// PreviewForDate computes the batch selection and totals without writing
// anything.
func (s *Service) PreviewForDate(ctx context.Context, date time.Time) ([]OrderPreview, error) {
	day := domain.DateOnly(date)

	details, err := s.subs.ListActiveDetails(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}

	out := make([]OrderPreview, 0, len(details))
	for i := range details {
		d := &details[i]
		if !recurrence.IsDeliveryDate(&d.Subscription, d.Plan, day) {
			continue
		}
		items := d.ActiveItems()
		if len(items) == 0 {
			continue
		}
		subtotal := int64(0)
		for _, it := range items {
			subtotal += it.UnitPrice * int64(it.Quantity)
		}
		discount := planDiscount(d.Plan, subtotal)
		out = append(out, OrderPreview{
			SubscriptionID: d.Subscription.ID,
			Items:          len(items),
			Subtotal:       subtotal,
			Discount:       discount,
			Total:          subtotal - discount,
		})
	}
	return out, nil
}

// generateOne runs one subscription's atomic unit: order + item snapshot +
// pending delivery + schedule advancement.
func (s *Service) generateOne(ctx context.Context, d *domain.SubscriptionDetail, day, today time.Time) error {
	sub := &d.Subscription

	items := d.ActiveItems()
	if len(items) == 0 {
		return errors.New("no active items")
	}

	// Catalog lookups happen before the transaction opens so a slow catalog
	// never holds row locks.
	lines, subtotal, err := s.snapshotLines(ctx, items)
	if err != nil {
		return err
	}
	discount := planDiscount(d.Plan, subtotal)

	return s.orders.WithGenerationTx(ctx, func(tx fulfilltx.GenerationTx) error {
		exists, err := tx.OrderExistsForDate(ctx, sub.ID, day)
		if err != nil {
			return err
		}
		if exists {
			return errDuplicateOrder
		}

		order := &domain.Order{
			Number:         uuid.NewString(),
			CustomerID:     sub.CustomerID,
			SubscriptionID: &sub.ID,
			Type:           domain.OrderTypeSubscription,
			// Subscription orders auto-confirm, unlike checkout orders.
			Status:       domain.OrderConfirmed,
			Subtotal:     subtotal,
			Discount:     discount,
			Total:        subtotal - discount,
			DeliveryDate: day,
		}
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}
		if err := tx.InsertOrderItems(ctx, order.ID, lines); err != nil {
			return err
		}

		delivery := &domain.Delivery{
			OrderID:       order.ID,
			ZoneID:        sub.ZoneID,
			Status:        domain.DeliveryPending,
			ScheduledDate: day,
		}
		if err := tx.InsertDelivery(ctx, delivery); err != nil {
			return err
		}

		next, err := recurrence.NextDeliveryDate(sub, d.Plan, day, today)
		var nextPtr *time.Time
		switch {
		case err == nil:
			nextPtr = &next
		case errors.Is(err, apperr.ErrInsufficientSchedule):
			// No future delivery date exists (end date reached or empty
			// custom day set); the cached date is cleared.
			nextPtr = nil
		default:
			return err
		}
		return tx.UpdateNextDeliveryDate(ctx, sub.ID, nextPtr)
	})
}

// snapshotLines freezes product name/sku for every active item at
// generation time. Later price or catalog changes never touch generated
// orders.
func (s *Service) snapshotLines(ctx context.Context, items []domain.SubscriptionItem) ([]domain.OrderItem, int64, error) {
	lines := make([]domain.OrderItem, 0, len(items))
	subtotal := int64(0)
	for _, it := range items {
		p, err := s.catalog.Product(ctx, it.ProductID)
		if err != nil {
			return nil, 0, fmt.Errorf("lookup product %d: %w", it.ProductID, err)
		}
		if p == nil {
			return nil, 0, fmt.Errorf("product %d not in catalog", it.ProductID)
		}
		line := domain.OrderItem{
			ProductID:   it.ProductID,
			ProductName: p.Name,
			ProductSKU:  p.SKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.UnitPrice * int64(it.Quantity),
		}
		subtotal += line.LineTotal
		lines = append(lines, line)
	}
	return lines, subtotal, nil
}

func planDiscount(plan *domain.SubscriptionPlan, subtotal int64) int64 {
	if plan == nil || plan.DiscountPercent <= 0 {
		return 0
	}
	return subtotal * int64(plan.DiscountPercent) / 100
}
