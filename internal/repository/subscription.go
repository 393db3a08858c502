package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"dairyfresh-fulfillment/internal/domain"
)

// SubscriptionRepo represents subscription repository.
type SubscriptionRepo struct{ db *pgxpool.Pool }

// NewSubscriptionRepo creates a new SubscriptionRepo.
func NewSubscriptionRepo(db *pgxpool.Pool) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

const subscriptionColumns = `
    s.id, s.customer_id, s.plan_id, s.zone_id, s.status,
    s.start_date, s.end_date, s.next_delivery_date, s.vacation_start, s.vacation_end`

func scanSubscription(row interface{ Scan(...any) error }) (*domain.Subscription, error) {
	var s domain.Subscription
	err := row.Scan(&s.ID, &s.CustomerID, &s.PlanID, &s.ZoneID, &s.Status,
		&s.StartDate, &s.EndDate, &s.NextDeliveryDate, &s.VacationStart, &s.VacationEnd)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Get - returns subscription by its ID, or nil when absent.
func (r *SubscriptionRepo) Get(ctx context.Context, id int64) (*domain.Subscription, error) {
	row := r.db.QueryRow(ctx,
		`SELECT`+subscriptionColumns+` FROM subscriptions s WHERE s.id=$1`, id)
	s, err := scanSubscription(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subscription %d: %w", id, err)
	}
	return s, nil
}

// GetDetail loads a subscription together with its plan and items.
func (r *SubscriptionRepo) GetDetail(ctx context.Context, id int64) (*domain.SubscriptionDetail, error) {
	sub, err := r.Get(ctx, id)
	if err != nil || sub == nil {
		return nil, err
	}

	detail := domain.SubscriptionDetail{Subscription: *sub}

	if sub.PlanID != nil {
		plan, err := r.getPlan(ctx, *sub.PlanID)
		if err != nil {
			return nil, err
		}
		detail.Plan = plan
	}

	items, err := r.listItems(ctx, sub.ID)
	if err != nil {
		return nil, err
	}
	detail.Items = items
	return &detail, nil
}

// ListActiveDetails returns every active subscription with plan and items
// loaded, in id order. Used by the order generation batch.
func (r *SubscriptionRepo) ListActiveDetails(ctx context.Context) ([]domain.SubscriptionDetail, error) {
	rows, err := r.db.Query(ctx,
		`SELECT`+subscriptionColumns+` FROM subscriptions s WHERE s.status=$1 ORDER BY s.id`,
		domain.SubscriptionActive)
	if err != nil {
		return nil, fmt.Errorf("list active subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.SubscriptionDetail, 0, len(subs))
	for _, s := range subs {
		d := domain.SubscriptionDetail{Subscription: s}
		if s.PlanID != nil {
			plan, err := r.getPlan(ctx, *s.PlanID)
			if err != nil {
				return nil, err
			}
			d.Plan = plan
		}
		items, err := r.listItems(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		d.Items = items
		out = append(out, d)
	}
	return out, nil
}

func (r *SubscriptionRepo) getPlan(ctx context.Context, id int64) (*domain.SubscriptionPlan, error) {
	var (
		p    domain.SubscriptionPlan
		days []int16
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, name, frequency, days_of_week, discount_percent
         FROM subscription_plans WHERE id=$1`, id,
	).Scan(&p.ID, &p.Name, &p.Frequency, &days, &p.DiscountPercent)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get plan %d: %w", id, err)
	}
	p.DaysOfWeek = make([]time.Weekday, 0, len(days))
	for _, d := range days {
		p.DaysOfWeek = append(p.DaysOfWeek, time.Weekday(d))
	}
	return &p, nil
}

func (r *SubscriptionRepo) listItems(ctx context.Context, subscriptionID int64) ([]domain.SubscriptionItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, product_id, quantity, unit_price, is_active
         FROM subscription_items WHERE subscription_id=$1 ORDER BY id`, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("list items of subscription %d: %w", subscriptionID, err)
	}
	defer rows.Close()

	var items []domain.SubscriptionItem
	for rows.Next() {
		var it domain.SubscriptionItem
		if err := rows.Scan(&it.ID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.IsActive); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// UpdateStatus moves a subscription to status and returns true if a row was
// affected.
func (r *SubscriptionRepo) UpdateStatus(ctx context.Context, id int64, status domain.SubscriptionStatus) (bool, error) {
	ct, err := r.db.Exec(ctx,
		`UPDATE subscriptions SET status=$2, updated_at=now() WHERE id=$1`, id, status)
	if err != nil {
		return false, fmt.Errorf("update subscription %d status: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// UpdateNextDeliveryDate rewrites the cached next delivery date. A nil next
// clears it.
func (r *SubscriptionRepo) UpdateNextDeliveryDate(ctx context.Context, id int64, next *time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE subscriptions SET next_delivery_date=$2, updated_at=now() WHERE id=$1`, id, next)
	if err != nil {
		return fmt.Errorf("update subscription %d next delivery date: %w", id, err)
	}
	return nil
}

// SetVacation stores a vacation hold and returns true if a row was affected.
func (r *SubscriptionRepo) SetVacation(ctx context.Context, id int64, start, end time.Time) (bool, error) {
	ct, err := r.db.Exec(ctx,
		`UPDATE subscriptions SET vacation_start=$2, vacation_end=$3, updated_at=now() WHERE id=$1`,
		id, start, end)
	if err != nil {
		return false, fmt.Errorf("set vacation of subscription %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}

// ClearVacation removes the vacation hold and returns true if a row was
// affected.
func (r *SubscriptionRepo) ClearVacation(ctx context.Context, id int64) (bool, error) {
	ct, err := r.db.Exec(ctx,
		`UPDATE subscriptions SET vacation_start=NULL, vacation_end=NULL, updated_at=now() WHERE id=$1`, id)
	if err != nil {
		return false, fmt.Errorf("clear vacation of subscription %d: %w", id, err)
	}
	return ct.RowsAffected() > 0, nil
}
