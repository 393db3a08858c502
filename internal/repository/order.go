package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dairyfresh-fulfillment/internal/apperr"
	"dairyfresh-fulfillment/internal/domain"
	"dairyfresh-fulfillment/internal/ports/fulfilltx"
)

// OrderRepo represents order repository.
type OrderRepo struct{ db *pgxpool.Pool }

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(db *pgxpool.Pool) *OrderRepo { return &OrderRepo{db: db} }

// WithGenerationTx opens a transaction and executes fn within it. This is
// the atomic-unit boundary of the order generation batch: one subscription's
// order, items, delivery and schedule advancement either all commit or all
// roll back.
func (r *OrderRepo) WithGenerationTx(ctx context.Context, fn func(tx fulfilltx.GenerationTx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			err = tx.Rollback(ctx)
			if err != nil {
				panic(err)
			}
			panic(p)
		}
	}()

	if err := fn(&generationTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback tx: %w (original error: %s)", rbErr, err.Error())
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Get - returns order by its ID, or nil when absent.
func (r *OrderRepo) Get(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.db.QueryRow(ctx, `
        SELECT id, number, customer_id, subscription_id, type, status,
               subtotal, discount, total, delivery_date, delivered_at, created_at
        FROM orders WHERE id=$1`, id,
	).Scan(&o.ID, &o.Number, &o.CustomerID, &o.SubscriptionID, &o.Type, &o.Status,
		&o.Subtotal, &o.Discount, &o.Total, &o.DeliveryDate, &o.DeliveredAt, &o.CreatedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return &o, nil
}

// generationTx implements fulfilltx.GenerationTx on a pgx transaction.
type generationTx struct {
	tx pgx.Tx
}

// OrderExistsForDate reports whether a subscription order already exists for
// the date. Backs the idempotency contract of the generation batch; the
// unique index on (subscription_id, delivery_date) closes the remaining
// read-then-write window.
func (t *generationTx) OrderExistsForDate(ctx context.Context, subscriptionID int64, date time.Time) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `
        SELECT EXISTS(
            SELECT 1 FROM orders WHERE subscription_id=$1 AND delivery_date=$2
        )`, subscriptionID, date).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check order existence for subscription %d: %w", subscriptionID, err)
	}
	return exists, nil
}

// InsertOrder - insert a new order.
func (t *generationTx) InsertOrder(ctx context.Context, o *domain.Order) error {
	err := t.tx.QueryRow(ctx, `
        INSERT INTO orders (number, customer_id, subscription_id, type, status,
                            subtotal, discount, total, delivery_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at`,
		o.Number, o.CustomerID, o.SubscriptionID, o.Type, o.Status,
		o.Subtotal, o.Discount, o.Total, o.DeliveryDate,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// InsertOrderItems - insert the order's line item snapshot.
func (t *generationTx) InsertOrderItems(ctx context.Context, orderID int64, items []domain.OrderItem) error {
	for i := range items {
		it := &items[i]
		err := t.tx.QueryRow(ctx, `
            INSERT INTO order_items (order_id, product_id, product_name, product_sku,
                                     quantity, unit_price, line_total)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            RETURNING id`,
			orderID, it.ProductID, it.ProductName, it.ProductSKU,
			it.Quantity, it.UnitPrice, it.LineTotal,
		).Scan(&it.ID)
		if err != nil {
			return fmt.Errorf("insert order item (product %d): %w", it.ProductID, err)
		}
		it.OrderID = orderID
	}
	return nil
}

// InsertDelivery - insert the paired delivery for a generated order.
func (t *generationTx) InsertDelivery(ctx context.Context, d *domain.Delivery) error {
	err := t.tx.QueryRow(ctx, `
        INSERT INTO deliveries (order_id, zone_id, status, scheduled_date)
        VALUES ($1, $2, $3, $4)
        RETURNING id`,
		d.OrderID, d.ZoneID, d.Status, d.ScheduledDate,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("insert delivery for order %d: %w", d.OrderID, err)
	}
	return nil
}

// UpdateNextDeliveryDate advances the subscription schedule inside the unit.
func (t *generationTx) UpdateNextDeliveryDate(ctx context.Context, subscriptionID int64, next *time.Time) error {
	ct, err := t.tx.Exec(ctx,
		`UPDATE subscriptions SET next_delivery_date=$2, updated_at=now() WHERE id=$1`,
		subscriptionID, next)
	if err != nil {
		return fmt.Errorf("advance subscription %d: %w", subscriptionID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("subscription %d not found", subscriptionID)
	}
	return nil
}
