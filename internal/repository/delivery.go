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

// DeliveryRepo represents delivery repository.
type DeliveryRepo struct {
	db *pgxpool.Pool
}

// NewDeliveryRepo creates a new DeliveryRepo.
func NewDeliveryRepo(db *pgxpool.Pool) *DeliveryRepo {
	return &DeliveryRepo{db: db}
}

func (r *DeliveryRepo) withTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
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

	if err := fn(tx); err != nil {
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

// WithStatusTx opens a transaction for one delivery status transition.
func (r *DeliveryRepo) WithStatusTx(ctx context.Context, fn func(tx fulfilltx.StatusTx) error) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return fn(&deliveryTx{tx: tx})
	})
}

// WithAssignmentTx opens a transaction for a route assignment run.
func (r *DeliveryRepo) WithAssignmentTx(ctx context.Context, fn func(tx fulfilltx.AssignmentTx) error) error {
	return r.withTx(ctx, func(tx pgx.Tx) error {
		return fn(&deliveryTx{tx: tx})
	})
}

const deliveryColumns = `
    id, order_id, zone_id, driver_id, status, scheduled_date, sequence,
    assigned_at, dispatched_at, delivered_at, proof_image, failure_reason`

func scanDelivery(row interface{ Scan(...any) error }) (*domain.Delivery, error) {
	var d domain.Delivery
	err := row.Scan(&d.ID, &d.OrderID, &d.ZoneID, &d.DriverID, &d.Status,
		&d.ScheduledDate, &d.Sequence, &d.AssignedAt, &d.DispatchedAt,
		&d.DeliveredAt, &d.ProofImage, &d.FailureReason)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Get - returns delivery by its ID, or nil when absent.
func (r *DeliveryRepo) Get(ctx context.Context, id int64) (*domain.Delivery, error) {
	row := r.db.QueryRow(ctx, `SELECT`+deliveryColumns+` FROM deliveries WHERE id=$1`, id)
	d, err := scanDelivery(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery %d: %w", id, err)
	}
	return d, nil
}

// DriverLoads returns every driver with its non-cancelled assignment count
// for the date.
func (r *DeliveryRepo) DriverLoads(ctx context.Context, date time.Time) ([]domain.DriverLoad, error) {
	rows, err := r.db.Query(ctx, `
        SELECT dr.id, dr.name, dr.phone, dr.zone_id, dr.max_deliveries_per_day, dr.is_active,
               COUNT(d.id) FILTER (WHERE d.status <> 'cancelled')
        FROM drivers dr
        LEFT JOIN deliveries d ON d.driver_id = dr.id AND d.scheduled_date = $1
        GROUP BY dr.id
        ORDER BY dr.id`, date)
	if err != nil {
		return nil, fmt.Errorf("driver loads for %s: %w", date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var out []domain.DriverLoad
	for rows.Next() {
		var l domain.DriverLoad
		if err := rows.Scan(&l.Driver.ID, &l.Driver.Name, &l.Driver.Phone, &l.Driver.ZoneID,
			&l.Driver.MaxDeliveriesPerDay, &l.Driver.IsActive, &l.Assigned); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// ZoneSummaries aggregates delivery statuses per zone for the date.
func (r *DeliveryRepo) ZoneSummaries(ctx context.Context, date time.Time) ([]domain.ZoneSummary, error) {
	rows, err := r.db.Query(ctx, `
        SELECT z.id, z.name,
               COUNT(d.id) FILTER (WHERE d.status = 'pending'),
               COUNT(d.id) FILTER (WHERE d.status = 'assigned'),
               COUNT(d.id) FILTER (WHERE d.status = 'out_for_delivery'),
               COUNT(d.id) FILTER (WHERE d.status = 'delivered'),
               COUNT(d.id) FILTER (WHERE d.status = 'failed')
        FROM zones z
        LEFT JOIN deliveries d ON d.zone_id = z.id AND d.scheduled_date = $1
        GROUP BY z.id
        ORDER BY z.id`, date)
	if err != nil {
		return nil, fmt.Errorf("zone summaries for %s: %w", date.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var out []domain.ZoneSummary
	for rows.Next() {
		var s domain.ZoneSummary
		if err := rows.Scan(&s.Zone.ID, &s.Zone.Name, &s.Pending, &s.Assigned,
			&s.OutForDelivery, &s.Delivered, &s.Failed); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpcomingCounts returns scheduled delivery counts per date in [from, to].
func (r *DeliveryRepo) UpcomingCounts(ctx context.Context, from, to time.Time) ([]domain.DateCount, error) {
	rows, err := r.db.Query(ctx, `
        SELECT scheduled_date, COUNT(*)
        FROM deliveries
        WHERE scheduled_date BETWEEN $1 AND $2 AND status <> 'cancelled'
        GROUP BY scheduled_date
        ORDER BY scheduled_date`, from, to)
	if err != nil {
		return nil, fmt.Errorf("upcoming counts: %w", err)
	}
	defer rows.Close()

	var out []domain.DateCount
	for rows.Next() {
		var c domain.DateCount
		if err := rows.Scan(&c.Date, &c.Deliveries); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// deliveryTx implements the status and assignment transaction contracts.
type deliveryTx struct {
	tx pgx.Tx
}

// GetDeliveryForUpdate locks and returns a delivery row. Concurrent
// transitions on the same delivery serialize here.
func (t *deliveryTx) GetDeliveryForUpdate(ctx context.Context, id int64) (*domain.Delivery, error) {
	row := t.tx.QueryRow(ctx,
		`SELECT`+deliveryColumns+` FROM deliveries WHERE id=$1 FOR UPDATE`, id)
	d, err := scanDelivery(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock delivery %d: %w", id, err)
	}
	return d, nil
}

// GetDelivery - returns delivery by its ID without locking.
func (t *deliveryTx) GetDelivery(ctx context.Context, id int64) (*domain.Delivery, error) {
	row := t.tx.QueryRow(ctx, `SELECT`+deliveryColumns+` FROM deliveries WHERE id=$1`, id)
	d, err := scanDelivery(row)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery %d: %w", id, err)
	}
	return d, nil
}

// UpdateDeliveryStatus writes the delivery's mutable fields conditionally on
// its status still being from. Returns false when the guard fails.
func (t *deliveryTx) UpdateDeliveryStatus(ctx context.Context, d *domain.Delivery, from domain.DeliveryStatus) (bool, error) {
	ct, err := t.tx.Exec(ctx, `
        UPDATE deliveries
        SET status=$3, driver_id=$4, sequence=$5, assigned_at=$6,
            dispatched_at=$7, delivered_at=$8, proof_image=$9, failure_reason=$10
        WHERE id=$1 AND status=$2`,
		d.ID, from, d.Status, d.DriverID, d.Sequence, d.AssignedAt,
		d.DispatchedAt, d.DeliveredAt, d.ProofImage, d.FailureReason)
	if err != nil {
		return false, fmt.Errorf("update delivery %d status: %w", d.ID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// GetDriver - returns driver by its ID, or nil when absent.
func (t *deliveryTx) GetDriver(ctx context.Context, id int64) (*domain.Driver, error) {
	var dr domain.Driver
	err := t.tx.QueryRow(ctx, `
        SELECT id, name, phone, zone_id, max_deliveries_per_day, is_active
        FROM drivers WHERE id=$1`, id,
	).Scan(&dr.ID, &dr.Name, &dr.Phone, &dr.ZoneID, &dr.MaxDeliveriesPerDay, &dr.IsActive)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get driver %d: %w", id, err)
	}
	return &dr, nil
}

// UpdateOrderStatus applies a cascade write to the parent order.
func (t *deliveryTx) UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus, deliveredAt *time.Time) error {
	ct, err := t.tx.Exec(ctx,
		`UPDATE orders SET status=$2, delivered_at=COALESCE($3, delivered_at) WHERE id=$1`,
		orderID, status, deliveredAt)
	if err != nil {
		return fmt.Errorf("cascade order %d to %s: %w", orderID, status, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("order %d not found", orderID)
	}
	return nil
}

// ListPendingForUpdate locks and returns unassigned pending deliveries for
// the date, optionally narrowed to one zone.
func (t *deliveryTx) ListPendingForUpdate(ctx context.Context, date time.Time, zoneID *int64) ([]domain.Delivery, error) {
	q := `SELECT` + deliveryColumns + `
        FROM deliveries
        WHERE status='pending' AND driver_id IS NULL AND scheduled_date=$1`
	args := []any{date}
	if zoneID != nil {
		q += ` AND zone_id=$2`
		args = append(args, *zoneID)
	}
	q += ` ORDER BY zone_id, id FOR UPDATE`

	rows, err := t.tx.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending deliveries: %w", err)
	}
	defer rows.Close()

	var out []domain.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// ListActiveDriversForUpdate locks and returns the zone's active drivers.
// The row locks serialize concurrent assignment runs over the same zone.
func (t *deliveryTx) ListActiveDriversForUpdate(ctx context.Context, zoneID int64) ([]domain.Driver, error) {
	rows, err := t.tx.Query(ctx, `
        SELECT id, name, phone, zone_id, max_deliveries_per_day, is_active
        FROM drivers
        WHERE zone_id=$1 AND is_active
        ORDER BY id
        FOR UPDATE`, zoneID)
	if err != nil {
		return nil, fmt.Errorf("lock drivers of zone %d: %w", zoneID, err)
	}
	defer rows.Close()

	var out []domain.Driver
	for rows.Next() {
		var dr domain.Driver
		if err := rows.Scan(&dr.ID, &dr.Name, &dr.Phone, &dr.ZoneID,
			&dr.MaxDeliveriesPerDay, &dr.IsActive); err != nil {
			return nil, err
		}
		out = append(out, dr)
	}
	return out, rows.Err()
}

// CountAssignments seeds the per-driver running counts with deliveries
// already on the drivers' routes for the date, any non-cancelled status.
func (t *deliveryTx) CountAssignments(ctx context.Context, driverIDs []int64, date time.Time) (map[int64]int, error) {
	counts := make(map[int64]int, len(driverIDs))
	for _, id := range driverIDs {
		counts[id] = 0
	}
	if len(driverIDs) == 0 {
		return counts, nil
	}

	rows, err := t.tx.Query(ctx, `
        SELECT driver_id, COUNT(*)
        FROM deliveries
        WHERE driver_id = ANY($1) AND scheduled_date=$2 AND status <> 'cancelled'
        GROUP BY driver_id`, driverIDs, date)
	if err != nil {
		return nil, fmt.Errorf("count assignments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id int64
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// AssignDriver moves a delivery to assigned with the given driver.
func (t *deliveryTx) AssignDriver(ctx context.Context, deliveryID, driverID int64, at time.Time) error {
	ct, err := t.tx.Exec(ctx, `
        UPDATE deliveries
        SET status='assigned', driver_id=$2, assigned_at=$3
        WHERE id=$1`, deliveryID, driverID, at)
	if err != nil {
		return fmt.Errorf("assign delivery %d: %w", deliveryID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("delivery %d not found", deliveryID)
	}
	return nil
}

// MaxSequence returns the driver's highest sequence number for the date, or
// zero when the route is empty.
func (t *deliveryTx) MaxSequence(ctx context.Context, driverID int64, date time.Time) (int, error) {
	var seq int
	err := t.tx.QueryRow(ctx, `
        SELECT COALESCE(MAX(sequence), 0)
        FROM deliveries
        WHERE driver_id=$1 AND scheduled_date=$2`, driverID, date).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("max sequence of driver %d: %w", driverID, err)
	}
	return seq, nil
}

// AssignWithSequence assigns a delivery to the driver at a route position.
func (t *deliveryTx) AssignWithSequence(ctx context.Context, deliveryID, driverID int64, seq int, at time.Time) error {
	ct, err := t.tx.Exec(ctx, `
        UPDATE deliveries
        SET status='assigned', driver_id=$2, sequence=$3, assigned_at=$4
        WHERE id=$1`, deliveryID, driverID, seq, at)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("assign delivery %d at position %d: %w", deliveryID, seq, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("delivery %d not found", deliveryID)
	}
	return nil
}

// ClearSequences nulls route positions ahead of a resequencing pass.
func (t *deliveryTx) ClearSequences(ctx context.Context, deliveryIDs []int64) error {
	if len(deliveryIDs) == 0 {
		return nil
	}
	_, err := t.tx.Exec(ctx,
		`UPDATE deliveries SET sequence=NULL WHERE id = ANY($1)`, deliveryIDs)
	if err != nil {
		return fmt.Errorf("clear sequences: %w", err)
	}
	return nil
}

// UpdateSequence overwrites a delivery's route position.
func (t *deliveryTx) UpdateSequence(ctx context.Context, deliveryID int64, seq int) error {
	ct, err := t.tx.Exec(ctx,
		`UPDATE deliveries SET sequence=$2 WHERE id=$1`, deliveryID, seq)
	if err != nil {
		if IsDuplicate(err) {
			return apperr.ErrConflict
		}
		return fmt.Errorf("resequence delivery %d: %w", deliveryID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("delivery %d not found", deliveryID)
	}
	return nil
}
