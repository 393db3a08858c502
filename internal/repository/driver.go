package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"dairyfresh-fulfillment/internal/apperr"
	"dairyfresh-fulfillment/internal/domain"
)

// DriverRepo represents driver repository.
type DriverRepo struct{ db *pgxpool.Pool }

// NewDriverRepo creates a new DriverRepo.
func NewDriverRepo(db *pgxpool.Pool) *DriverRepo { return &DriverRepo{db: db} }

// Get - returns driver by its ID.
func (r *DriverRepo) Get(ctx context.Context, id int64) (*domain.Driver, error) {
	var d domain.Driver
	err := r.db.QueryRow(ctx,
		`SELECT id, name, phone, zone_id, max_deliveries_per_day, is_active
         FROM drivers WHERE id=$1`, id,
	).Scan(&d.ID, &d.Name, &d.Phone, &d.ZoneID, &d.MaxDeliveriesPerDay, &d.IsActive)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get driver %d: %w", id, err)
	}
	return &d, nil
}

// List returns drivers ordered by id. If limit/offset are nil, returns the full list.
func (r *DriverRepo) List(ctx context.Context, limit, offset *int) ([]domain.Driver, error) {
	q := `SELECT id, name, phone, zone_id, max_deliveries_per_day, is_active
          FROM drivers ORDER BY id`
	args := make([]any, 0, 2)
	if limit != nil {
		q += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, *limit)
	}
	if offset != nil {
		q += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, *offset)
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	capacity := 0
	if limit != nil && *limit > 0 {
		capacity = *limit
	}
	out := make([]domain.Driver, 0, capacity)
	for rows.Next() {
		var d domain.Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.ZoneID,
			&d.MaxDeliveriesPerDay, &d.IsActive); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListActiveByZone returns the zone's active drivers ordered by id.
func (r *DriverRepo) ListActiveByZone(ctx context.Context, zoneID int64) ([]domain.Driver, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, phone, zone_id, max_deliveries_per_day, is_active
         FROM drivers WHERE zone_id=$1 AND is_active ORDER BY id`, zoneID)
	if err != nil {
		return nil, fmt.Errorf("list drivers of zone %d: %w", zoneID, err)
	}
	defer rows.Close()

	var out []domain.Driver
	for rows.Next() {
		var d domain.Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.ZoneID,
			&d.MaxDeliveriesPerDay, &d.IsActive); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Create - creates a new driver.
func (r *DriverRepo) Create(ctx context.Context, d *domain.Driver) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO drivers(name, phone, zone_id, max_deliveries_per_day, is_active)
         VALUES($1,$2,$3,$4,$5) RETURNING id`,
		d.Name, d.Phone, d.ZoneID, d.MaxDeliveriesPerDay, d.IsActive).Scan(&id)
	if err != nil {
		if IsDuplicate(err) {
			return 0, apperr.ErrConflict
		}
		return 0, fmt.Errorf("create driver: %w", err)
	}
	return id, nil
}

// UpdatePartial applies a partial update to a driver and returns true if a row was affected.
func (r *DriverRepo) UpdatePartial(ctx context.Context, u domain.PartialDriverUpdate) (bool, error) {
	ct, err := r.db.Exec(ctx, `
        UPDATE drivers
        SET
            name                   = COALESCE($2, name),
            phone                  = COALESCE($3, phone),
            zone_id                = COALESCE($4, zone_id),
            max_deliveries_per_day = COALESCE($5, max_deliveries_per_day),
            is_active              = COALESCE($6, is_active),
            updated_at             = now()
        WHERE id = $1
    `, u.ID, u.Name, u.Phone, u.ZoneID, u.MaxDeliveriesPerDay, u.IsActive)

	if err != nil {
		if IsDuplicate(err) {
			return false, apperr.ErrConflict
		}
		return false, fmt.Errorf("update driver %d: %w", u.ID, err)
	}
	return ct.RowsAffected() > 0, nil
}
