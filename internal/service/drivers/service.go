// Package drivers manages the driver roster.
package drivers

import (
	"context"
	"fmt"
	"time"

	"dairyfresh-fulfillment/internal/apperr"
	"dairyfresh-fulfillment/internal/domain"
	"dairyfresh-fulfillment/internal/logx"
)

const opTimeout = 5 * time.Second

// Service - the driver roster service.
type Service struct {
	repo   driverRepo
	logger logx.Logger
}

// NewService creates a drivers Service.
func NewService(repo driverRepo, logger logx.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get returns a driver by id.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Driver, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("driver %d: %w", id, apperr.ErrNotFound)
	}
	return d, nil
}

// List returns drivers with optional pagination.
func (s *Service) List(ctx context.Context, limit, offset *int) ([]domain.Driver, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if limit != nil && *limit < 0 {
		return nil, fmt.Errorf("negative limit: %w", apperr.ErrInvalid)
	}
	if offset != nil && *offset < 0 {
		return nil, fmt.Errorf("negative offset: %w", apperr.ErrInvalid)
	}
	return s.repo.List(ctx, limit, offset)
}

// ListActiveByZone returns a zone's active drivers.
func (s *Service) ListActiveByZone(ctx context.Context, zoneID int64) ([]domain.Driver, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.repo.ListActiveByZone(ctx, zoneID)
}

// Create validates and stores a new driver, returning its id.
func (s *Service) Create(ctx context.Context, d *domain.Driver) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := validateDriver(d); err != nil {
		return 0, err
	}
	if d.MaxDeliveriesPerDay == 0 {
		d.MaxDeliveriesPerDay = domain.DefaultMaxDeliveriesPerDay
	}

	id, err := s.repo.Create(ctx, d)
	if err != nil {
		return 0, err
	}
	s.logger.Info("driver created", logx.Int64("driver_id", id), logx.Int64("zone_id", d.ZoneID))
	return id, nil
}

// Update applies a partial update to a driver.
func (s *Service) Update(ctx context.Context, u domain.PartialDriverUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if u.Name != nil && *u.Name == "" {
		return fmt.Errorf("empty name: %w", apperr.ErrInvalid)
	}
	if u.Phone != nil && !domain.ValidatePhone(*u.Phone) {
		return fmt.Errorf("bad phone %q: %w", *u.Phone, apperr.ErrInvalid)
	}
	if u.ZoneID != nil && *u.ZoneID <= 0 {
		return fmt.Errorf("zone id must be positive: %w", apperr.ErrInvalid)
	}
	if u.MaxDeliveriesPerDay != nil && *u.MaxDeliveriesPerDay < 1 {
		return fmt.Errorf("max deliveries per day must be positive: %w", apperr.ErrInvalid)
	}

	ok, err := s.repo.UpdatePartial(ctx, u)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("driver %d: %w", u.ID, apperr.ErrNotFound)
	}
	return nil
}

func validateDriver(d *domain.Driver) error {
	if d.Name == "" {
		return fmt.Errorf("empty name: %w", apperr.ErrInvalid)
	}
	if !domain.ValidatePhone(d.Phone) {
		return fmt.Errorf("bad phone %q: %w", d.Phone, apperr.ErrInvalid)
	}
	if d.ZoneID <= 0 {
		return fmt.Errorf("zone id must be positive: %w", apperr.ErrInvalid)
	}
	if d.MaxDeliveriesPerDay < 0 {
		return fmt.Errorf("negative capacity: %w", apperr.ErrInvalid)
	}
	return nil
}
