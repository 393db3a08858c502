// Package status drives the delivery status state machine and its cascade
// into the owning order.
package status

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dairyfresh-fulfillment/internal/apperr"
	"dairyfresh-fulfillment/internal/domain"
	"dairyfresh-fulfillment/internal/logx"
	"dairyfresh-fulfillment/internal/ports/fulfilltx"
)

const opTimeout = 5 * time.Second

// Service applies delivery status transitions.
type Service struct {
	store   deliveryStore
	logger  logx.Logger
	invalid counter
	now     func() time.Time
}

// NewService creates a status Service.
func NewService(store deliveryStore, logger logx.Logger, invalid counter) *Service {
	return &Service{
		store:   store,
		logger:  logger,
		invalid: invalid,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// Update transitions a delivery to next and returns the updated delivery.
// The transition is validated against the state machine, applied under a row
// lock, and written conditionally on the status the service read. A guard
// failure surfaces as a conflict the caller may retry.
func (s *Service) Update(ctx context.Context, deliveryID int64, next domain.DeliveryStatus, data domain.TransitionData) (*domain.Delivery, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if !next.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", next, apperr.ErrInvalid)
	}

	var updated *domain.Delivery
	err := s.store.WithStatusTx(ctx, func(tx fulfilltx.StatusTx) error {
		d, err := tx.GetDeliveryForUpdate(ctx, deliveryID)
		if err != nil {
			return err
		}
		if d == nil {
			return fmt.Errorf("delivery %d: %w", deliveryID, apperr.ErrNotFound)
		}

		from := d.Status
		if !from.CanTransitionTo(next) {
			if s.invalid != nil {
				s.invalid.Inc()
			}
			return fmt.Errorf("%s to %s: %w", from, next, apperr.ErrInvalidTransition)
		}

		if err := s.apply(ctx, tx, d, next, data); err != nil {
			return err
		}
		d.Status = next

		ok, err := tx.UpdateDeliveryStatus(ctx, d, from)
		if err != nil {
			return err
		}
		if !ok {
			// A concurrent transition won between our read and write.
			return fmt.Errorf("delivery %d moved away from %s: %w", d.ID, from, apperr.ErrConflict)
		}

		if err := s.cascade(ctx, tx, d, next); err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery status updated",
		logx.Int64("delivery_id", updated.ID),
		logx.String("status", string(updated.Status)),
	)
	return updated, nil
}

// apply writes the per-status side effects onto d before persisting.
func (s *Service) apply(ctx context.Context, tx fulfilltx.StatusTx, d *domain.Delivery, next domain.DeliveryStatus, data domain.TransitionData) error {
	now := s.now()

	switch next {
	case domain.DeliveryAssigned:
		if data.DriverID != nil {
			drv, err := tx.GetDriver(ctx, *data.DriverID)
			if err != nil {
				return err
			}
			if drv == nil {
				return fmt.Errorf("driver %d: %w", *data.DriverID, apperr.ErrNotFound)
			}
			if !drv.IsActive {
				return fmt.Errorf("driver %d is inactive: %w", drv.ID, apperr.ErrInvalid)
			}
			d.DriverID = data.DriverID
		}
		if d.DriverID == nil {
			return fmt.Errorf("driver required for assignment: %w", apperr.ErrInvalid)
		}
		d.AssignedAt = &now

	case domain.DeliveryPending:
		// Back to the unassigned pool; the route slot is released.
		d.DriverID = nil
		d.Sequence = nil
		d.AssignedAt = nil

	case domain.DeliveryOutForDelivery:
		d.DispatchedAt = &now

	case domain.DeliveryDelivered:
		d.DeliveredAt = &now
		if data.ProofImage != nil {
			d.ProofImage = data.ProofImage
		}

	case domain.DeliveryFailed:
		if data.Reason == nil || *data.Reason == "" {
			return fmt.Errorf("failure reason required: %w", apperr.ErrInvalid)
		}
		d.FailureReason = data.Reason

	case domain.DeliveryCancelled:
	}
	return nil
}

// cascade mirrors dispatch and completion onto the parent order. Other
// delivery statuses leave the order untouched.
func (s *Service) cascade(ctx context.Context, tx fulfilltx.StatusTx, d *domain.Delivery, next domain.DeliveryStatus) error {
	switch next {
	case domain.DeliveryOutForDelivery:
		return tx.UpdateOrderStatus(ctx, d.OrderID, domain.OrderOutForDelivery, nil)
	case domain.DeliveryDelivered:
		return tx.UpdateOrderStatus(ctx, d.OrderID, domain.OrderDelivered, d.DeliveredAt)
	}
	return nil
}

// AvailableStatuses returns the legal next statuses of a delivery. Terminal
// deliveries return an empty list.
func (s *Service) AvailableStatuses(ctx context.Context, deliveryID int64) ([]domain.DeliveryStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	d, err := s.store.Get(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("delivery %d: %w", deliveryID, apperr.ErrNotFound)
	}
	return d.Status.NextStatuses(), nil
}

// IsRetryable reports whether err is the transient concurrency conflict
// produced when a competing transition wins.
func IsRetryable(err error) bool {
	return errors.Is(err, apperr.ErrConflict)
}
