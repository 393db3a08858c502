// Package assignment distributes pending deliveries across zone drivers and
// maintains route sequences.
package assignment

import (
	"context"
	"fmt"
	"time"

	"dairyfresh-fulfillment/internal/apperr"
	"dairyfresh-fulfillment/internal/domain"
	"dairyfresh-fulfillment/internal/logx"
	"dairyfresh-fulfillment/internal/ports/fulfilltx"
)

const opTimeout = 30 * time.Second

// Result is the outcome of one auto-assignment run. Unassigned deliveries
// stay pending for a later run or manual assignment.
type Result struct {
	Assigned   int `json:"assigned"`
	Unassigned int `json:"unassigned"`
}

// SequenceUpdate is one delivery's new position in a driver's route.
type SequenceUpdate struct {
	DeliveryID int64 `json:"delivery_id"`
	Sequence   int   `json:"sequence"`
}

// Service - the route assignment engine.
type Service struct {
	store    deliveryStore
	logger   logx.Logger
	assigned counter
	now      func() time.Time
}

// NewService creates an assignment Service.
func NewService(store deliveryStore, logger logx.Logger, assigned counter) *Service {
	return &Service{
		store:    store,
		logger:   logger,
		assigned: assigned,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Intended for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// AutoAssign distributes the date's unassigned pending deliveries across the
// active drivers of their zones, least-loaded driver first, never exceeding
// a driver's daily capacity. Zones without active drivers are skipped and
// their deliveries stay pending. Driver rows are locked for the run, so
// concurrent runs over the same zone serialize instead of double-booking.
func (s *Service) AutoAssign(ctx context.Context, date time.Time, zoneID *int64) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	day := domain.DateOnly(date)

	var res Result
	err := s.store.WithAssignmentTx(ctx, func(tx fulfilltx.AssignmentTx) error {
		pending, err := tx.ListPendingForUpdate(ctx, day, zoneID)
		if err != nil {
			return err
		}

		for _, zone := range zoneOrder(pending) {
			n, skipped, err := s.assignZone(ctx, tx, zone.id, zone.deliveries, day)
			if err != nil {
				return err
			}
			res.Assigned += n
			res.Unassigned += skipped
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("auto assignment finished",
		logx.Date("date", day),
		logx.Int("assigned", res.Assigned),
		logx.Int("unassigned", res.Unassigned),
	)
	return res, nil
}

type zoneGroup struct {
	id         int64
	deliveries []domain.Delivery
}

// zoneOrder groups deliveries by zone preserving the repository's
// (zone_id, id) ordering.
func zoneOrder(pending []domain.Delivery) []zoneGroup {
	var out []zoneGroup
	for _, d := range pending {
		if n := len(out); n > 0 && out[n-1].id == d.ZoneID {
			out[n-1].deliveries = append(out[n-1].deliveries, d)
			continue
		}
		out = append(out, zoneGroup{id: d.ZoneID, deliveries: []domain.Delivery{d}})
	}
	return out
}

func (s *Service) assignZone(ctx context.Context, tx fulfilltx.AssignmentTx, zoneID int64, deliveries []domain.Delivery, day time.Time) (assigned, skipped int, err error) {
	drivers, err := tx.ListActiveDriversForUpdate(ctx, zoneID)
	if err != nil {
		return 0, 0, err
	}
	if len(drivers) == 0 {
		s.logger.Warn("zone has no active drivers",
			logx.Int64("zone_id", zoneID),
			logx.Int("pending", len(deliveries)),
		)
		return 0, len(deliveries), nil
	}

	ids := make([]int64, len(drivers))
	for i, d := range drivers {
		ids[i] = d.ID
	}
	counts, err := tx.CountAssignments(ctx, ids, day)
	if err != nil {
		return 0, 0, err
	}

	at := s.now()
	for _, d := range deliveries {
		drv := pickDriver(drivers, counts)
		if drv == nil {
			skipped++
			continue
		}
		if err := tx.AssignDriver(ctx, d.ID, drv.ID, at); err != nil {
			return assigned, skipped, err
		}
		counts[drv.ID]++
		assigned++
		if s.assigned != nil {
			s.assigned.Inc()
		}
	}
	return assigned, skipped, nil
}

// pickDriver returns the driver with the fewest assignments that still has
// capacity. Ties keep the earliest driver in the (id ordered) list.
func pickDriver(drivers []domain.Driver, counts map[int64]int) *domain.Driver {
	var best *domain.Driver
	for i := range drivers {
		d := &drivers[i]
		if counts[d.ID] >= d.Capacity() {
			continue
		}
		if best == nil || counts[d.ID] < counts[best.ID] {
			best = d
		}
	}
	return best
}

// AssignToDriver manually puts a delivery on a driver's route, appending it
// after the driver's current last stop. Only pending and assigned deliveries
// can be (re)assigned.
func (s *Service) AssignToDriver(ctx context.Context, deliveryID, driverID int64) (*domain.Delivery, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var updated *domain.Delivery
	err := s.store.WithAssignmentTx(ctx, func(tx fulfilltx.AssignmentTx) error {
		d, err := tx.GetDelivery(ctx, deliveryID)
		if err != nil {
			return err
		}
		if d == nil {
			return fmt.Errorf("delivery %d: %w", deliveryID, apperr.ErrNotFound)
		}
		if d.Status != domain.DeliveryPending && d.Status != domain.DeliveryAssigned {
			return fmt.Errorf("delivery %d is %s: %w", d.ID, d.Status, apperr.ErrInvalidTransition)
		}

		drv, err := tx.GetDriver(ctx, driverID)
		if err != nil {
			return err
		}
		if drv == nil {
			return fmt.Errorf("driver %d: %w", driverID, apperr.ErrNotFound)
		}
		if !drv.IsActive {
			return fmt.Errorf("driver %d is inactive: %w", driverID, apperr.ErrInvalid)
		}

		counts, err := tx.CountAssignments(ctx, []int64{driverID}, d.ScheduledDate)
		if err != nil {
			return err
		}
		if counts[driverID] >= drv.Capacity() {
			return fmt.Errorf("driver %d is at capacity for %s: %w",
				driverID, d.ScheduledDate.Format("2006-01-02"), apperr.ErrInvalid)
		}

		maxSeq, err := tx.MaxSequence(ctx, driverID, d.ScheduledDate)
		if err != nil {
			return err
		}
		seq := maxSeq + 1
		at := s.now()
		if err := tx.AssignWithSequence(ctx, deliveryID, driverID, seq, at); err != nil {
			return err
		}

		d.Status = domain.DeliveryAssigned
		d.DriverID = &driverID
		d.Sequence = &seq
		d.AssignedAt = &at
		updated = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.assigned != nil {
		s.assigned.Inc()
	}
	s.logger.Info("delivery assigned",
		logx.Int64("delivery_id", updated.ID),
		logx.Int64("driver_id", driverID),
		logx.Int("sequence", *updated.Sequence),
	)
	return updated, nil
}

// AssignManyToDriver puts a batch of deliveries on a driver's route as one
// unit, appending them after the driver's current last stop in the order
// supplied. All deliveries must share one scheduled date and be pending or
// already assigned. Either every delivery lands on the route or none does.
func (s *Service) AssignManyToDriver(ctx context.Context, driverID int64, deliveryIDs []int64) ([]domain.Delivery, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if len(deliveryIDs) == 0 {
		return nil, fmt.Errorf("empty delivery list: %w", apperr.ErrInvalid)
	}
	seen := make(map[int64]struct{}, len(deliveryIDs))
	for _, id := range deliveryIDs {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("delivery %d listed twice: %w", id, apperr.ErrInvalid)
		}
		seen[id] = struct{}{}
	}

	var updated []domain.Delivery
	err := s.store.WithAssignmentTx(ctx, func(tx fulfilltx.AssignmentTx) error {
		drv, err := tx.GetDriver(ctx, driverID)
		if err != nil {
			return err
		}
		if drv == nil {
			return fmt.Errorf("driver %d: %w", driverID, apperr.ErrNotFound)
		}
		if !drv.IsActive {
			return fmt.Errorf("driver %d is inactive: %w", driverID, apperr.ErrInvalid)
		}

		batch := make([]*domain.Delivery, 0, len(deliveryIDs))
		newLoad := 0
		for _, id := range deliveryIDs {
			d, err := tx.GetDelivery(ctx, id)
			if err != nil {
				return err
			}
			if d == nil {
				return fmt.Errorf("delivery %d: %w", id, apperr.ErrNotFound)
			}
			if d.Status != domain.DeliveryPending && d.Status != domain.DeliveryAssigned {
				return fmt.Errorf("delivery %d is %s: %w", d.ID, d.Status, apperr.ErrInvalidTransition)
			}
			if len(batch) > 0 && !domain.SameDay(d.ScheduledDate, batch[0].ScheduledDate) {
				return fmt.Errorf("delivery %d is scheduled for %s, batch is for %s: %w",
					d.ID, d.ScheduledDate.Format("2006-01-02"),
					batch[0].ScheduledDate.Format("2006-01-02"), apperr.ErrInvalid)
			}
			// a delivery already on this driver's route keeps its slot
			if d.DriverID == nil || *d.DriverID != driverID {
				newLoad++
			}
			batch = append(batch, d)
		}
		day := batch[0].ScheduledDate

		counts, err := tx.CountAssignments(ctx, []int64{driverID}, day)
		if err != nil {
			return err
		}
		if counts[driverID]+newLoad > drv.Capacity() {
			return fmt.Errorf("driver %d cannot take %d more deliveries on %s: %w",
				driverID, newLoad, day.Format("2006-01-02"), apperr.ErrInvalid)
		}

		maxSeq, err := tx.MaxSequence(ctx, driverID, day)
		if err != nil {
			return err
		}

		at := s.now()
		for i, d := range batch {
			seq := maxSeq + 1 + i
			if err := tx.AssignWithSequence(ctx, d.ID, driverID, seq, at); err != nil {
				return err
			}
			d.Status = domain.DeliveryAssigned
			d.DriverID = &driverID
			d.Sequence = &seq
			d.AssignedAt = &at
			updated = append(updated, *d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.assigned != nil {
		for range updated {
			s.assigned.Inc()
		}
	}
	s.logger.Info("route batch assigned",
		logx.Int64("driver_id", driverID),
		logx.Int("deliveries", len(updated)),
	)
	return updated, nil
}

// UpdateSequences rewrites route positions for a driver's date from a
// drag-and-drop reorder. Positions are cleared first so the rewrite cannot
// collide with the positions being replaced.
func (s *Service) UpdateSequences(ctx context.Context, driverID int64, date time.Time, updates []SequenceUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if len(updates) == 0 {
		return fmt.Errorf("empty sequence update: %w", apperr.ErrInvalid)
	}
	day := domain.DateOnly(date)

	seen := make(map[int]int64, len(updates))
	for _, u := range updates {
		if u.Sequence < 1 {
			return fmt.Errorf("sequence %d for delivery %d: %w", u.Sequence, u.DeliveryID, apperr.ErrInvalid)
		}
		if other, dup := seen[u.Sequence]; dup {
			return fmt.Errorf("sequence %d claimed by deliveries %d and %d: %w",
				u.Sequence, other, u.DeliveryID, apperr.ErrInvalid)
		}
		seen[u.Sequence] = u.DeliveryID
	}

	return s.store.WithAssignmentTx(ctx, func(tx fulfilltx.AssignmentTx) error {
		ids := make([]int64, 0, len(updates))
		for _, u := range updates {
			d, err := tx.GetDelivery(ctx, u.DeliveryID)
			if err != nil {
				return err
			}
			if d == nil {
				return fmt.Errorf("delivery %d: %w", u.DeliveryID, apperr.ErrNotFound)
			}
			if d.DriverID == nil || *d.DriverID != driverID || !domain.SameDay(d.ScheduledDate, day) {
				return fmt.Errorf("delivery %d is not on driver %d route for %s: %w",
					u.DeliveryID, driverID, day.Format("2006-01-02"), apperr.ErrInvalid)
			}
			ids = append(ids, u.DeliveryID)
		}

		if err := tx.ClearSequences(ctx, ids); err != nil {
			return err
		}
		for _, u := range updates {
			if err := tx.UpdateSequence(ctx, u.DeliveryID, u.Sequence); err != nil {
				return err
			}
		}
		return nil
	})
}

// DriverLoads returns per-driver assignment counts for the date.
func (s *Service) DriverLoads(ctx context.Context, date time.Time) ([]domain.DriverLoad, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.store.DriverLoads(ctx, domain.DateOnly(date))
}

// ZoneSummaries returns per-zone status breakdowns for the date.
func (s *Service) ZoneSummaries(ctx context.Context, date time.Time) ([]domain.ZoneSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.store.ZoneSummaries(ctx, domain.DateOnly(date))
}

// Upcoming returns scheduled delivery counts for the next days starting at
// from, inclusive.
func (s *Service) Upcoming(ctx context.Context, from time.Time, days int) ([]domain.DateCount, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if days < 1 {
		return nil, fmt.Errorf("days must be positive: %w", apperr.ErrInvalid)
	}
	start := domain.DateOnly(from)
	return s.store.UpcomingCounts(ctx, start, start.AddDate(0, 0, days-1))
}
