// Package fulfilltx defines the transactional repository contracts consumed
// by the fulfillment services. Keeping them here lets the repository package
// implement them without importing the services.
package fulfilltx

import (
	"context"
	"time"

	"dairyfresh-fulfillment/internal/domain"
)

// GenerationTx is the atomic unit of work for one subscription during order
// generation: order + items + delivery + schedule advancement, all or
// nothing.
type GenerationTx interface {
	OrderExistsForDate(ctx context.Context, subscriptionID int64, date time.Time) (bool, error)
	InsertOrder(ctx context.Context, o *domain.Order) error
	InsertOrderItems(ctx context.Context, orderID int64, items []domain.OrderItem) error
	InsertDelivery(ctx context.Context, d *domain.Delivery) error
	UpdateNextDeliveryDate(ctx context.Context, subscriptionID int64, next *time.Time) error
}

// StatusTx is the unit of work for one delivery status transition plus its
// cascade into the owning order.
type StatusTx interface {
	GetDeliveryForUpdate(ctx context.Context, id int64) (*domain.Delivery, error)
	// UpdateDeliveryStatus writes the delivery conditionally on its status
	// still being from. It returns false when a concurrent transition won.
	UpdateDeliveryStatus(ctx context.Context, d *domain.Delivery, from domain.DeliveryStatus) (bool, error)
	GetDriver(ctx context.Context, id int64) (*domain.Driver, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status domain.OrderStatus, deliveredAt *time.Time) error
}

// AssignmentTx is the unit of work for route assignment. Driver rows are
// locked for the duration, serializing concurrent assignment runs per zone.
type AssignmentTx interface {
	ListPendingForUpdate(ctx context.Context, date time.Time, zoneID *int64) ([]domain.Delivery, error)
	ListActiveDriversForUpdate(ctx context.Context, zoneID int64) ([]domain.Driver, error)
	CountAssignments(ctx context.Context, driverIDs []int64, date time.Time) (map[int64]int, error)
	AssignDriver(ctx context.Context, deliveryID, driverID int64, at time.Time) error
	GetDelivery(ctx context.Context, id int64) (*domain.Delivery, error)
	GetDriver(ctx context.Context, id int64) (*domain.Driver, error)
	MaxSequence(ctx context.Context, driverID int64, date time.Time) (int, error)
	AssignWithSequence(ctx context.Context, deliveryID, driverID int64, seq int, at time.Time) error
	// ClearSequences nulls the route positions of the given deliveries so a
	// resequencing pass can rewrite them without tripping the partial unique
	// index mid-flight.
	ClearSequences(ctx context.Context, deliveryIDs []int64) error
	UpdateSequence(ctx context.Context, deliveryID int64, seq int) error
}
