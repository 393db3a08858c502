//go:generate mockgen -source=contracts.go -destination=drivers_mocks_test.go -package=drivers

package drivers

import (
	"context"

	"dairyfresh-fulfillment/internal/domain"
)

type driverRepo interface {
	Get(ctx context.Context, id int64) (*domain.Driver, error)
	List(ctx context.Context, limit, offset *int) ([]domain.Driver, error)
	ListActiveByZone(ctx context.Context, zoneID int64) ([]domain.Driver, error)
	Create(ctx context.Context, d *domain.Driver) (int64, error)
	UpdatePartial(ctx context.Context, u domain.PartialDriverUpdate) (bool, error)
}
