package status

import (
	"context"

	"dairyfresh-fulfillment/internal/domain"
	"dairyfresh-fulfillment/internal/ports/fulfilltx"
)

type deliveryStore interface {
	WithStatusTx(ctx context.Context, fn func(tx fulfilltx.StatusTx) error) error
	Get(ctx context.Context, id int64) (*domain.Delivery, error)
}

type counter interface {
	Inc()
}
