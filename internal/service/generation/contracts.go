package generation

import (
	"context"

	"dairyfresh-fulfillment/internal/domain"
	"dairyfresh-fulfillment/internal/gateway/products"
	"dairyfresh-fulfillment/internal/ports/fulfilltx"
)

type subscriptionSource interface {
	ListActiveDetails(ctx context.Context) ([]domain.SubscriptionDetail, error)
}

type orderStore interface {
	WithGenerationTx(ctx context.Context, fn func(tx fulfilltx.GenerationTx) error) error
}

type catalog interface {
	Product(ctx context.Context, id int64) (*products.Product, error)
}

type counter interface {
	Inc()
}
