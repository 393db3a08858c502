package subscriptions

import (
	"context"
	"time"

	"dairyfresh-fulfillment/internal/domain"
)

type subscriptionRepo interface {
	Get(ctx context.Context, id int64) (*domain.Subscription, error)
	GetDetail(ctx context.Context, id int64) (*domain.SubscriptionDetail, error)
	UpdateStatus(ctx context.Context, id int64, status domain.SubscriptionStatus) (bool, error)
	UpdateNextDeliveryDate(ctx context.Context, id int64, next *time.Time) error
	SetVacation(ctx context.Context, id int64, start, end time.Time) (bool, error)
	ClearVacation(ctx context.Context, id int64) (bool, error)
}
