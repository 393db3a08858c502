package assignment

import (
	"context"
	"time"

	"dairyfresh-fulfillment/internal/domain"
	"dairyfresh-fulfillment/internal/ports/fulfilltx"
)

type deliveryStore interface {
	WithAssignmentTx(ctx context.Context, fn func(tx fulfilltx.AssignmentTx) error) error
	DriverLoads(ctx context.Context, date time.Time) ([]domain.DriverLoad, error)
	ZoneSummaries(ctx context.Context, date time.Time) ([]domain.ZoneSummary, error)
	UpcomingCounts(ctx context.Context, from, to time.Time) ([]domain.DateCount, error)
}

type counter interface {
	Inc()
}
