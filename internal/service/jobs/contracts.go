package jobs

import (
	"context"
	"time"

	"dairyfresh-fulfillment/internal/service/assignment"
	"dairyfresh-fulfillment/internal/service/generation"
)

// GeneratorPort abstracts the order generation batch for job handling.
type GeneratorPort interface {
	GenerateForDate(ctx context.Context, date time.Time) (generation.Summary, error)
}

// AssignerPort abstracts the route assignment engine for job handling.
type AssignerPort interface {
	AutoAssign(ctx context.Context, date time.Time, zoneID *int64) (assignment.Result, error)
}
