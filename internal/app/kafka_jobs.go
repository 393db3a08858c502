package app

import (
	"context"

	"dairyfresh-fulfillment/internal/service/jobs"
	"dairyfresh-fulfillment/internal/transport/kafka"
)

func makeJobsKafka(p *jobs.Processor) kafka.HandleFunc {
	return func(ctx context.Context, event jobs.Event) error {
		return p.Handle(ctx, event)
	}
}
