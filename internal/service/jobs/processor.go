// Package jobs dispatches asynchronous fulfillment jobs to the generation
// batch and the assignment engine.
package jobs

import (
	"context"

	"dairyfresh-fulfillment/internal/logx"
)

// Processor processes fulfillment job events.
type Processor struct {
	generator GeneratorPort
	assigner  AssignerPort
	logger    logx.Logger
	factory   *actionFactory
}

// NewProcessor creates a new jobs.Processor
func NewProcessor(generator GeneratorPort, assigner AssignerPort, logger logx.Logger) *Processor {
	p := &Processor{
		generator: generator,
		assigner:  assigner,
		logger:    logger,
	}
	p.factory = newActionFactory(p.onGenerate, p.onAssign)
	return p
}

// Handle processes a single jobs.Event. Unknown job types are dropped.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	if p.factory == nil {
		return nil
	}
	fn, ok := p.factory.get(e.Type)
	if !ok {
		p.logger.Warn("unknown job type dropped", logx.String("type", e.Type))
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onGenerate(ctx context.Context, e Event) error {
	sum, err := p.generator.GenerateForDate(ctx, e.Date)
	if err != nil {
		return err
	}
	p.logger.Info("generation job done",
		logx.Date("date", e.Date),
		logx.Int("succeeded", sum.Succeeded),
		logx.Int("skipped", sum.Skipped),
		logx.Int("failed", sum.Failed),
	)
	return nil
}

func (p *Processor) onAssign(ctx context.Context, e Event) error {
	res, err := p.assigner.AutoAssign(ctx, e.Date, e.ZoneID)
	if err != nil {
		return err
	}
	p.logger.Info("assignment job done",
		logx.Date("date", e.Date),
		logx.Int("assigned", res.Assigned),
		logx.Int("unassigned", res.Unassigned),
	)
	return nil
}
