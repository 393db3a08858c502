package jobs

import (
	"context"
	"strings"
)

type actionFunc func(context.Context, Event) error

type actionFactory struct {
	byType map[string]actionFunc
}

func newActionFactory(onGenerate, onAssign actionFunc) *actionFactory {
	return &actionFactory{
		byType: map[string]actionFunc{
			TypeGenerateOrders: onGenerate,
			TypeAutoAssign:     onAssign,
		},
	}
}

func (f *actionFactory) get(jobType string) (actionFunc, bool) {
	jobType = strings.ToLower(strings.TrimSpace(jobType))
	fn, ok := f.byType[jobType]
	return fn, ok
}
