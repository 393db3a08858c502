package app

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"dairyfresh-fulfillment/internal/metrics"
)

type metricsOut struct {
	dig.Out

	OrdersGeneratedTotal         prometheus.Counter `name:"orders_generated_total"`
	OrderGenerationFailuresTotal prometheus.Counter `name:"order_generation_failures_total"`
	DeliveriesAssignedTotal      prometheus.Counter `name:"deliveries_assigned_total"`
	InvalidTransitionsTotal      prometheus.Counter `name:"invalid_transitions_total"`
	RateLimitExceededTotal       prometheus.Counter `name:"rate_limit_exceeded_total"`
	GatewayRetriesTotal          prometheus.Counter `name:"gateway_retries_total"`
}

func provideMetrics() (metricsOut, error) {
	var out metricsOut
	var err error

	if out.OrdersGeneratedTotal, err = registerCounter("orders_generated_total", metrics.NewOrdersGeneratedTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.OrderGenerationFailuresTotal, err = registerCounter("order_generation_failures_total", metrics.NewOrderGenerationFailuresTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.DeliveriesAssignedTotal, err = registerCounter("deliveries_assigned_total", metrics.NewDeliveriesAssignedTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.InvalidTransitionsTotal, err = registerCounter("invalid_transitions_total", metrics.NewInvalidTransitionsTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.RateLimitExceededTotal, err = registerCounter("rate_limit_exceeded_total", metrics.NewRateLimitExceededTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.GatewayRetriesTotal, err = registerCounter("gateway_retries_total", metrics.NewGatewayRetriesTotal()); err != nil {
		return metricsOut{}, err
	}
	return out, nil
}

// registerCounter registers c in the default registry. A counter that is
// already registered (tests rebuild the container) is reused instead.
func registerCounter(name string, c prometheus.Counter) (prometheus.Counter, error) {
	if err := prometheus.DefaultRegisterer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	return c, nil
}
