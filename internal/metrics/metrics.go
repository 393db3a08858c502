package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewOrdersGeneratedTotal returns a Prometheus counter for subscription orders created by the generation batch
func NewOrdersGeneratedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_generated_total",
		Help: "Total number of subscription orders created by the generation batch",
	})
}

// NewOrderGenerationFailuresTotal returns a Prometheus counter for per-subscription generation failures
func NewOrderGenerationFailuresTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_generation_failures_total",
		Help: "Total number of per-subscription failures inside the generation batch",
	})
}

// NewDeliveriesAssignedTotal returns a Prometheus counter for deliveries assigned to drivers
func NewDeliveriesAssignedTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "deliveries_assigned_total",
		Help: "Total number of deliveries assigned to drivers",
	})
}

// NewInvalidTransitionsTotal returns a Prometheus counter for rejected delivery status transitions
func NewInvalidTransitionsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "delivery_invalid_transitions_total",
		Help: "Total number of delivery status transitions rejected by the state machine",
	})
}

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of retry attempts performed by gateways
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Total number of retry attempts performed by gateways",
	})
}
