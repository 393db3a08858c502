package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dairyfresh-fulfillment/internal/http/handlers"
	mw "dairyfresh-fulfillment/internal/http/middleware"
	"dairyfresh-fulfillment/internal/http/middleware/ratelimit"
	"dairyfresh-fulfillment/internal/logx"
)

// New constructs a chi-based http.Handler with base middleware and routes.
// The rate limiter guards only the batch triggers; regular CRUD traffic is
// cheap enough to leave unthrottled.
func New(
	logger logx.Logger,
	rl *ratelimit.Middleware,
	base *handlers.Handlers,
	drv *handlers.DriverHandler,
	ful *handlers.FulfillmentHandler,
	del *handlers.DeliveryHandler,
	sub *handlers.SubscriptionHandler,
	rep *handlers.ReportsHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(mw.Observability(logger))

	r.Get("/ping", base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(base.HealthcheckHead))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.NotFound(http.HandlerFunc(base.NotFound))

	r.Route("/drivers", func(r chi.Router) {
		r.Get("/", drv.List)
		r.Post("/", drv.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", drv.GetByID)
			r.Patch("/", drv.Update)
			r.Put("/route", del.Resequence)
			r.Post("/assignments", del.AssignBulk)
		})
	})

	r.Route("/deliveries", func(r chi.Router) {
		r.With(rl.Handler()).Post("/auto-assign", del.AutoAssign)
		r.Route("/{id}", func(r chi.Router) {
			r.Post("/status", del.UpdateStatus)
			r.Get("/transitions", del.AvailableStatuses)
			r.Post("/assign", del.Assign)
		})
	})

	r.Route("/orders", func(r chi.Router) {
		r.With(rl.Handler()).Post("/generate", ful.Generate)
		r.Get("/generate/preview", ful.Preview)
	})

	r.Route("/subscriptions/{id}", func(r chi.Router) {
		r.Get("/", sub.GetByID)
		r.Post("/pause", sub.Pause)
		r.Post("/resume", sub.Resume)
		r.Post("/cancel", sub.Cancel)
		r.Put("/vacation", sub.SetVacation)
		r.Delete("/vacation", sub.ClearVacation)
		r.Get("/schedule", sub.MonthSchedule)
		r.Get("/upcoming", sub.Upcoming)
	})

	r.Route("/reports", func(r chi.Router) {
		r.Get("/driver-loads", rep.DriverLoads)
		r.Get("/zones", rep.ZoneSummaries)
		r.Get("/upcoming", rep.Upcoming)
	})

	return r
}
