package handlers

import (
	"context"
	"time"

	"dairyfresh-fulfillment/internal/domain"
	"dairyfresh-fulfillment/internal/schedule"
	"dairyfresh-fulfillment/internal/service/assignment"
	"dairyfresh-fulfillment/internal/service/drivers"
	"dairyfresh-fulfillment/internal/service/generation"
	"dairyfresh-fulfillment/internal/service/status"
	"dairyfresh-fulfillment/internal/service/subscriptions"
)

type driverUsecase interface {
	Get(ctx context.Context, id int64) (*domain.Driver, error)
	List(ctx context.Context, limit, offset *int) ([]domain.Driver, error)
	ListActiveByZone(ctx context.Context, zoneID int64) ([]domain.Driver, error)
	Create(ctx context.Context, d *domain.Driver) (int64, error)
	Update(ctx context.Context, u domain.PartialDriverUpdate) error
}

// NewDriverUsecase wires a drivers.Service into a driverUsecase.
func NewDriverUsecase(svc *drivers.Service) driverUsecase { return svc }

type generationUsecase interface {
	GenerateForDate(ctx context.Context, date time.Time) (generation.Summary, error)
	PreviewForDate(ctx context.Context, date time.Time) ([]generation.OrderPreview, error)
}

// NewGenerationUsecase wires a generation.Service into a generationUsecase.
func NewGenerationUsecase(svc *generation.Service) generationUsecase { return svc }

type statusUsecase interface {
	Update(ctx context.Context, deliveryID int64, next domain.DeliveryStatus, data domain.TransitionData) (*domain.Delivery, error)
	AvailableStatuses(ctx context.Context, deliveryID int64) ([]domain.DeliveryStatus, error)
}

// NewStatusUsecase wires a status.Service into a statusUsecase.
func NewStatusUsecase(svc *status.Service) statusUsecase { return svc }

type assignmentUsecase interface {
	AutoAssign(ctx context.Context, date time.Time, zoneID *int64) (assignment.Result, error)
	AssignToDriver(ctx context.Context, deliveryID, driverID int64) (*domain.Delivery, error)
	AssignManyToDriver(ctx context.Context, driverID int64, deliveryIDs []int64) ([]domain.Delivery, error)
	UpdateSequences(ctx context.Context, driverID int64, date time.Time, updates []assignment.SequenceUpdate) error
	DriverLoads(ctx context.Context, date time.Time) ([]domain.DriverLoad, error)
	ZoneSummaries(ctx context.Context, date time.Time) ([]domain.ZoneSummary, error)
	Upcoming(ctx context.Context, from time.Time, days int) ([]domain.DateCount, error)
}

// NewAssignmentUsecase wires an assignment.Service into an assignmentUsecase.
func NewAssignmentUsecase(svc *assignment.Service) assignmentUsecase { return svc }

type subscriptionUsecase interface {
	Get(ctx context.Context, id int64) (*domain.Subscription, error)
	Detail(ctx context.Context, id int64) (*domain.SubscriptionDetail, error)
	Pause(ctx context.Context, id int64) error
	Resume(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64) error
	SetVacation(ctx context.Context, id int64, start, end time.Time) error
	ClearVacation(ctx context.Context, id int64) error
	MonthSchedule(ctx context.Context, id int64, year int, month time.Month) (schedule.Month, error)
	UpcomingDeliveries(ctx context.Context, id int64, limit int) ([]time.Time, error)
}

// NewSubscriptionUsecase wires a subscriptions.Service into a
// subscriptionUsecase.
func NewSubscriptionUsecase(svc *subscriptions.Service) subscriptionUsecase { return svc }
