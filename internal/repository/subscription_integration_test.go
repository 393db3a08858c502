//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"dairyfresh-fulfillment/internal/domain"
	"dairyfresh-fulfillment/internal/repository"
)

type SubscriptionRepositorySuite struct {
	suite.Suite
	pool *pgxpool.Pool
	repo *repository.SubscriptionRepo
}

func (s *SubscriptionRepositorySuite) SetupSuite() {
	s.pool = tcPool
	s.repo = repository.NewSubscriptionRepo(tcPool)
}

func (s *SubscriptionRepositorySuite) SetupTest() {
	ctx := context.Background()
	_, err := s.pool.Exec(ctx, `TRUNCATE deliveries, order_items, orders, subscription_items, subscriptions, subscription_plans, drivers, zones RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)
}

func (s *SubscriptionRepositorySuite) createZone(name string) int64 {
	var id int64
	err := s.pool.QueryRow(context.Background(),
		`INSERT INTO zones(name) VALUES($1) RETURNING id`, name).Scan(&id)
	s.Require().NoError(err)
	return id
}

func (s *SubscriptionRepositorySuite) createPlan(freq string, days []int16, discount int) int64 {
	var id int64
	err := s.pool.QueryRow(context.Background(), `
		INSERT INTO subscription_plans(name, frequency, days_of_week, discount_percent)
		VALUES('Plan', $1, $2, $3) RETURNING id`, freq, days, discount).Scan(&id)
	s.Require().NoError(err)
	return id
}

func (s *SubscriptionRepositorySuite) createSubscription(zoneID int64, planID *int64, status string) int64 {
	var id int64
	err := s.pool.QueryRow(context.Background(), `
		INSERT INTO subscriptions(customer_id, plan_id, zone_id, status, start_date)
		VALUES(100, $1, $2, $3, '2025-05-01') RETURNING id`, planID, zoneID, status).Scan(&id)
	s.Require().NoError(err)
	return id
}

func (s *SubscriptionRepositorySuite) addItem(subID, productID int64, qty int, price int64, active bool) {
	_, err := s.pool.Exec(context.Background(), `
		INSERT INTO subscription_items(subscription_id, product_id, quantity, unit_price, is_active)
		VALUES($1, $2, $3, $4, $5)`, subID, productID, qty, price, active)
	s.Require().NoError(err)
}

func (s *SubscriptionRepositorySuite) TestGet_Missing() {
	got, err := s.repo.Get(context.Background(), 999999)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *SubscriptionRepositorySuite) TestGetDetail_LoadsPlanAndItems() {
	ctx := context.Background()
	zoneID := s.createZone("north")
	planID := s.createPlan("weekly", []int16{1, 3, 5}, 10)
	subID := s.createSubscription(zoneID, &planID, "active")
	s.addItem(subID, 1, 2, 500, true)
	s.addItem(subID, 2, 1, 300, false)

	detail, err := s.repo.GetDetail(ctx, subID)
	s.Require().NoError(err)
	s.Require().NotNil(detail)
	s.Equal(subID, detail.Subscription.ID)
	s.Require().NotNil(detail.Plan)
	s.Equal("weekly", string(detail.Plan.Frequency))
	s.Equal([]time.Weekday{time.Monday, time.Wednesday, time.Friday}, detail.Plan.DaysOfWeek)
	s.Len(detail.Items, 2)
	s.Len(detail.ActiveItems(), 1)
}

func (s *SubscriptionRepositorySuite) TestListActiveDetails_SkipsInactive() {
	ctx := context.Background()
	zoneID := s.createZone("north")
	active := s.createSubscription(zoneID, nil, "active")
	_ = s.createSubscription(zoneID, nil, "paused")
	_ = s.createSubscription(zoneID, nil, "cancelled")

	list, err := s.repo.ListActiveDetails(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(active, list[0].Subscription.ID)
}

func (s *SubscriptionRepositorySuite) TestUpdateStatus() {
	ctx := context.Background()
	zoneID := s.createZone("north")
	subID := s.createSubscription(zoneID, nil, "active")

	ok, err := s.repo.UpdateStatus(ctx, subID, domain.SubscriptionPaused)
	s.Require().NoError(err)
	s.True(ok)

	got, err := s.repo.Get(ctx, subID)
	s.Require().NoError(err)
	s.Equal(domain.SubscriptionPaused, got.Status)

	ok, err = s.repo.UpdateStatus(ctx, 999999, domain.SubscriptionPaused)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *SubscriptionRepositorySuite) TestVacationRoundTrip() {
	ctx := context.Background()
	zoneID := s.createZone("north")
	subID := s.createSubscription(zoneID, nil, "active")

	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

	ok, err := s.repo.SetVacation(ctx, subID, start, end)
	s.Require().NoError(err)
	s.True(ok)

	got, err := s.repo.Get(ctx, subID)
	s.Require().NoError(err)
	s.Require().NotNil(got.VacationStart)
	s.Require().NotNil(got.VacationEnd)
	s.True(got.OnVacation(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))

	ok, err = s.repo.ClearVacation(ctx, subID)
	s.Require().NoError(err)
	s.True(ok)

	got, err = s.repo.Get(ctx, subID)
	s.Require().NoError(err)
	s.Nil(got.VacationStart)
	s.Nil(got.VacationEnd)
}

func (s *SubscriptionRepositorySuite) TestUpdateNextDeliveryDate() {
	ctx := context.Background()
	zoneID := s.createZone("north")
	subID := s.createSubscription(zoneID, nil, "active")

	next := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.repo.UpdateNextDeliveryDate(ctx, subID, &next))

	got, err := s.repo.Get(ctx, subID)
	s.Require().NoError(err)
	s.Require().NotNil(got.NextDeliveryDate)
	s.Equal(next, got.NextDeliveryDate.UTC())

	s.Require().NoError(s.repo.UpdateNextDeliveryDate(ctx, subID, nil))

	got, err = s.repo.Get(ctx, subID)
	s.Require().NoError(err)
	s.Nil(got.NextDeliveryDate)
}

func TestSubscriptionRepositorySuite(t *testing.T) {
	suite.Run(t, new(SubscriptionRepositorySuite))
}
