package kafka_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dairyfresh-fulfillment/internal/service/jobs"
	"dairyfresh-fulfillment/internal/transport/kafka"
)

func TestToDomain_TrimsAndParsesDate(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 6, 9, 23, 50, 0, 0, time.UTC)
	zone := int64(3)

	got, err := kafka.ToDomain(kafka.JobDTO{
		Type:        "  auto_assign  ",
		Date:        " 2025-06-10 ",
		ZoneID:      &zone,
		RequestedAt: ts,
	})
	require.NoError(t, err)
	require.Equal(t, jobs.Event{
		Type:        "auto_assign",
		Date:        time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		ZoneID:      &zone,
		RequestedAt: ts,
	}, got)
}

func TestToDomain_RejectsBadDate(t *testing.T) {
	t.Parallel()

	_, err := kafka.ToDomain(kafka.JobDTO{Type: "generate_orders", Date: "06/10/2025"})
	require.Error(t, err)

	_, err = kafka.ToDomain(kafka.JobDTO{Type: "generate_orders"})
	require.Error(t, err)
}
