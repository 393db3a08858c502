package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeliveryStatus_TransitionTableClosure(t *testing.T) {
	t.Parallel()

	allowed := map[DeliveryStatus]map[DeliveryStatus]bool{
		DeliveryPending:        {DeliveryAssigned: true, DeliveryCancelled: true},
		DeliveryAssigned:       {DeliveryOutForDelivery: true, DeliveryPending: true, DeliveryCancelled: true},
		DeliveryOutForDelivery: {DeliveryDelivered: true, DeliveryFailed: true},
		DeliveryDelivered:      {},
		DeliveryFailed:         {DeliveryPending: true, DeliveryAssigned: true},
		DeliveryCancelled:      {},
	}

	for _, from := range allowedDeliveryStatuses {
		for _, to := range allowedDeliveryStatuses {
			want := allowed[from][to]
			require.Equal(t, want, from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestDeliveryStatus_DeliveredIsTerminal(t *testing.T) {
	t.Parallel()

	require.True(t, DeliveryDelivered.Terminal())
	require.True(t, DeliveryCancelled.Terminal())
	require.False(t, DeliveryDelivered.CanTransitionTo(DeliveryPending))
	require.Empty(t, DeliveryDelivered.NextStatuses())
}

func TestDeliveryStatus_NextStatusesIsCopy(t *testing.T) {
	t.Parallel()

	got := DeliveryPending.NextStatuses()
	require.ElementsMatch(t, []DeliveryStatus{DeliveryAssigned, DeliveryCancelled}, got)

	got[0] = DeliveryDelivered
	require.ElementsMatch(t, []DeliveryStatus{DeliveryAssigned, DeliveryCancelled},
		DeliveryPending.NextStatuses())
}

func TestStatuses_Valid(t *testing.T) {
	t.Parallel()

	require.True(t, DeliveryAssigned.Valid())
	require.False(t, DeliveryStatus("teleported").Valid())
	require.True(t, OrderConfirmed.Valid())
	require.False(t, OrderStatus("lost").Valid())
	require.True(t, SubscriptionPaused.Valid())
	require.False(t, SubscriptionStatus("dormant").Valid())
	require.True(t, FrequencyAlternateDays.Valid())
	require.False(t, PlanFrequency("fortnightly").Valid())
}
