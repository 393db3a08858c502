package domain

import "time"

// DeliveryStatus represents the status of a delivery.
type DeliveryStatus string

// List of possible delivery statuses
const (
	DeliveryPending        DeliveryStatus = "pending"
	DeliveryAssigned       DeliveryStatus = "assigned"
	DeliveryOutForDelivery DeliveryStatus = "out_for_delivery"
	DeliveryDelivered      DeliveryStatus = "delivered"
	DeliveryFailed         DeliveryStatus = "failed"
	DeliveryCancelled      DeliveryStatus = "cancelled"
)

var allowedDeliveryStatuses = [...]DeliveryStatus{
	DeliveryPending, DeliveryAssigned, DeliveryOutForDelivery,
	DeliveryDelivered, DeliveryFailed, DeliveryCancelled,
}

// Valid checks if the DeliveryStatus is valid
func (s DeliveryStatus) Valid() bool {
	for _, v := range allowedDeliveryStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// deliveryTransitions is the fixed transition table. Delivered and cancelled
// are terminal.
var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryPending:        {DeliveryAssigned, DeliveryCancelled},
	DeliveryAssigned:       {DeliveryOutForDelivery, DeliveryPending, DeliveryCancelled},
	DeliveryOutForDelivery: {DeliveryDelivered, DeliveryFailed},
	DeliveryDelivered:      {},
	DeliveryFailed:         {DeliveryPending, DeliveryAssigned},
	DeliveryCancelled:      {},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	for _, v := range deliveryTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

// NextStatuses returns the legal next-state set for s. The slice is a copy.
func (s DeliveryStatus) NextStatuses() []DeliveryStatus {
	return append([]DeliveryStatus(nil), deliveryTransitions[s]...)
}

// Terminal reports whether s admits no further transitions.
func (s DeliveryStatus) Terminal() bool {
	return len(deliveryTransitions[s]) == 0
}

// Delivery - struct representing one delivery leg of an order. Exactly one
// delivery exists per order; it is mutated only through the status state
// machine and the assignment engine.
type Delivery struct {
	ID            int64
	OrderID       int64
	ZoneID        int64
	DriverID      *int64
	Status        DeliveryStatus
	ScheduledDate time.Time
	Sequence      *int // position in the driver's route for that date
	AssignedAt    *time.Time
	DispatchedAt  *time.Time
	DeliveredAt   *time.Time
	ProofImage    *string
	FailureReason *string
}

// TransitionData carries the optional payload of a status transition.
type TransitionData struct {
	DriverID   *int64
	ProofImage *string
	Reason     *string
	Notes      *string
}
