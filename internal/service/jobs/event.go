package jobs

import "time"

// Job types accepted by the Processor.
const (
	TypeGenerateOrders = "generate_orders"
	TypeAutoAssign     = "auto_assign"
)

// Event is a single fulfillment job request.
type Event struct {
	Type        string
	Date        time.Time
	ZoneID      *int64
	RequestedAt time.Time
}
