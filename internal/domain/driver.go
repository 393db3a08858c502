package domain

// DefaultMaxDeliveriesPerDay caps a driver's daily route when no explicit
// capacity is configured.
const DefaultMaxDeliveriesPerDay = 30

// Driver represents a delivery driver attached to a home zone.
type Driver struct {
	ID                  int64
	Name                string
	Phone               string
	ZoneID              int64
	MaxDeliveriesPerDay int
	IsActive            bool
}

// Capacity returns the driver's effective daily capacity.
func (d *Driver) Capacity() int {
	if d.MaxDeliveriesPerDay > 0 {
		return d.MaxDeliveriesPerDay
	}
	return DefaultMaxDeliveriesPerDay
}

// PartialDriverUpdate carries optional fields to update a driver.
// A nil field means “do not change” that attribute.
type PartialDriverUpdate struct {
	ID                  int64
	Name                *string
	Phone               *string
	ZoneID              *int64
	MaxDeliveriesPerDay *int
	IsActive            *bool
}

// Zone groups drivers and deliveries for assignment scoping.
type Zone struct {
	ID   int64
	Name string
}
