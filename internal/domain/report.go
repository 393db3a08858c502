package domain

import "time"

// DriverLoad is a driver's assignment count for one date.
type DriverLoad struct {
	Driver   Driver
	Assigned int
}

// Remaining returns the driver's spare capacity, never negative.
func (l DriverLoad) Remaining() int {
	r := l.Driver.Capacity() - l.Assigned
	if r < 0 {
		return 0
	}
	return r
}

// ZoneSummary aggregates delivery statuses within a zone for one date.
type ZoneSummary struct {
	Zone           Zone
	Pending        int
	Assigned       int
	OutForDelivery int
	Delivered      int
	Failed         int
}

// DateCount is the number of scheduled deliveries on one date.
type DateCount struct {
	Date       time.Time
	Deliveries int
}
