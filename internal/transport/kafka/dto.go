package kafka

import (
	"fmt"
	"strings"
	"time"

	"dairyfresh-fulfillment/internal/service/jobs"
)

// JobDTO is a data transfer object for jobs.Event
type JobDTO struct {
	Type        string    `json:"type"`
	Date        string    `json:"date"`
	ZoneID      *int64    `json:"zone_id,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// ToDomain converts JobDTO to jobs.Event. The date must be a calendar date
// in 2006-01-02 form.
func ToDomain(dto JobDTO) (jobs.Event, error) {
	date, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(dto.Date), time.UTC)
	if err != nil {
		return jobs.Event{}, fmt.Errorf("bad job date %q: %w", dto.Date, err)
	}
	return jobs.Event{
		Type:        strings.TrimSpace(dto.Type),
		Date:        date,
		ZoneID:      dto.ZoneID,
		RequestedAt: dto.RequestedAt,
	}, nil
}
