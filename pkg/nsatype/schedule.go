package nsatype

import (
	"fmt"
	"time"
)

// Schedule is the reservation window. Times are treated as naive — any
// timezone information on the input is discarded by converting to UTC at
// construction, matching the reference implementation's requirement that
// schedule times carry no tzinfo.
type Schedule struct {
	Start, End time.Time
}

// NewSchedule builds a Schedule, normalizing both times to UTC so callers
// never observe a location-dependent wall clock downstream.
func NewSchedule(start, end time.Time) Schedule {
	return Schedule{Start: start.UTC(), End: end.UTC()}
}

// String implements fmt.Stringer.
func (s Schedule) String() string {
	return fmt.Sprintf("<Schedule: %s-%s>", s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339))
}
