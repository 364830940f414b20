package grid

import "time"

// RunType is the activity type counted toward the grid.
const RunType = "Run"

// Activity is a single activity record as delivered by an activity source.
// StartDate is an ISO-8601 timestamp and Distance is in meters.
type Activity struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name,omitempty"`
	Type      string  `json:"type"`
	StartDate string  `json:"start_date"`
	Distance  float64 `json:"distance"`
}

// DayBucket maps a calendar-day key (YYYY-MM-DD) to kilometers run that day.
type DayBucket map[string]float64

// MonthGroup is every calendar date of one month, keyed YYYY-MM.
type MonthGroup struct {
	Key   string
	Dates []time.Time
}

// MonthLayout places a month block on a Sunday-first seven-column grid.
type MonthLayout struct {
	StartCol int
	RowSpan  int
}

// Stats holds the current-year counters shown on the summary.
type Stats struct {
	TotalDaysElapsedThisYear int `json:"total_days"`
	RunDaysThisYear          int `json:"run_days"`
}
