package storage

import (
	"errors"
	"time"

	"github.com/runnerr0/grass/internal/grid"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Activity is a stored activity record.
type Activity struct {
	ID        string
	Name      string
	Type      string
	StartDate time.Time
	Distance  float64 // meters
	Source    string  // "strava", "import", "manual"
}

// Record converts the stored row into the record shape the aggregator reads.
func (a Activity) Record() grid.Activity {
	return grid.Activity{
		ID:        a.ID,
		Name:      a.Name,
		Type:      a.Type,
		StartDate: a.StartDate.UTC().Format(time.RFC3339),
		Distance:  a.Distance,
	}
}

// Records converts a slice of stored activities.
func Records(activities []Activity) []grid.Activity {
	out := make([]grid.Activity, len(activities))
	for i, a := range activities {
		out[i] = a.Record()
	}
	return out
}

// Profile is the single local user profile.
type Profile struct {
	Username  string
	FirstName string
	LastName  string
	AvatarURL string
	UpdatedAt time.Time
}

// DisplayName prefers the username, falling back to "first last".
func (p *Profile) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.Username != "" {
		return p.Username
	}
	switch {
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.FirstName != "":
		return p.FirstName
	default:
		return p.LastName
	}
}

// ActivityQuery defines filters for listing activities.
type ActivityQuery struct {
	Type   string
	Since  time.Time
	Until  time.Time
	Limit  int
	Offset int
}

// Stats holds aggregate statistics about the database.
type Stats struct {
	TotalActivities   int64
	TotalRuns         int64
	OldestActivity    time.Time
	NewestActivity    time.Time
	DatabaseSizeBytes int64
	TypeCounts        []TypeCount
}

// TypeCount pairs an activity type with its count.
type TypeCount struct {
	Type  string
	Count int64
}
