package grid

import (
	"sort"
	"strconv"
	"time"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
	yearLayout  = "2006"
)

// startDateLayouts are tried in order when parsing an activity start date.
var startDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dayLayout,
}

// Aggregator buckets activities onto calendar days. Day keys are formatted in
// Location; Now supplies the wall clock for the current-year statistics.
type Aggregator struct {
	Location *time.Location
	Now      func() time.Time
}

// New returns an Aggregator for loc using the real clock. A nil loc means
// time.Local.
func New(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	return &Aggregator{Location: loc, Now: time.Now}
}

func (a *Aggregator) loc() *time.Location {
	if a.Location == nil {
		return time.Local
	}
	return a.Location
}

// Clock returns the current time in the aggregator's location.
func (a *Aggregator) Clock() time.Time {
	if a.Now == nil {
		return time.Now().In(a.loc())
	}
	return a.Now().In(a.loc())
}

// DayKey formats an activity start date as YYYY-MM-DD in the aggregator's
// location. ok is false when the date cannot be parsed.
func (a *Aggregator) DayKey(startDate string) (key string, ok bool) {
	t, ok := ParseStartDate(startDate, a.loc())
	if !ok {
		return "", false
	}
	return t.In(a.loc()).Format(dayLayout), true
}

// ParseStartDate parses an activity start date. Values without a zone offset,
// including date-only values, are read as wall time in loc.
func ParseStartDate(startDate string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range startDateLayouts {
		if t, err := time.ParseInLocation(layout, startDate, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Years returns the distinct years that contain at least one run, ascending.
func (a *Aggregator) Years(activities []Activity) []string {
	seen := make(map[string]struct{})
	for _, act := range activities {
		if act.Type != RunType {
			continue
		}
		key, ok := a.DayKey(act.StartDate)
		if !ok {
			continue
		}
		seen[key[:4]] = struct{}{}
	}

	years := make([]string, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

// DayBucket sums run distance in kilometers per day of year. Multiple runs on
// the same day accumulate.
func (a *Aggregator) DayBucket(activities []Activity, year string) DayBucket {
	bucket := make(DayBucket)
	if _, ok := ParseYear(year); !ok {
		return bucket
	}
	for _, act := range activities {
		if act.Type != RunType {
			continue
		}
		key, ok := a.DayKey(act.StartDate)
		if !ok || key[:4] != year {
			continue
		}
		bucket[key] += act.Distance / 1000
	}
	return bucket
}

// MonthGroups enumerates every day of year grouped by month, January first.
// It returns nil when year is not a 4-digit number.
func (a *Aggregator) MonthGroups(year string) []MonthGroup {
	y, ok := ParseYear(year)
	if !ok {
		return nil
	}

	groups := make([]MonthGroup, 0, 12)
	day := time.Date(y, time.January, 1, 0, 0, 0, 0, a.loc())
	for day.Year() == y {
		key := day.Format(monthLayout)
		if n := len(groups); n == 0 || groups[n-1].Key != key {
			groups = append(groups, MonthGroup{Key: key})
		}
		groups[len(groups)-1].Dates = append(groups[len(groups)-1].Dates, day)
		day = day.AddDate(0, 0, 1)
	}
	return groups
}

// Stats counts whole days elapsed since January 1 of the current year and the
// number of runs recorded this year.
func (a *Aggregator) Stats(activities []Activity) Stats {
	now := a.Clock()
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, a.loc())
	thisYear := now.Format(yearLayout)

	var runs int
	for _, act := range activities {
		if act.Type != RunType {
			continue
		}
		if key, ok := a.DayKey(act.StartDate); ok && key[:4] == thisYear {
			runs++
		}
	}

	return Stats{
		TotalDaysElapsedThisYear: int(now.Sub(start) / (24 * time.Hour)),
		RunDaysThisYear:          runs,
	}
}

// DefaultYear picks the initially selected year: the first year with data,
// or the current year when there is none.
func (a *Aggregator) DefaultYear(years []string) string {
	if len(years) > 0 {
		return years[0]
	}
	return a.Clock().Format(yearLayout)
}

// TotalKm is the total run distance across all activities in kilometers.
func TotalKm(activities []Activity) float64 {
	var meters float64
	for _, act := range activities {
		if act.Type == RunType {
			meters += act.Distance
		}
	}
	return meters / 1000
}

// Layout positions a month group on a Sunday-first week grid.
func Layout(g MonthGroup) MonthLayout {
	if len(g.Dates) == 0 {
		return MonthLayout{}
	}
	start := int(g.Dates[0].Weekday())
	return MonthLayout{
		StartCol: start,
		RowSpan:  (len(g.Dates) + start + 6) / 7,
	}
}

// ParseYear accepts exactly four digits.
func ParseYear(year string) (int, bool) {
	if len(year) != 4 {
		return 0, false
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < 1000 {
		return 0, false
	}
	return y, true
}
