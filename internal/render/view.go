// Package render turns aggregated running data into pictures: the shareable
// summary image and the terminal calendar.
package render

import (
	"context"
	"image/color"
	"math"
	"time"

	"github.com/runnerr0/grass/internal/grid"
)

// SummaryView is everything drawn on the shareable summary image.
type SummaryView struct {
	DisplayName string
	AvatarURL   string
	Year        string
	Bucket      grid.DayBucket
	Months      []grid.MonthGroup
	RunDays     int
	TotalDays   int
	Percent     int
	Message     string
	TotalKm     int
	AsOf        time.Time
}

// NewSummaryView assembles the summary for year from the full activity list.
func NewSummaryView(agg *grid.Aggregator, displayName, avatarURL string, activities []grid.Activity, year string) *SummaryView {
	stats := agg.Stats(activities)
	percent := grid.Achievement(stats)
	return &SummaryView{
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		Year:        year,
		Bucket:      agg.DayBucket(activities, year),
		Months:      agg.MonthGroups(year),
		RunDays:     stats.RunDaysThisYear,
		TotalDays:   stats.TotalDaysElapsedThisYear,
		Percent:     percent,
		Message:     grid.LevelMessage(percent),
		TotalKm:     int(math.Round(grid.TotalKm(activities))),
		AsOf:        agg.Clock(),
	}
}

// Options control rasterization.
type Options struct {
	Theme       string
	Background  color.Color
	Scale       float64
	CrossOrigin bool
}

// OptionsFor returns options whose background matches theme so transparent
// regions do not render incorrectly.
func OptionsFor(theme string, scale float64, crossOrigin bool) Options {
	return Options{
		Theme:       theme,
		Background:  BackgroundFor(theme),
		Scale:       scale,
		CrossOrigin: crossOrigin,
	}
}

// Surface is a rasterized view that can be converted to PNG bytes.
type Surface interface {
	PNG() ([]byte, error)
}

// Rasterizer draws a SummaryView.
type Rasterizer interface {
	Rasterize(ctx context.Context, view *SummaryView, opts Options) (Surface, error)
}

// bytesSurface is a Surface that already holds encoded PNG bytes.
type bytesSurface []byte

func (b bytesSurface) PNG() ([]byte, error) { return b, nil }
