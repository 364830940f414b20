package render

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/runnerr0/grass/internal/grid"
)

func TestTerminal_Render(t *testing.T) {
	agg := grid.New(time.UTC)
	groups := agg.MonthGroups("2024")
	bucket := grid.DayBucket{"2024-03-05": 5.24, "2024-03-06": 2}

	out := NewTerminal("light").Render("2024", groups, bucket, grid.NewSelection("2024-03-05"))

	assert.Contains(t, out, "Running grass 2024")
	for _, d := range []string{"Sun", "Mon", "Sat"} {
		assert.Contains(t, out, d)
	}
	assert.Contains(t, out, "5.2km")
	assert.NotContains(t, out, "2.0km", "unselected days hide their distance")
	for m := 1; m <= 12; m++ {
		assert.Contains(t, out, fmt.Sprintf("M%d", m))
	}
	assert.Contains(t, out, "Less")
	assert.Contains(t, out, "More")
}

func TestTerminal_SelectedEmptyDayShowsNothing(t *testing.T) {
	agg := grid.New(time.UTC)
	out := NewTerminal("dark").Render("2024", agg.MonthGroups("2024"), grid.DayBucket{}, grid.NewSelection("2024-03-05"))
	assert.NotContains(t, out, "km")
}

func TestFormatKm(t *testing.T) {
	assert.Equal(t, "5.2km", FormatKm(5.24))
	assert.Equal(t, "10.0km", FormatKm(10))
}
