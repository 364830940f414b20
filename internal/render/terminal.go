package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runnerr0/grass/internal/grid"
)

const termCellWidth = 7

var weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Terminal draws the calendar grid with one coloured block per day.
type Terminal struct {
	pal Palette
}

// NewTerminal returns a terminal renderer using the palette for theme.
func NewTerminal(theme string) *Terminal {
	return &Terminal{pal: PaletteFor(theme)}
}

func (t *Terminal) cell(content string, bg, fg lipgloss.Color) string {
	return lipgloss.NewStyle().
		Width(termCellWidth).
		Align(lipgloss.Center).
		Background(bg).
		Foreground(fg).
		Render(content)
}

func (t *Terminal) blank() string {
	return strings.Repeat(" ", termCellWidth)
}

// Render draws every month of year. Days of the first of the month carry the
// month number; selected days show their distance.
func (t *Terminal) Render(year string, groups []grid.MonthGroup, bucket grid.DayBucket, sel *grid.Selection) string {
	var b strings.Builder

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Hex(t.pal.Accent)))
	b.WriteString(title.Render("Running grass " + year))
	b.WriteString("\n\n")

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(Hex(t.pal.Muted)))
	for _, d := range weekdays {
		b.WriteString(muted.Width(termCellWidth).Align(lipgloss.Center).Render(d))
	}
	b.WriteString("\n")

	for _, g := range groups {
		layout := grid.Layout(g)
		b.WriteString("\n")
		for slot := 0; slot < layout.RowSpan*7; slot++ {
			di := slot - layout.StartCol
			if di < 0 || di >= len(g.Dates) {
				b.WriteString(t.blank())
			} else {
				b.WriteString(t.day(g, di, bucket, sel))
			}
			if slot%7 == 6 {
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(t.Legend())
	b.WriteString("\n")
	return b.String()
}

func (t *Terminal) day(g grid.MonthGroup, i int, bucket grid.DayBucket, sel *grid.Selection) string {
	date := g.Dates[i]
	key := date.Format("2006-01-02")
	km := bucket[key]

	var label string
	switch {
	case sel.Has(key) && km > 0:
		label = FormatKm(km)
	case date.Day() == 1:
		label = fmt.Sprintf("M%d", int(date.Month()))
	}
	bg := lipgloss.Color(Hex(t.pal.CellColor(km)))
	fg := lipgloss.Color(Hex(t.pal.CellTextColor(km)))
	return t.cell(label, bg, fg)
}

// Legend is the "Less ... More" strip of sample intensities.
func (t *Terminal) Legend() string {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(Hex(t.pal.Muted)))
	parts := []string{muted.Render("Less ")}
	for _, km := range grid.LegendSamples {
		sw := lipgloss.NewStyle().Background(lipgloss.Color(Hex(t.pal.CellColor(km))))
		parts = append(parts, sw.Render("  "), " ")
	}
	parts = append(parts, muted.Render("More"))
	return strings.Join(parts, "")
}

// FormatKm renders a day distance with one decimal, e.g. "5.2km".
func FormatKm(km float64) string {
	return fmt.Sprintf("%.1fkm", km)
}
