package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/runnerr0/grass/internal/grid"
	"github.com/runnerr0/grass/internal/render"
)

type gridJSON struct {
	Year     string             `json:"year"`
	Bucket   map[string]float64 `json:"bucket"`
	Selected []string           `json:"selected"`
}

// Execute implements the go-flags Commander interface for GridCommand.
func (c *GridCommand) Execute(args []string) error {
	s, err := openSession(c.globals)
	if err != nil {
		return err
	}
	defer s.Close()

	return c.executeWithSession(context.Background(), s)
}

func (c *GridCommand) executeWithSession(ctx context.Context, s *session) error {
	acts, err := s.records(ctx)
	if err != nil {
		return err
	}
	year, err := s.resolveYear(c.Year, acts)
	if err != nil {
		return err
	}

	sel := grid.NewSelection()
	for _, d := range c.Select {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fmt.Errorf("invalid --select %q: expected YYYY-MM-DD", d)
		}
		sel.Toggle(d)
	}

	bucket := s.agg.DayBucket(acts, year)

	if c.globals != nil && c.globals.JSON {
		return printJSON(gridJSON{Year: year, Bucket: bucket, Selected: sel.Keys()})
	}

	theme := s.cfg.Display.Theme
	if c.Theme != "" {
		theme = c.Theme
	}
	fmt.Print(render.NewTerminal(theme).Render(year, s.agg.MonthGroups(year), bucket, sel))
	return nil
}
