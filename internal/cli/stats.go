package cli

import (
	"context"
	"fmt"

	"github.com/runnerr0/grass/internal/grid"
)

type statsJSON struct {
	TotalDays   int     `json:"total_days"`
	RunDays     int     `json:"run_days"`
	Achievement int     `json:"achievement"`
	Message     string  `json:"message"`
	TotalKm     float64 `json:"total_km"`
}

// Execute implements the go-flags Commander interface for StatsCommand.
func (c *StatsCommand) Execute(args []string) error {
	s, err := openSession(c.globals)
	if err != nil {
		return err
	}
	defer s.Close()

	return c.executeWithSession(context.Background(), s)
}

func (c *StatsCommand) executeWithSession(ctx context.Context, s *session) error {
	acts, err := s.records(ctx)
	if err != nil {
		return err
	}
	st := s.agg.Stats(acts)
	pct := grid.Achievement(st)
	out := statsJSON{
		TotalDays:   st.TotalDaysElapsedThisYear,
		RunDays:     st.RunDaysThisYear,
		Achievement: pct,
		Message:     grid.LevelMessage(pct),
		TotalKm:     grid.TotalKm(acts),
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(out)
	}

	fmt.Println(out.Message)
	fmt.Printf("Planted %d patches of grass in %d days! (achievement: %d%%)\n", out.RunDays, out.TotalDays, out.Achievement)
	fmt.Printf("Total distance: %.1f km\n", out.TotalKm)
	return nil
}
