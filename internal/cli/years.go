package cli

import (
	"context"
	"fmt"
)

// Execute implements the go-flags Commander interface for YearsCommand.
func (c *YearsCommand) Execute(args []string) error {
	s, err := openSession(c.globals)
	if err != nil {
		return err
	}
	defer s.Close()

	return c.executeWithSession(context.Background(), s)
}

func (c *YearsCommand) executeWithSession(ctx context.Context, s *session) error {
	acts, err := s.records(ctx)
	if err != nil {
		return err
	}
	years := s.agg.Years(acts)

	if c.globals != nil && c.globals.JSON {
		if years == nil {
			years = []string{}
		}
		return printJSON(years)
	}
	if len(years) == 0 {
		fmt.Println("No runs yet. Try 'grass sync' or 'grass import'.")
		return nil
	}
	for _, y := range years {
		fmt.Println(y)
	}
	return nil
}
