package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/runnerr0/grass/internal/grid"
	"github.com/runnerr0/grass/internal/storage"
)

type importJSON struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Execute implements the go-flags Commander interface for ImportCommand.
func (c *ImportCommand) Execute(args []string) error {
	var r io.Reader = os.Stdin
	if c.File != "" && c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("open %s: %w", c.File, err)
		}
		defer f.Close()
		r = f
	}

	s, err := openSession(c.globals)
	if err != nil {
		return err
	}
	defer s.Close()

	return c.executeWithSession(context.Background(), s, r)
}

func (c *ImportCommand) executeWithSession(ctx context.Context, s *session, r io.Reader) error {
	var records []grid.Activity
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return fmt.Errorf("decode activities: %w", err)
	}

	rows := make([]storage.Activity, 0, len(records))
	skipped := 0
	for _, rec := range records {
		start, ok := grid.ParseStartDate(rec.StartDate, s.agg.Location)
		if !ok || rec.Distance < 0 {
			s.logger.Warn("Skipping activity", zap.String("id", rec.ID), zap.String("start_date", rec.StartDate))
			skipped++
			continue
		}
		id := rec.ID
		if id == "" {
			id = "import-" + uuid.NewString()
		}
		rows = append(rows, storage.Activity{
			ID:        id,
			Name:      rec.Name,
			Type:      rec.Type,
			StartDate: start,
			Distance:  rec.Distance,
			Source:    "import",
		})
	}

	n, err := s.store.UpsertActivities(ctx, rows)
	if err != nil {
		return fmt.Errorf("store activities: %w", err)
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(importJSON{Imported: n, Skipped: skipped})
	}
	fmt.Printf("Imported %d activities", n)
	if skipped > 0 {
		fmt.Printf(" (%d skipped)", skipped)
	}
	fmt.Println(".")
	return nil
}
