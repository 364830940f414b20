package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/runnerr0/grass/internal/storage"
	"github.com/runnerr0/grass/internal/strava"
)

type syncJSON struct {
	Activities int    `json:"activities"`
	Profile    string `json:"profile"`
	After      string `json:"after,omitempty"`
}

// Execute implements the go-flags Commander interface for SyncCommand.
func (c *SyncCommand) Execute(args []string) error {
	s, err := openSession(c.globals)
	if err != nil {
		return err
	}
	defer s.Close()

	return c.executeWithSession(context.Background(), s)
}

func (c *SyncCommand) executeWithSession(ctx context.Context, s *session) error {
	after, err := c.after(ctx, s)
	if err != nil {
		return err
	}

	client, err := strava.NewClient(ctx, s.cfg.Strava, s.logger)
	if err != nil {
		return err
	}

	var (
		written int
		profile *storage.Profile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		athlete, err := client.GetAthlete(gctx)
		if err != nil {
			return fmt.Errorf("fetch athlete: %w", err)
		}
		profile = athlete.ToProfile()
		return s.store.SaveProfile(gctx, profile)
	})
	g.Go(func() error {
		acts, err := client.ListActivities(gctx, after)
		if err != nil {
			return fmt.Errorf("fetch activities: %w", err)
		}
		rows := make([]storage.Activity, 0, len(acts))
		for _, a := range acts {
			rows = append(rows, a.ToStorage())
		}
		written, err = s.store.UpsertActivities(gctx, rows)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	s.logger.Info("Sync complete", zap.Int("activities", written), zap.Time("after", after))

	if c.globals != nil && c.globals.JSON {
		out := syncJSON{Activities: written, Profile: profile.DisplayName()}
		if !after.IsZero() {
			out.After = after.UTC().Format(time.RFC3339)
		}
		return printJSON(out)
	}

	fmt.Printf("Synced %d activities for %s.\n", written, profile.DisplayName())
	return nil
}

// after resolves the incremental sync cutoff: --since, else the newest
// stored activity unless --full.
func (c *SyncCommand) after(ctx context.Context, s *session) (time.Time, error) {
	if c.Since != "" {
		t, err := time.ParseInLocation("2006-01-02", c.Since, s.agg.Clock().Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --since %q: expected YYYY-MM-DD", c.Since)
		}
		return t, nil
	}
	if c.Full {
		return time.Time{}, nil
	}
	stats, err := s.store.GetStats(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("get stats: %w", err)
	}
	if stats.TotalActivities == 0 {
		return time.Time{}, nil
	}
	return stats.NewestActivity, nil
}
