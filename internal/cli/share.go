package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/runnerr0/grass/internal/notify"
	"github.com/runnerr0/grass/internal/render"
	"github.com/runnerr0/grass/internal/share"
)

type shareJSON struct {
	Year    string `json:"year"`
	Outcome string `json:"outcome"`
}

// Execute implements the go-flags Commander interface for ShareCommand.
// Ctrl-C while sharing counts as cancelling the share.
func (c *ShareCommand) Execute(args []string) error {
	s, err := openSession(c.globals)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var n notify.Notifier = notify.NewTerminal(os.Stdout)
	if c.globals != nil && c.globals.JSON {
		n = notify.NewLog(s.logger)
	}
	return c.executeWithSession(ctx, s, n)
}

func (c *ShareCommand) executeWithSession(ctx context.Context, s *session, n notify.Notifier) error {
	cfg := *s.cfg
	if c.Target != "" {
		cfg.Share.Target = c.Target
	}
	if c.Theme != "" {
		cfg.Display.Theme = c.Theme
	}
	if c.Out != "" {
		cfg.Share.DownloadDir = c.Out
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	acts, err := s.records(ctx)
	if err != nil {
		return err
	}
	year, err := s.resolveYear(c.Year, acts)
	if err != nil {
		return err
	}
	profile, err := s.profile(ctx)
	if err != nil {
		return err
	}
	var avatar string
	if profile != nil {
		avatar = profile.AvatarURL
	}

	exporter, err := newExporter(&cfg, s.logger, n)
	if err != nil {
		return err
	}
	view := render.NewSummaryView(s.agg, profile.DisplayName(), avatar, acts, year)
	outcome := exporter.ExportAndShare(ctx, view)

	if c.globals != nil && c.globals.JSON {
		if err := printJSON(shareJSON{Year: year, Outcome: outcome.String()}); err != nil {
			return err
		}
	}
	if outcome == share.Failed {
		return fmt.Errorf("share failed; see the log output above")
	}
	return nil
}
