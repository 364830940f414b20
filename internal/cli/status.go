package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/runnerr0/grass/internal/storage"
)

// statusJSON is the JSON output structure for the status command.
type statusJSON struct {
	Version           string          `json:"version"`
	DatabasePath      string          `json:"database_path"`
	DatabaseSizeBytes int64           `json:"database_size_bytes"`
	SchemaVersion     int             `json:"schema_version"`
	TotalActivities   int64           `json:"total_activities"`
	TotalRuns         int64           `json:"total_runs"`
	OldestActivity    string          `json:"oldest_activity,omitempty"`
	NewestActivity    string          `json:"newest_activity,omitempty"`
	Types             []typeCountJSON `json:"types"`
	Profile           string          `json:"profile,omitempty"`
	Theme             string          `json:"theme"`
	ShareTarget       string          `json:"share_target"`
	Renderer          string          `json:"renderer"`
	StravaConfigured  bool            `json:"strava_configured"`
}

type typeCountJSON struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	s, err := openSession(c.globals)
	if err != nil {
		return err
	}
	defer s.Close()

	return c.executeWithSession(context.Background(), s)
}

// executeWithSession runs status against a provided session (for testing).
func (c *StatusCommand) executeWithSession(ctx context.Context, s *session) error {
	stats, err := s.store.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}
	profile, err := s.profile(ctx)
	if err != nil {
		return err
	}
	schema, err := storage.NewMigrationRunner(s.db).Version()
	if err != nil {
		return fmt.Errorf("schema version: %w", err)
	}

	out := statusJSON{
		Version:           c.version,
		DatabasePath:      s.dbPath,
		DatabaseSizeBytes: getDatabaseSize(s.dbPath, stats),
		SchemaVersion:     schema,
		TotalActivities:   stats.TotalActivities,
		TotalRuns:         stats.TotalRuns,
		Types:             make([]typeCountJSON, len(stats.TypeCounts)),
		Profile:           profile.DisplayName(),
		Theme:             s.cfg.Display.Theme,
		ShareTarget:       s.cfg.Share.Target,
		Renderer:          s.cfg.Share.Renderer,
		StravaConfigured:  s.cfg.Strava.AccessToken != "" || s.cfg.Strava.RefreshToken != "",
	}
	if stats.TotalActivities > 0 {
		out.OldestActivity = stats.OldestActivity.UTC().Format(time.RFC3339)
		out.NewestActivity = stats.NewestActivity.UTC().Format(time.RFC3339)
	}
	for i, tc := range stats.TypeCounts {
		out.Types[i] = typeCountJSON{Type: tc.Type, Count: tc.Count}
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(out)
	}
	return c.printStatusHuman(out, stats)
}

func (c *StatusCommand) printStatusHuman(out statusJSON, stats *storage.Stats) error {
	fmt.Println("Grass Status")
	fmt.Println("============")
	fmt.Printf("Version:       %s\n", out.Version)
	fmt.Printf("Database:      %s (%s)\n", out.DatabasePath, formatBytes(out.DatabaseSizeBytes))
	fmt.Printf("Schema:        v%d\n", out.SchemaVersion)
	fmt.Printf("Activities:    %s\n", formatNumber(out.TotalActivities))
	fmt.Printf("Runs:          %s\n", formatNumber(out.TotalRuns))

	if out.TotalActivities > 0 {
		fmt.Printf("Oldest:        %s\n", stats.OldestActivity.Local().Format("2006-01-02"))
		fmt.Printf("Newest:        %s\n", stats.NewestActivity.Local().Format("2006-01-02"))
	}

	if len(out.Types) > 0 {
		fmt.Println()
		fmt.Println("Activity Types:")
		for _, t := range out.Types {
			fmt.Printf("  %-20s %s\n", t.Type, formatNumber(t.Count))
		}
	}

	fmt.Println()
	if out.Profile != "" {
		fmt.Printf("Profile:       %s\n", out.Profile)
	} else {
		fmt.Println("Profile:       not synced")
	}
	if out.StravaConfigured {
		fmt.Println("Strava:        configured")
	} else {
		fmt.Println("Strava:        not configured")
	}
	fmt.Printf("Theme:         %s\n", out.Theme)
	fmt.Printf("Share target:  %s (%s renderer)\n", out.ShareTarget, out.Renderer)

	return nil
}

// getDatabaseSize returns the database file size in bytes. For in-memory
// databases it falls back to the page count reported by the store.
func getDatabaseSize(dbPath string, stats *storage.Stats) int64 {
	if info, err := os.Stat(dbPath); err == nil {
		return info.Size()
	}
	return stats.DatabaseSizeBytes
}
