package cli

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/runnerr0/grass/internal/config"
	"github.com/runnerr0/grass/internal/grid"
	"github.com/runnerr0/grass/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// testNow is the wall clock every test session runs at.
var testNow = time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC)

// newTestSession returns a session over a migrated in-memory database with
// default config and a pinned UTC clock.
func newTestSession(t *testing.T) *session {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, storage.NewMigrationRunner(db).Run())
	store, err := storage.NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.DefaultConfig()
	cfg.Share.DownloadDir = t.TempDir()
	cfg.Share.Scale = 1

	return &session{
		cfg:    cfg,
		logger: zap.NewNop(),
		agg:    &grid.Aggregator{Location: time.UTC, Now: func() time.Time { return testNow }},
		store:  store,
		db:     db,
		dbPath: ":memory:",
	}
}

// seedRuns stores a few runs and a ride across 2023 and 2024.
func seedRuns(t *testing.T, s *session) {
	t.Helper()
	_, err := s.store.UpsertActivities(context.Background(), []storage.Activity{
		{ID: "r1", Name: "Morning", Type: "Run", StartDate: time.Date(2024, 3, 5, 7, 0, 0, 0, time.UTC), Distance: 5240},
		{ID: "r2", Name: "Evening", Type: "Run", StartDate: time.Date(2024, 3, 6, 19, 0, 0, 0, time.UTC), Distance: 2000},
		{ID: "r3", Name: "Long", Type: "Run", StartDate: time.Date(2023, 9, 10, 7, 0, 0, 0, time.UTC), Distance: 21100},
		{ID: "b1", Name: "Commute", Type: "Ride", StartDate: time.Date(2022, 5, 1, 8, 0, 0, 0, time.UTC), Distance: 12000},
	})
	require.NoError(t, err)
}
