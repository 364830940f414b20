package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/runnerr0/grass/internal/config"
	"github.com/runnerr0/grass/internal/grid"
	"github.com/runnerr0/grass/internal/logging"
	"github.com/runnerr0/grass/internal/notify"
	"github.com/runnerr0/grass/internal/render"
	"github.com/runnerr0/grass/internal/share"
	"github.com/runnerr0/grass/internal/storage"
)

// envFile is loaded from the working directory when present.
const envFile = ".env"

// session bundles what a command needs once config and storage are open.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	agg    *grid.Aggregator
	store  *storage.SQLiteStore
	db     *sql.DB
	dbPath string
}

// loadConfig reads --config (or the default path), then overlays .env and
// the process environment.
func loadConfig(g *GlobalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if g != nil && g.Config != "" {
		cfg, err = config.LoadOrCreateAt(g.Config)
	} else {
		cfg, err = config.LoadOrCreate()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := config.ApplyEnv(cfg, envFile); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSession loads config, builds the logger and opens the database.
func openSession(g *GlobalFlags) (*session, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}

	verbose := g != nil && g.Verbose
	logger, err := logging.New(cfg.Logging, verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	dbPath := ""
	if g != nil {
		dbPath = g.DB
	}
	if dbPath == "" {
		if dbPath, err = cfg.DBPath(); err != nil {
			return nil, err
		}
	}

	store, db, err := openStore(dbPath)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		store.Close()
		db.Close()
		return nil, err
	}

	logger.Debug("Session opened", zap.String("db", dbPath), zap.String("timezone", loc.String()))
	return &session{
		cfg:    cfg,
		logger: logger,
		agg:    grid.New(loc),
		store:  store,
		db:     db,
		dbPath: dbPath,
	}, nil
}

func (s *session) Close() {
	if s.store != nil {
		s.store.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	_ = s.logger.Sync()
}

// openStore opens the database at dbPath, runs migrations, and returns a
// ready-to-use store and the underlying *sql.DB.
func openStore(dbPath string) (*storage.SQLiteStore, *sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	runner := storage.NewMigrationRunner(db)
	if err := runner.Run(); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	store, err := storage.NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("create store: %w", err)
	}

	return store, db, nil
}

// records loads every stored activity in the shape the aggregator reads.
func (s *session) records(ctx context.Context) ([]grid.Activity, error) {
	acts, err := s.store.ListActivities(ctx, storage.ActivityQuery{})
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return storage.Records(acts), nil
}

// profile returns the stored profile, or nil when none has been synced.
func (s *session) profile(ctx context.Context) (*storage.Profile, error) {
	p, err := s.store.GetProfile(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// resolveYear validates an explicit year or picks the default one.
func (s *session) resolveYear(year string, acts []grid.Activity) (string, error) {
	if year == "" {
		return s.agg.DefaultYear(s.agg.Years(acts)), nil
	}
	if _, ok := grid.ParseYear(year); !ok {
		return "", fmt.Errorf("invalid year %q: expected four digits", year)
	}
	return year, nil
}

func newRasterizer(cfg *config.Config, logger *zap.Logger) render.Rasterizer {
	if cfg.Share.Renderer == config.RendererBrowser {
		return render.NewBrowserRasterizer(cfg.Share.BrowserBin, logger)
	}
	return render.NewCanvasRasterizer(logger)
}

// newSharer returns nil when no native share target is configured.
func newSharer(cfg *config.Config) share.NativeSharer {
	switch cfg.Share.Target {
	case config.TargetWebhook:
		return share.NewWebhookSharer(cfg.Share.WebhookURL, cfg.Share.MaxBytes)
	case config.TargetOpen:
		return share.NewOpenSharer("")
	case config.TargetCopy:
		return share.NewClipboardSharer("")
	default:
		return nil
	}
}

func newExporter(cfg *config.Config, logger *zap.Logger, notifier notify.Notifier) (*share.Exporter, error) {
	dir, err := config.ExpandPath(cfg.Share.DownloadDir)
	if err != nil {
		return nil, err
	}
	return share.NewExporter(share.Options{
		Rasterizer: newRasterizer(cfg, logger),
		Sharer:     newSharer(cfg),
		Downloader: share.NewFileDownloader(dir),
		Notifier:   notifier,
		Logger:     logger,
		Render:     render.OptionsFor(cfg.Display.Theme, cfg.Share.Scale, cfg.Share.CrossOrigin),
		Filename:   cfg.Share.Filename,
		Title:      cfg.Share.Title,
		Text:       cfg.Share.Text,
	}), nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatBytes formats a byte count into a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatNumber formats an int64 with comma separators.
func formatNumber(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if i > 0 {
			result.WriteString(",")
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}
