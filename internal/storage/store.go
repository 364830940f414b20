package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Store defines the interface for activity and profile persistence.
type Store interface {
	UpsertActivities(ctx context.Context, activities []Activity) (int, error)
	ListActivities(ctx context.Context, query ActivityQuery) ([]Activity, error)
	DeleteActivity(ctx context.Context, id string) error
	GetProfile(ctx context.Context) (*Profile, error)
	SaveProfile(ctx context.Context, profile *Profile) error
	PurgeAll(ctx context.Context) error
	GetStats(ctx context.Context) (*Stats, error)
	Close() error
}

// SQLiteStore implements Store backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB

	// Prepared statements
	upsertActivity *sql.Stmt
	deleteActivity *sql.Stmt
	getProfile     *sql.Stmt
	saveProfile    *sql.Stmt
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLiteStore from an already-opened and migrated database.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	s := &SQLiteStore{db: db}

	if err := s.prepareStatements(); err != nil {
		return nil, fmt.Errorf("prepare statements: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.upsertActivity, err = s.db.Prepare(`
		INSERT INTO activities (id, name, type, start_date, distance, source)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name       = excluded.name,
			type       = excluded.type,
			start_date = excluded.start_date,
			distance   = excluded.distance,
			source     = excluded.source,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return err
	}

	s.deleteActivity, err = s.db.Prepare(`DELETE FROM activities WHERE id = ?`)
	if err != nil {
		return err
	}

	s.getProfile, err = s.db.Prepare(`
		SELECT username, firstname, lastname, avatar_url, updated_at
		FROM profile WHERE id = 1
	`)
	if err != nil {
		return err
	}

	s.saveProfile, err = s.db.Prepare(`
		INSERT INTO profile (id, username, firstname, lastname, avatar_url, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username   = excluded.username,
			firstname  = excluded.firstname,
			lastname   = excluded.lastname,
			avatar_url = excluded.avatar_url,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return err
	}

	return nil
}

// parseTimestamp tries several common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05.999999999-07:00",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse timestamp: %s", s)
}

// UpsertActivities inserts or replaces activities by ID in one transaction
// and returns how many rows were written. Activities without an ID or start
// date are rejected.
func (s *SQLiteStore) UpsertActivities(ctx context.Context, activities []Activity) (int, error) {
	for i, a := range activities {
		if a.ID == "" {
			return 0, fmt.Errorf("activity %d: missing id", i)
		}
		if a.StartDate.IsZero() {
			return 0, fmt.Errorf("activity %s: missing start date", a.ID)
		}
		if a.Distance < 0 {
			return 0, fmt.Errorf("activity %s: negative distance", a.ID)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt := tx.StmtContext(ctx, s.upsertActivity)
	for _, a := range activities {
		source := a.Source
		if source == "" {
			source = "manual"
		}
		_, err := stmt.ExecContext(ctx,
			a.ID, a.Name, a.Type, a.StartDate.UTC().Format(time.RFC3339), a.Distance, source,
		)
		if err != nil {
			return 0, fmt.Errorf("upsert activity %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(activities), nil
}

// ListActivities returns activities matching q, oldest first.
// A zero Limit means no limit.
func (s *SQLiteStore) ListActivities(ctx context.Context, q ActivityQuery) ([]Activity, error) {
	var clauses []string
	var args []interface{}

	if q.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, q.Type)
	}
	if !q.Since.IsZero() {
		clauses = append(clauses, "start_date >= ?")
		args = append(args, q.Since.UTC().Format(time.RFC3339))
	}
	if !q.Until.IsZero() {
		clauses = append(clauses, "start_date <= ?")
		args = append(args, q.Until.UTC().Format(time.RFC3339))
	}

	query := `SELECT id, name, type, start_date, distance, source FROM activities`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY start_date ASC, id ASC"

	if q.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, q.Limit, q.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	activities := []Activity{}
	for rows.Next() {
		var a Activity
		var startStr string
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &startStr, &a.Distance, &a.Source); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		// The driver scans unparseable DATETIME text as the zero time.
		start, err := parseTimestamp(startStr)
		if err == nil && start.IsZero() {
			err = fmt.Errorf("invalid timestamp: %s", startStr)
		}
		if err != nil {
			return nil, fmt.Errorf("activity %s start_date: %w", a.ID, err)
		}
		a.StartDate = start
		activities = append(activities, a)
	}

	return activities, rows.Err()
}

// DeleteActivity removes one activity by ID.
func (s *SQLiteStore) DeleteActivity(ctx context.Context, id string) error {
	res, err := s.deleteActivity.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("activity %s: %w", id, ErrNotFound)
	}

	return nil
}

// GetProfile returns the stored profile or ErrNotFound.
func (s *SQLiteStore) GetProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	var updated string
	err := s.getProfile.QueryRowContext(ctx).Scan(&p.Username, &p.FirstName, &p.LastName, &p.AvatarURL, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	p.UpdatedAt, _ = parseTimestamp(updated)
	return &p, nil
}

// SaveProfile replaces the stored profile.
func (s *SQLiteStore) SaveProfile(ctx context.Context, p *Profile) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	_, err := s.saveProfile.ExecContext(ctx,
		p.Username, p.FirstName, p.LastName, p.AvatarURL, p.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// PurgeAll deletes all activities and the profile.
func (s *SQLiteStore) PurgeAll(ctx context.Context) error {
	stmts := []string{
		"DELETE FROM activities",
		"DELETE FROM profile",
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("purge (%s): %w", stmt, err)
		}
	}
	return nil
}

// GetStats returns aggregate statistics about the database.
func (s *SQLiteStore) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities").Scan(&stats.TotalActivities)
	if err != nil {
		return nil, fmt.Errorf("count activities: %w", err)
	}

	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities WHERE type = 'Run'").Scan(&stats.TotalRuns)
	if err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	if stats.TotalActivities > 0 {
		var oldestStr, newestStr string
		err = s.db.QueryRowContext(ctx, "SELECT MIN(start_date), MAX(start_date) FROM activities").Scan(&oldestStr, &newestStr)
		if err != nil {
			return nil, fmt.Errorf("activity time range: %w", err)
		}
		stats.OldestActivity, _ = parseTimestamp(oldestStr)
		stats.NewestActivity, _ = parseTimestamp(newestStr)
	}

	var pageCount, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err == nil {
			stats.DatabaseSizeBytes = pageCount * pageSize
		}
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT type, COUNT(*) AS cnt FROM activities GROUP BY type ORDER BY cnt DESC, type ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("type counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, err
		}
		stats.TypeCounts = append(stats.TypeCounts, tc)
	}

	return stats, rows.Err()
}

// Close releases all prepared statements. The underlying *sql.DB is NOT
// closed; that is the caller's responsibility.
func (s *SQLiteStore) Close() error {
	stmts := []*sql.Stmt{
		s.upsertActivity, s.deleteActivity, s.getProfile, s.saveProfile,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			stmt.Close()
		}
	}
	return nil
}
