package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/me/goblocks/pkg/model"

	_ "modernc.org/sqlite"
)

// defaultListLimit caps ListRecent when no limit is given.
const defaultListLimit = 50

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteJournal opens (or creates) a SQLite database at dbPath and
// returns a Journal. Use ":memory:" for an in-memory database (useful in
// tests).
func NewSQLiteJournal(dbPath string, logger *slog.Logger) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// The journal has a single writer; one connection also keeps every
	// pooled handle on the same ":memory:" database in tests.
	db.SetMaxOpenConns(1)

	// WAL keeps history reads cheap while the scheduler appends.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	return &SQLiteJournal{
		db:     db,
		logger: logger.With("component", "journal"),
	}, nil
}

// Close closes the underlying database connection.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// Migrate creates all required tables and indexes.
func (j *SQLiteJournal) Migrate(ctx context.Context) error {
	j.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, j.db)
}

// Append stores one update record. A missing ID or timestamp is filled in.
func (j *SQLiteJournal) Append(ctx context.Context, rec *model.UpdateRecord) error {
	if rec.ID == "" {
		rec.ID = "upd_" + uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	j.logger.Debug("sql", "op", "insert", "table", "block_updates", "name", rec.Name)

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO block_updates (id, name, instance, reason, exit_code, full_text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Instance, string(rec.Trigger), rec.ExitCode, rec.FullText,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	return err
}

// ListRecent returns the newest records, most recent first.
func (j *SQLiteJournal) ListRecent(ctx context.Context, name string, limit int) ([]*model.UpdateRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT id, name, instance, reason, exit_code, full_text, created_at
		 FROM block_updates`
	args := []any{}
	if name != "" {
		query += ` WHERE name = ?`
		args = append(args, name)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*model.UpdateRecord
	for rows.Next() {
		var rec model.UpdateRecord
		var reason, createdAt string
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Instance, &reason,
			&rec.ExitCode, &rec.FullText, &createdAt); err != nil {
			return nil, err
		}
		rec.Trigger = model.Trigger(reason)
		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}

// Prune deletes records older than cutoff.
func (j *SQLiteJournal) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := j.db.ExecContext(ctx,
		`DELETE FROM block_updates WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
