package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal implements Journal using SQLite.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLiteJournal opens (or creates) the push journal database.
func NewSQLiteJournal(dbPath string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	j := &SQLiteJournal{db: db}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return j, nil
}

func (j *SQLiteJournal) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pushes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		channel TEXT NOT NULL,
		rows INTEGER NOT NULL,
		chars INTEGER NOT NULL,
		ok INTEGER NOT NULL,
		error TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_pushes_timestamp ON pushes(timestamp);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Close closes the database.
func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

// LogPush records a digest delivery attempt.
func (j *SQLiteJournal) LogPush(ctx context.Context, rec *PushRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	res, err := j.db.ExecContext(ctx, `
		INSERT INTO pushes (timestamp, channel, rows, chars, ok, error)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Timestamp, rec.Channel, rec.Rows, rec.Chars, boolToInt(rec.OK), rec.Error,
	)
	if err != nil {
		return fmt.Errorf("logging push: %w", err)
	}

	rec.ID, _ = res.LastInsertId()
	return nil
}

// ListPushes returns the most recent push attempts, newest first.
func (j *SQLiteJournal) ListPushes(ctx context.Context, limit int) ([]PushRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT id, timestamp, channel, rows, chars, ok, COALESCE(error, '')
		FROM pushes ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing pushes: %w", err)
	}
	defer rows.Close()

	var out []PushRecord
	for rows.Next() {
		var rec PushRecord
		var ok int
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Channel, &rec.Rows, &rec.Chars, &ok, &rec.Error); err != nil {
			return nil, fmt.Errorf("scanning push row: %w", err)
		}
		rec.OK = ok != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
