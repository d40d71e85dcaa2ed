package pipeline

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/config"
	"github.com/kiran-kumarb/automated-meeting-minutes-generator/internal/services"
)

const recordsSchema = `
CREATE TABLE IF NOT EXISTS records (
    id TEXT PRIMARY KEY,
    filename TEXT NOT NULL UNIQUE,
    original_name TEXT NOT NULL DEFAULT '',
    display_title TEXT NOT NULL DEFAULT '',
    audio_path TEXT NOT NULL DEFAULT '',
    stage TEXT NOT NULL,
    raw_transcript TEXT NOT NULL DEFAULT '',
    edited_transcript TEXT NOT NULL DEFAULT '',
    action_items TEXT,
    minutes_path TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_stage ON records(stage);
`

// SQLiteStore persists records in a SQLite database so the pipeline
// survives daemon restarts. Per-record mutexes serialize Update
// mutations the same way MemoryStore does.
type SQLiteStore struct {
	db    *sql.DB
	path  string
	locks sync.Map
}

// OpenSQLiteStore initializes or connects to the records database
// under the configured log directory.
func OpenSQLiteStore(cfg *config.Config) (*SQLiteStore, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "records.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(recordsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) recordLock(id string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

func (s *SQLiteStore) Create(ctx context.Context, rec *Record) (*Record, error) {
	if rec == nil || rec.ID == "" {
		return nil, fmt.Errorf("%w: record id must be set", services.ErrValidation)
	}
	if rec.Filename == "" {
		return nil, fmt.Errorf("%w: stored filename must be set", services.ErrValidation)
	}

	stored := rec.Clone()
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Stage == "" {
		stored.Stage = StageUploaded
	}

	actions, err := marshalActions(stored.ActionItems)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO records (
    id, filename, original_name, display_title, audio_path, stage,
    raw_transcript, edited_transcript, action_items, minutes_path,
    created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID, stored.Filename, stored.OriginalName, stored.DisplayTitle,
		stored.AudioPath, string(stored.Stage), stored.RawTranscript,
		stored.EditedTranscript, actions, stored.MinutesPath,
		stored.CreatedAt.Format(time.RFC3339Nano),
		stored.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: record %q or filename %q already exists", services.ErrDuplicateRecording, stored.ID, stored.Filename)
		}
		return nil, fmt.Errorf("insert record: %w", err)
	}
	return stored, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectRecord+" WHERE id = ?", id)
	return scanRecord(row)
}

func (s *SQLiteStore) FindByFilename(ctx context.Context, filename string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectRecord+" WHERE filename = ?", filename)
	return scanRecord(row)
}

func (s *SQLiteStore) Update(ctx context.Context, id string, mutate func(*Record) error) (*Record, error) {
	lock := s.recordLock(id)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("%w: record %q", services.ErrNotFound, id)
	}

	working := current.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	working.ID = current.ID
	working.CreatedAt = current.CreatedAt
	working.UpdatedAt = time.Now().UTC()

	actions, err := marshalActions(working.ActionItems)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
UPDATE records SET
    filename = ?, original_name = ?, display_title = ?, audio_path = ?,
    stage = ?, raw_transcript = ?, edited_transcript = ?, action_items = ?,
    minutes_path = ?, updated_at = ?
WHERE id = ?`,
		working.Filename, working.OriginalName, working.DisplayTitle,
		working.AudioPath, string(working.Stage), working.RawTranscript,
		working.EditedTranscript, actions, working.MinutesPath,
		working.UpdatedAt.Format(time.RFC3339Nano), working.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update record: %w", err)
	}
	return working, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecord+" ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecordRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (map[Stage]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT stage, COUNT(*) FROM records GROUP BY stage")
	if err != nil {
		return nil, fmt.Errorf("stat records: %w", err)
	}
	defer rows.Close()

	stats := make(map[Stage]int, len(stageRank))
	for rows.Next() {
		var raw string
		var count int
		if err := rows.Scan(&raw, &count); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stage, err := ParseStage(raw)
		if err != nil {
			return nil, err
		}
		stats[stage] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stat records: %w", err)
	}
	return stats, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const selectRecord = `
SELECT id, filename, original_name, display_title, audio_path, stage,
       raw_transcript, edited_transcript, action_items, minutes_path,
       created_at, updated_at
FROM records`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row *sql.Row) (*Record, error) {
	rec, err := scanRecordRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func scanRecordRow(row rowScanner) (*Record, error) {
	var (
		rec        Record
		stage      string
		actions    sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := row.Scan(
		&rec.ID, &rec.Filename, &rec.OriginalName, &rec.DisplayTitle,
		&rec.AudioPath, &stage, &rec.RawTranscript, &rec.EditedTranscript,
		&actions, &rec.MinutesPath, &createdRaw, &updatedRaw,
	); err != nil {
		return nil, err
	}

	parsedStage, err := ParseStage(stage)
	if err != nil {
		return nil, err
	}
	rec.Stage = parsedStage

	if actions.Valid {
		if err := json.Unmarshal([]byte(actions.String), &rec.ActionItems); err != nil {
			return nil, fmt.Errorf("decode action items: %w", err)
		}
		if rec.ActionItems == nil {
			rec.ActionItems = []string{}
		}
	}

	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdRaw); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedRaw); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &rec, nil
}

// marshalActions keeps the nil/empty distinction: nil means actions
// were never computed, an empty slice means extraction ran and found
// nothing.
func marshalActions(items []string) (any, error) {
	if items == nil {
		return nil, nil
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode action items: %w", err)
	}
	return string(payload), nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) {
		// SQLITE_CONSTRAINT and its extended codes share the low byte 19.
		return coder.Code()&0xff == 19
	}
	return false
}
