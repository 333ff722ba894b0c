package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/painelbi/painelbi/report"
)

// ============================================================================
// HISTORY STORE — Persisted analysis results
// ============================================================================
// Each saved analysis is one row: light metadata for listing plus the full
// result JSON for reload. A new upload appends; nothing is ever patched.
// ============================================================================

// ErrNotFound is returned when no analysis exists for an id.
var ErrNotFound = errors.New("analysis not found")

// Item is the listing view of a saved analysis — metadata only, no payload.
type Item struct {
	ID         string            `json:"id"`
	CreatedAt  time.Time         `json:"timestamp"`
	FileName   string            `json:"fileName"`
	ReportName string            `json:"reportName"`
	ReportType report.ReportType `json:"reportType"`
}

// Store persists analyses in SQLite.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id          TEXT PRIMARY KEY,
	created_at  TEXT NOT NULL,
	file_name   TEXT NOT NULL,
	report_name TEXT NOT NULL,
	report_type TEXT NOT NULL,
	result      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses (created_at DESC);
`

// Open creates or opens the store at path (":memory:" works for tests).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Save persists an analysis result and returns its listing item.
func (s *Store) Save(ctx context.Context, fileName string, res *report.AnalysisResult) (Item, error) {
	payload, err := json.Marshal(res)
	if err != nil {
		return Item{}, fmt.Errorf("failed to encode analysis: %w", err)
	}

	item := Item{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		FileName:   fileName,
		ReportName: res.ReportName,
		ReportType: res.ReportType,
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, created_at, file_name, report_name, report_type, result)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		item.ID, item.CreatedAt.Format(time.RFC3339Nano),
		item.FileName, item.ReportName, string(item.ReportType), string(payload))
	if err != nil {
		return Item{}, fmt.Errorf("failed to save analysis: %w", err)
	}
	return item, nil
}

// List returns saved analyses, newest first.
func (s *Store) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, file_name, report_name, report_type
		 FROM analyses ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var createdAt, reportType string
		if err := rows.Scan(&it.ID, &createdAt, &it.FileName, &it.ReportName, &reportType); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		it.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		it.ReportType = report.ReportType(reportType)
		items = append(items, it)
	}
	return items, rows.Err()
}

// Get loads a full analysis result by id.
func (s *Store) Get(ctx context.Context, id string) (*report.AnalysisResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT result FROM analyses WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis %s: %w", id, err)
	}

	var res report.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return nil, fmt.Errorf("failed to decode analysis %s: %w", id, err)
	}
	return &res, nil
}

// Delete removes a saved analysis.
func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
