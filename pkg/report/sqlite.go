package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const sqliteBackend = "sqlite"

// SQLiteStore keeps reports in a SQLite database file.
type SQLiteStore struct {
	db        *sql.DB
	path      string
	logger    *slog.Logger
	closeOnce sync.Once
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, NewStorageError(sqliteBackend, "open", fmt.Errorf("database path cannot be empty"))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, NewStorageError(sqliteBackend, "open", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, NewStorageError(sqliteBackend, "open", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:     db,
		path:   path,
		logger: slog.Default().With("component", "report.sqlite"),
	}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("report store opened", "path", path)
	return s, nil
}

func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return NewStorageError(sqliteBackend, "enable_wal", err)
	}
	if _, err := s.db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		return NewStorageError(sqliteBackend, "set_busy_timeout", err)
	}
	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError(sqliteBackend, "create_schema", err)
	}
	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return NewStorageError(sqliteBackend, "insert_schema_version", err)
	}

	var version int
	if err := s.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return NewStorageError(sqliteBackend, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return NewStorageError(sqliteBackend, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	return nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, r *Report) error {
	counts, err := json.Marshal(r.ErrorCounts)
	if err != nil {
		return NewStorageError(sqliteBackend, "save", err)
	}
	files, err := json.Marshal(r.Files)
	if err != nil {
		return NewStorageError(sqliteBackend, "save", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO reports (
			id, started_at, duration_ms, trigger_name, root, git_url, git_commit,
			total_files, failed_files, rules, queries, functions, declared_types,
			error_count, error_counts, files
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UnixNano(), r.Duration.Milliseconds(), r.Trigger, r.Root,
		nullable(r.GitURL), nullable(r.GitCommit),
		r.TotalFiles, r.FailedFiles, r.Rules, r.Queries, r.Functions, r.DeclaredTypes,
		r.ErrorCount, string(counts), string(files),
	)
	if err != nil {
		return NewStorageError(sqliteBackend, "save", err)
	}
	return nil
}

const selectReport = `
	SELECT id, started_at, duration_ms, trigger_name, root, git_url, git_commit,
	       total_files, failed_files, rules, queries, functions, declared_types,
	       error_count, error_counts, files
	FROM reports`

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Report, error) {
	row := s.db.QueryRowContext(ctx, selectReport+" WHERE id = ?", id)
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, NewStorageError(sqliteBackend, "get", err)
	}
	return r, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]*Report, error) {
	query := selectReport + " ORDER BY started_at DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, NewStorageError(sqliteBackend, "list", err)
	}
	defer rows.Close()

	reports := []*Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, NewStorageError(sqliteBackend, "scan", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError(sqliteBackend, "list", err)
	}
	return reports, nil
}

// Prune implements Store.
func (s *SQLiteStore) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reports WHERE started_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, NewStorageError(sqliteBackend, "prune", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, NewStorageError(sqliteBackend, "prune", err)
	}
	return n, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.db.Close()
	})
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*Report, error) {
	var (
		r                 Report
		startedAt         int64
		durationMs        int64
		gitURL, gitCommit sql.NullString
		counts, files     sql.NullString
	)
	err := row.Scan(
		&r.ID, &startedAt, &durationMs, &r.Trigger, &r.Root, &gitURL, &gitCommit,
		&r.TotalFiles, &r.FailedFiles, &r.Rules, &r.Queries, &r.Functions, &r.DeclaredTypes,
		&r.ErrorCount, &counts, &files,
	)
	if err != nil {
		return nil, err
	}

	r.StartedAt = time.Unix(0, startedAt).UTC()
	r.Duration = time.Duration(durationMs) * time.Millisecond
	r.GitURL = gitURL.String
	r.GitCommit = gitCommit.String
	r.ErrorCounts = make(map[string]int)
	if counts.Valid && counts.String != "" {
		if err := json.Unmarshal([]byte(counts.String), &r.ErrorCounts); err != nil {
			return nil, fmt.Errorf("decode error counts: %w", err)
		}
	}
	if files.Valid && files.String != "" && files.String != "null" {
		if err := json.Unmarshal([]byte(files.String), &r.Files); err != nil {
			return nil, fmt.Errorf("decode files: %w", err)
		}
	}
	return &r, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
