// Package history implements the content-addressed clipboard history store.
//
// Records live in a single SQLite table keyed by the content identity of
// their value, so capturing the same text twice refreshes one row instead
// of adding another.
package history

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HendryAvila/clipvault/internal/clip"
	"golang.org/x/text/cases"
	"modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Error classes. Wrapped errors keep the driver error for context and
// match these with errors.Is.
var (
	ErrStoreOpen  = errors.New("history: store open failed")
	ErrStoreWrite = errors.New("history: store write failed")
	ErrStoreQuery = errors.New("history: store query failed")
	ErrNotFound   = errors.New("history: clip not found")
)

// casefoldFunc is the SQL function used for case-insensitive matching.
const casefoldFunc = "casefold"

// A Caser is stateful, so each call builds its own.
func init() {
	err := sqlite.RegisterDeterministicScalarFunction(casefoldFunc, 1,
		func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case string:
				return cases.Fold().String(v), nil
			case []byte:
				return cases.Fold().String(string(v)), nil
			case nil:
				return nil, nil
			default:
				return fmt.Sprint(v), nil
			}
		})
	if err != nil {
		panic(fmt.Sprintf("history: register %s: %v", casefoldFunc, err))
	}
}

// ─── Types ───────────────────────────────────────────────────────────────────

// SearchOptions holds filters for Search.
type SearchOptions struct {
	Source string `json:"source,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// SourceCount is the number of clips captured from one source.
type SourceCount struct {
	Source string `json:"source"`
	Clips  int    `json:"clips"`
}

// Stats holds aggregate history statistics.
type Stats struct {
	TotalClips int           `json:"total_clips"`
	TotalBytes int64         `json:"total_bytes"`
	Oldest     int64         `json:"oldest,omitempty"`
	Newest     int64         `json:"newest,omitempty"`
	Sources    []SourceCount `json:"sources"`
}

// ExportData is the full serializable dump of the history table.
type ExportData struct {
	Version    string        `json:"version"`
	ExportedAt string        `json:"exported_at"`
	Clips      []clip.Record `json:"clips"`
}

// ImportResult holds counts of an Import run.
type ImportResult struct {
	Applied int `json:"applied"`
	Stale   int `json:"stale"`
	Skipped int `json:"skipped"`
}

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds history store configuration.
type Config struct {
	DataDir      string
	DefaultLimit int
}

// DefaultLimit bounds listings when the caller gives no limit. It keeps
// rendering cheap; rows past it stay stored.
const DefaultLimit = 1000

// DefaultConfig returns the default configuration for the history store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir:      filepath.Join(home, ".clipvault"),
		DefaultLimit: DefaultLimit,
	}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store is the persistent clipboard history backed by SQLite.
// It is safe for concurrent use; SQLite serializes writers.
type Store struct {
	db    *sql.DB
	cfg   Config
	hooks storeHooks
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

type queryer interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type sqlRowScanner struct {
	rows *sql.Rows
}

func (r sqlRowScanner) Next() bool             { return r.rows.Next() }
func (r sqlRowScanner) Scan(dest ...any) error { return r.rows.Scan(dest...) }
func (r sqlRowScanner) Err() error             { return r.rows.Err() }
func (r sqlRowScanner) Close() error           { return r.rows.Close() }

type storeHooks struct {
	exec    func(db execer, query string, args ...any) (sql.Result, error)
	queryIt func(db queryer, query string, args ...any) (rowScanner, error)
	beginTx func(db *sql.DB) (*sql.Tx, error)
	commit  func(tx *sql.Tx) error
}

func defaultStoreHooks() storeHooks {
	return storeHooks{
		exec: func(db execer, query string, args ...any) (sql.Result, error) {
			return db.Exec(query, args...)
		},
		queryIt: func(db queryer, query string, args ...any) (rowScanner, error) {
			rows, err := db.Query(query, args...)
			if err != nil {
				return nil, err
			}
			return sqlRowScanner{rows: rows}, nil
		},
		beginTx: func(db *sql.DB) (*sql.Tx, error) {
			return db.Begin()
		},
		commit: func(tx *sql.Tx) error {
			return tx.Commit()
		},
	}
}

func (s *Store) execHook(db execer, query string, args ...any) (sql.Result, error) {
	if s.hooks.exec != nil {
		return s.hooks.exec(db, query, args...)
	}
	return db.Exec(query, args...)
}

func (s *Store) queryItHook(db queryer, query string, args ...any) (rowScanner, error) {
	if s.hooks.queryIt != nil {
		return s.hooks.queryIt(db, query, args...)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRowScanner{rows: rows}, nil
}

func (s *Store) beginTxHook() (*sql.Tx, error) {
	if s.hooks.beginTx != nil {
		return s.hooks.beginTx(s.db)
	}
	return s.db.Begin()
}

func (s *Store) commitHook(tx *sql.Tx) error {
	if s.hooks.commit != nil {
		return s.hooks.commit(tx)
	}
	return tx.Commit()
}

// New creates a new Store with the given configuration.
// It creates the data directory if needed, opens SQLite with WAL mode,
// and runs migrations. Every failure wraps ErrStoreOpen.
func New(cfg Config) (*Store, error) {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = DefaultLimit
	}
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: create data dir: %w", ErrStoreOpen, err)
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := filepath.Join(cfg.DataDir, "history.db") +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := openDB("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %w", ErrStoreOpen, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping database: %w", ErrStoreOpen, err)
	}

	s := &Store{db: db, cfg: cfg, hooks: defaultStoreHooks()}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migration: %w", ErrStoreOpen, err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return filepath.Join(s.cfg.DataDir, "history.db")
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS history (
			timestamp INTEGER NOT NULL,
			value     TEXT    NOT NULL,
			source    TEXT    NOT NULL DEFAULT '',
			identity  TEXT    PRIMARY KEY
		);

		CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp DESC);
		CREATE INDEX IF NOT EXISTS idx_history_source    ON history(source);
	`
	if _, err := s.execHook(s.db, schema); err != nil {
		return err
	}

	_, _ = s.execHook(s.db, `UPDATE history SET source = '' WHERE source IS NULL`) // best-effort migration cleanup
	return nil
}

// ─── Writes ──────────────────────────────────────────────────────────────────

// upsertSQL refreshes timestamp and source of an existing identity, but
// never moves a row back in time: the later capture always wins.
const upsertSQL = `
	INSERT INTO history (timestamp, value, source, identity)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(identity) DO UPDATE
	SET timestamp = excluded.timestamp,
	    source    = excluded.source
	WHERE excluded.timestamp >= history.timestamp`

// Upsert inserts rec, or refreshes CapturedAt and Source of the row that
// already holds rec.Identity.
func (s *Store) Upsert(rec clip.Record) error {
	if _, err := s.execHook(s.db, upsertSQL,
		rec.CapturedAt, rec.Value, rec.Source, rec.Identity,
	); err != nil {
		return fmt.Errorf("%w: upsert %s: %w", ErrStoreWrite, rec.Identity, err)
	}
	return nil
}

// Delete removes the clip with the given identity.
func (s *Store) Delete(identity string) error {
	res, err := s.execHook(s.db, `DELETE FROM history WHERE identity = ?`, identity)
	if err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrStoreWrite, identity, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, identity)
	}
	return nil
}

// ─── Queries ─────────────────────────────────────────────────────────────────

const selectColumns = `SELECT timestamp, value, source, identity FROM history`

// ListRecent returns clips newest first, truncated to limit.
// A limit <= 0 uses the configured default.
func (s *Store) ListRecent(limit int) ([]clip.Record, error) {
	clips, err := s.queryClips(
		selectColumns+` ORDER BY timestamp DESC, identity LIMIT ?`,
		s.effectiveLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list recent: %w", ErrStoreQuery, err)
	}
	return clips, nil
}

// Search returns clips whose value contains term, ignoring case, newest
// first. A non-empty opts.Source restricts results to that exact source.
// A blank term with no source filter is the same as ListRecent.
func (s *Store) Search(term string, opts SearchOptions) ([]clip.Record, error) {
	blankTerm := clip.IsBlank(term)
	source := strings.TrimSpace(opts.Source)
	if blankTerm && source == "" {
		return s.ListRecent(opts.Limit)
	}

	query := selectColumns + ` WHERE 1=1`
	var args []any

	if !blankTerm {
		query += ` AND instr(` + casefoldFunc + `(value), ` + casefoldFunc + `(?)) > 0`
		args = append(args, term)
	}
	if source != "" {
		query += ` AND source = ?`
		args = append(args, source)
	}

	query += ` ORDER BY timestamp DESC, identity LIMIT ?`
	args = append(args, s.effectiveLimit(opts.Limit))

	clips, err := s.queryClips(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %w", ErrStoreQuery, err)
	}
	return clips, nil
}

// Get returns the clip with the given identity.
func (s *Store) Get(identity string) (*clip.Record, error) {
	var r clip.Record
	err := s.db.QueryRow(selectColumns+` WHERE identity = ?`, identity).
		Scan(&r.CapturedAt, &r.Value, &r.Source, &r.Identity)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, identity)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", ErrStoreQuery, identity, err)
	}
	return &r, nil
}

// DistinctSources returns every non-empty source label, sorted.
func (s *Store) DistinctSources() ([]string, error) {
	rows, err := s.queryItHook(s.db,
		`SELECT DISTINCT source FROM history WHERE source <> '' ORDER BY source`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: sources: %w", ErrStoreQuery, err)
	}
	defer func() { _ = rows.Close() }()

	var sources []string
	for rows.Next() {
		var src string
		if err := rows.Scan(&src); err != nil {
			return nil, fmt.Errorf("%w: sources: %w", ErrStoreQuery, err)
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: sources: %w", ErrStoreQuery, err)
	}
	return sources, nil
}

// Count returns the number of stored clips.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count: %w", ErrStoreQuery, err)
	}
	return n, nil
}

// ─── Stats ───────────────────────────────────────────────────────────────────

// Stats returns aggregate history statistics.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	var oldest, newest sql.NullInt64
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(LENGTH(CAST(value AS BLOB))), 0), MIN(timestamp), MAX(timestamp)
		FROM history`,
	).Scan(&stats.TotalClips, &stats.TotalBytes, &oldest, &newest)
	if err != nil {
		return nil, fmt.Errorf("%w: stats: %w", ErrStoreQuery, err)
	}
	stats.Oldest = oldest.Int64
	stats.Newest = newest.Int64

	rows, err := s.queryItHook(s.db,
		`SELECT source, COUNT(*) FROM history GROUP BY source ORDER BY COUNT(*) DESC, source`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: stats sources: %w", ErrStoreQuery, err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var sc SourceCount
		if err := rows.Scan(&sc.Source, &sc.Clips); err != nil {
			return nil, fmt.Errorf("%w: stats sources: %w", ErrStoreQuery, err)
		}
		stats.Sources = append(stats.Sources, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: stats sources: %w", ErrStoreQuery, err)
	}
	return stats, nil
}

// ─── Export / Import ─────────────────────────────────────────────────────────

// exportVersion tags the dump format.
const exportVersion = "1"

// Export dumps every clip, oldest first.
func (s *Store) Export() (*ExportData, error) {
	clips, err := s.queryClips(selectColumns + ` ORDER BY timestamp, identity`)
	if err != nil {
		return nil, fmt.Errorf("%w: export: %w", ErrStoreQuery, err)
	}
	return &ExportData{
		Version:    exportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Clips:      clips,
	}, nil
}

// Import loads exported clips in one transaction using the upsert rule,
// so an older dump never overrides newer captures. Identities are
// recomputed from values; blank values are skipped.
func (s *Store) Import(data *ExportData) (*ImportResult, error) {
	tx, err := s.beginTxHook()
	if err != nil {
		return nil, fmt.Errorf("%w: import: begin tx: %w", ErrStoreWrite, err)
	}
	defer func() { _ = tx.Rollback() }()

	result := &ImportResult{}
	for _, c := range data.Clips {
		if clip.IsBlank(c.Value) {
			result.Skipped++
			continue
		}
		res, err := s.execHook(tx, upsertSQL, c.CapturedAt, c.Value, c.Source, clip.Identity(c.Value))
		if err != nil {
			return nil, fmt.Errorf("%w: import %s: %w", ErrStoreWrite, c.Identity, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			result.Stale++
		} else {
			result.Applied++
		}
	}

	if err := s.commitHook(tx); err != nil {
		return nil, fmt.Errorf("%w: import: commit: %w", ErrStoreWrite, err)
	}
	return result, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func (s *Store) effectiveLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	return limit
}

func (s *Store) queryClips(query string, args ...any) ([]clip.Record, error) {
	rows, err := s.queryItHook(s.db, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []clip.Record
	for rows.Next() {
		var r clip.Record
		if err := rows.Scan(&r.CapturedAt, &r.Value, &r.Source, &r.Identity); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
