package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jeffreysprompts/jfp/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driven"
	"github.com/jeffreysprompts/jfp/internal/logger"
)

// SchemaVersion is the schema generation produced by the embedded migrations.
// Bump it together with a new migration file.
const SchemaVersion = 2

// dsnPragmas are applied by the driver to every pooled connection.
const dsnPragmas = "?_pragma=journal_mode(WAL)" +
	"&_pragma=busy_timeout(5000)" +
	"&_pragma=foreign_keys(1)" +
	"&_txlock=immediate"

// gooseMu serialises goose's package-level configuration.
var gooseMu sync.Mutex

// Ensure Store implements the interfaces.
var (
	_ driven.PromptStore           = (*Store)(nil)
	_ driven.PromptStoreMaintainer = (*Store)(nil)
)

// Store is the SQLite-backed prompt store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the store at dbPath, creating parent directories
// and applying pending migrations. Failures are returned as *domain.StoreOpenError.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, &domain.StoreOpenError{Path: dbPath, Err: errors.New("empty database path")}
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, &domain.StoreOpenError{Path: dbPath, Err: fmt.Errorf("creating data directory: %w", err)}
	}

	db, err := sql.Open("sqlite", dbPath+dsnPragmas)
	if err != nil {
		return nil, &domain.StoreOpenError{Path: dbPath, Err: fmt.Errorf("opening database: %w", err)}
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(context.Background(), migrations.FS); err != nil {
		db.Close()
		return nil, &domain.StoreOpenError{Path: dbPath, Err: fmt.Errorf("running migrations: %w", err)}
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies pending migrations and records the schema marker.
// Databases created before version tracking are upgraded in place.
func (s *Store) migrate(ctx context.Context, fsys fs.FS) error {
	if previous := s.storedSchemaVersion(ctx); previous < SchemaVersion {
		logger.Debug("migrating store schema from version %d to %d", previous, SchemaVersion)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(fsys)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, s.db, "."); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, s.db)
	if err != nil {
		return fmt.Errorf("reading migration version: %w", err)
	}
	return s.SetMeta(ctx, domain.MetaSchemaVersion, strconv.FormatInt(version, 10))
}

// storedSchemaVersion reads the schema marker, returning 0 for a new or
// unmarked database.
func (s *Store) storedSchemaVersion(ctx context.Context) int {
	value, ok, err := s.GetMeta(ctx, domain.MetaSchemaVersion)
	if err != nil || !ok {
		return 0
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return v
}

// SchemaVersion returns the recorded schema marker.
func (s *Store) SchemaVersion(ctx context.Context) int {
	return s.storedSchemaVersion(ctx)
}

// GetMeta reads a bookkeeping value.
func (s *Store) GetMeta(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM registry_meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting meta %q: %w", key, err)
	}
	return value, true, nil
}

// SetMeta writes a bookkeeping value.
func (s *Store) SetMeta(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO registry_meta (key, value) VALUES (?, ?)", key, value)
	if err != nil {
		return &domain.StoreWriteError{Op: "set meta", ID: key, Err: err}
	}
	return nil
}

// IntegrityCheck runs SQLite's structural self-check.
func (s *Store) IntegrityCheck(ctx context.Context) (bool, error) {
	var result string
	if err := s.db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return false, fmt.Errorf("running integrity check: %w", err)
	}
	return result == "ok", nil
}

// Checkpoint folds the write-ahead log into the main database file.
func (s *Store) Checkpoint(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("checkpointing WAL: %w", err)
	}
	return nil
}

// nullString converts an empty string to NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// boolToInt converts a bool to the integer SQLite stores.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
