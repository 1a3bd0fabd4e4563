package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // cgo SQLite driver ("sqlite3")
	_ "modernc.org/sqlite"          // pure-Go SQLite driver ("sqlite")
)

const (
	// DriverModernc selects modernc.org/sqlite.
	DriverModernc = "sqlite"

	// DriverMattn selects github.com/mattn/go-sqlite3 (requires cgo).
	DriverMattn = "sqlite3"
)

// SQLiteConfig contains configuration for the SQLite store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// Driver is the database/sql driver name: "sqlite" or "sqlite3".
	// Default: "sqlite"
	Driver string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 1 (SQLite supports a single writer)
	MaxOpenConns int

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// Logger receives store diagnostics. Default: slog.Default()
	Logger *slog.Logger
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/rules.db",
		Driver:       DriverModernc,
		MaxOpenConns: 1,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteStore implements Store using SQLite in WAL mode.
type SQLiteStore struct {
	db        *sql.DB
	config    *SQLiteConfig
	logger    *slog.Logger
	closeOnce sync.Once

	insertStmt    *sql.Stmt
	getStmt       *sql.Stmt
	getByNameStmt *sql.Stmt
	listStmt      *sql.Stmt
	deleteStmt    *sql.Stmt
	countStmt     *sql.Stmt
}

// NewSQLiteStore opens (creating if needed) a SQLite rule database.
func NewSQLiteStore(config *SQLiteConfig) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	cfg := *config
	if cfg.Path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverModernc
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 1
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "store.sqlite")

	dsn, err := buildDSN(cfg.Driver, cfg.Path, cfg.BusyTimeout)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{
		db:     db,
		config: &cfg,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	if err := s.prepareStatements(); err != nil {
		s.closeStatements()
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	logger.Info("SQLite store initialized",
		"path", cfg.Path,
		"driver", cfg.Driver,
		"max_open_conns", cfg.MaxOpenConns,
	)

	return s, nil
}

// buildDSN encodes WAL mode and the busy timeout in each driver's syntax so
// that every pooled connection gets them.
func buildDSN(driver, path string, busyTimeout time.Duration) (string, error) {
	ms := busyTimeout.Milliseconds()
	switch driver {
	case DriverModernc:
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
			path, ms), nil
	case DriverMattn:
		return fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_synchronous=NORMAL", path, ms), nil
	default:
		return "", fmt.Errorf("unsupported sqlite driver %q (want %q or %q)", driver, DriverModernc, DriverMattn)
	}
}

// initialize creates the schema and checks its version.
func (s *SQLiteStore) initialize() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	var version int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	switch version {
	case 0:
		if _, err := s.db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, SchemaVersion)); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}
	case SchemaVersion:
	default:
		return fmt.Errorf("schema version mismatch: expected %d, got %d", SchemaVersion, version)
	}

	s.logger.Debug("schema version verified", "version", SchemaVersion)
	return nil
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteStore) prepareStatements() error {
	stmts := []struct {
		dst   **sql.Stmt
		query string
		name  string
	}{
		{&s.insertStmt, insertRuleSQL, "insert"},
		{&s.getStmt, getRuleSQL, "get"},
		{&s.getByNameStmt, getRuleByNameSQL, "get by name"},
		{&s.listStmt, listRulesSQL, "list"},
		{&s.deleteStmt, deleteRuleSQL, "delete"},
		{&s.countStmt, countRulesSQL, "count"},
	}

	for _, st := range stmts {
		stmt, err := s.db.Prepare(st.query)
		if err != nil {
			return fmt.Errorf("failed to prepare %s statement: %w", st.name, err)
		}
		*st.dst = stmt
	}
	return nil
}

// Create persists rule.
func (s *SQLiteStore) Create(ctx context.Context, rule *Rule) (string, error) {
	tree, err := prepare(rule)
	if err != nil {
		return "", err
	}

	_, err = s.insertStmt.ExecContext(ctx,
		rule.ID,
		rule.Name,
		rule.RuleString,
		string(tree),
		rule.CreatedAt.UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert rule: %w", err)
	}

	s.logger.Debug("rule stored", "id", rule.ID, "name", rule.Name)
	return rule.ID, nil
}

// Get returns the rule with the given id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Rule, error) {
	rule, err := scanRule(s.getStmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return rule, nil
}

// GetByName returns the oldest rule with the given name.
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (*Rule, error) {
	rule, err := scanRule(s.getByNameStmt.QueryRowContext(ctx, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule by name: %w", err)
	}
	return rule, nil
}

// List returns all rules in creation order.
func (s *SQLiteStore) List(ctx context.Context) ([]*Rule, error) {
	rows, err := s.listStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	defer rows.Close()

	var rules []*Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return rules, nil
}

// Delete removes the rule with the given id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.deleteStmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if deleted == 0 {
		return notFound(id)
	}
	return nil
}

// Count returns the number of stored rules.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.countStmt.QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count rules: %w", err)
	}
	return n, nil
}

// Checkpoint copies the write-ahead log into the database file and truncates it.
func (s *SQLiteStore) Checkpoint(ctx context.Context) error {
	var busy, logFrames, checkpointed int
	if err := s.db.QueryRowContext(ctx, checkpointSQL).Scan(&busy, &logFrames, &checkpointed); err != nil {
		return fmt.Errorf("failed to checkpoint: %w", err)
	}
	s.logger.Debug("wal checkpoint completed",
		"busy", busy,
		"log_frames", logFrames,
		"checkpointed_frames", checkpointed,
	)
	return nil
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database. Close is idempotent.
func (s *SQLiteStore) Close() error {
	var closeErr error
	s.closeOnce.Do(func() {
		s.closeStatements()
		closeErr = s.db.Close()
		s.logger.Info("SQLite store closed")
	})
	return closeErr
}

func (s *SQLiteStore) closeStatements() {
	for _, stmt := range []*sql.Stmt{s.insertStmt, s.getStmt, s.getByNameStmt, s.listStmt, s.deleteStmt, s.countStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
}

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*Rule, error) {
	var (
		id, name, ruleString, tree string
		createdAt                  int64
	)
	if err := row.Scan(&id, &name, &ruleString, &tree, &createdAt); err != nil {
		return nil, err
	}
	return decode(id, name, ruleString, []byte(tree), time.Unix(0, createdAt).UTC())
}
