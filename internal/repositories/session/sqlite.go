package session

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/KirkDiggler/rpg-session/internal/errors"
	"github.com/KirkDiggler/rpg-session/internal/pkg/clock"
)

const createSessionsTable = `CREATE TABLE IF NOT EXISTS sessions (
	storage_key TEXT PRIMARY KEY,
	document    TEXT NOT NULL,
	updated_at  INTEGER NOT NULL
)`

// SQLiteConfig holds the configuration for the SQLite repository
type SQLiteConfig struct {
	Path  string
	Clock clock.Clock
}

// Validate ensures all required settings are provided
func (c *SQLiteConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("Path", c.Path, vb)
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}

	return vb.Build()
}

// SQLiteRepository stores the session document in a single-table SQLite
// database file
type SQLiteRepository struct {
	db    *sql.DB
	clock clock.Clock
}

var _ Repository = (*SQLiteRepository)(nil)

// NewSQLiteRepository opens (creating if needed) the database at cfg.Path
func NewSQLiteRepository(ctx context.Context, cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	dsn := filepath.Clean(strings.TrimSpace(cfg.Path)) +
		"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to open sqlite database")
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to ping sqlite database")
	}

	if _, err := db.ExecContext(ctx, createSessionsTable); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create sessions table")
	}

	return &SQLiteRepository{db: db, clock: cfg.Clock}, nil
}

// Close releases the database handle
func (r *SQLiteRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Load retrieves the session stored under the key
func (r *SQLiteRepository) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	key := keyOrDefault(input.Key)

	var document string
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM sessions WHERE storage_key = ?`,
		key,
	).Scan(&document)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFoundf("no session stored under %q", key)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read session")
	}

	return decodeStored(key, []byte(document))
}

// Save upserts the session under the key
func (r *SQLiteRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	data, err := encodeSession(input)
	if err != nil {
		return nil, err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (storage_key, document, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(storage_key) DO UPDATE SET
		    document = excluded.document,
		    updated_at = excluded.updated_at`,
		keyOrDefault(input.Key), string(data), clock.Millis(r.clock.Now()),
	)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to write session")
	}

	return &SaveOutput{Bytes: len(data)}, nil
}
