package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	"github.com/ortelius/orgmap-backend/model"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // register sqlite as a database/sql driver
)

// The overlay document lives in a single row
const overlayRowID = 1

type sqlDialect struct {
	driver    string
	jsonType  string
	timeType  string
	argFormat func(n int) string
}

var postgresDialect = sqlDialect{
	driver:    "pgx",
	jsonType:  "JSONB",
	timeType:  "TIMESTAMPTZ",
	argFormat: func(n int) string { return fmt.Sprintf("$%d", n) },
}

var sqliteDialect = sqlDialect{
	driver:    "sqlite",
	jsonType:  "TEXT",
	timeType:  "TEXT",
	argFormat: func(int) string { return "?" },
}

// SQLStore persists the overlay document in a SQL table keyed by id
type SQLStore struct {
	db      *sql.DB
	table   string
	dialect sqlDialect
}

// NewPostgresStore opens a Postgres-backed overlay store
func NewPostgresStore(ctx context.Context, dsn, table string, logger *zap.Logger) (*SQLStore, error) {
	return openSQLStore(ctx, postgresDialect, dsn, table, logger)
}

// NewSQLiteStore opens a SQLite-backed overlay store
func NewSQLiteStore(ctx context.Context, path, table string, logger *zap.Logger) (*SQLStore, error) {
	return openSQLStore(ctx, sqliteDialect, path, table, logger)
}

func openSQLStore(ctx context.Context, dialect sqlDialect, dsn, table string, logger *zap.Logger) (*SQLStore, error) {
	if err := validateIdentifier(table); err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.driver, err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 15 * time.Second
	bo.MaxElapsedTime = time.Minute

	err = backoff.RetryNotify(func() error {
		return db.PingContext(ctx)
	}, backoff.WithContext(bo, ctx), func(err error, wait time.Duration) {
		logger.Warn("Retrying overlay database connection", zap.String("driver", dialect.driver), zap.Duration("wait", wait), zap.Error(err))
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.driver, err)
	}

	store := &SQLStore{db: db, table: table, dialect: dialect}
	if err := store.ensureTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLStore) ensureTable(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY,
		state_data %s NOT NULL,
		updated_at %s NOT NULL
	)`, s.table, s.dialect.jsonType, s.dialect.timeType)
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure overlay table: %w", err)
	}
	return nil
}

// Load reads the overlay row; a missing row is an empty overlay
func (s *SQLStore) Load(ctx context.Context) (model.OverlayState, error) {
	payload, err := s.payload(ctx)
	if err != nil {
		return model.NewOverlayState(), err
	}
	return DecodeState(payload)
}

// payload returns the stored document, nil when the row does not exist
func (s *SQLStore) payload(ctx context.Context) ([]byte, error) {
	query := fmt.Sprintf(`SELECT state_data FROM %s WHERE id = %s`, s.table, s.dialect.argFormat(1))

	var payload string
	err := s.db.QueryRowContext(ctx, query, overlayRowID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select overlay: %w", err)
	}
	return []byte(payload), nil
}

// Save upserts the overlay row unless the stored one has an incompatible schema version
func (s *SQLStore) Save(ctx context.Context, state model.OverlayState) error {
	data, err := EncodeState(state)
	if err != nil {
		return err
	}

	existing, err := s.payload(ctx)
	if err != nil {
		return err
	}
	if err := guardOverwrite(existing); err != nil {
		return err
	}

	stmt := fmt.Sprintf(`INSERT INTO %s (id, state_data, updated_at) VALUES (%s, %s, %s)
		ON CONFLICT (id) DO UPDATE SET state_data = excluded.state_data, updated_at = excluded.updated_at`,
		s.table, s.dialect.argFormat(1), s.dialect.argFormat(2), s.dialect.argFormat(3))

	updatedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, stmt, overlayRowID, string(data), updatedAt); err != nil {
		return fmt.Errorf("upsert overlay: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool
func (s *SQLStore) Close() error {
	return s.db.Close()
}
