package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"           // postgres driver
	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

// SQL dialects understood by NewSQLStorage.
const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "postgres"
)

type sqlStorage struct {
	db      *sql.DB
	dialect string
}

// OpenSQL opens and pings a database for the given dialect.
func OpenSQL(ctx context.Context, dialect, dsn string) (*sql.DB, error) {
	switch dialect {
	case DialectSQLite, DialectPostgres:
	default:
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dialect == DialectSQLite {
		// One writer keeps sqlite from returning SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// NewSQLStorage creates the client_storage table if needed and returns a Storage on it.
func NewSQLStorage(ctx context.Context, db *sql.DB, dialect string) (Storage, error) {
	s := &sqlStorage{db: db, dialect: dialect}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *sqlStorage) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS client_storage (
			namespace  VARCHAR(128) NOT NULL,
			item_key   VARCHAR(128) NOT NULL,
			item_value TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (namespace, item_key)
		)`)
	if err != nil {
		return fmt.Errorf("migrate client_storage: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders into $n for postgres.
func (s *sqlStorage) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStorage) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT item_value FROM client_storage WHERE namespace = ? AND item_key = ?`),
		namespace, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", namespace, key, err)
	}
	return []byte(value), nil
}

func (s *sqlStorage) Put(ctx context.Context, namespace, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO client_storage (namespace, item_key, item_value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (namespace, item_key)
		DO UPDATE SET item_value = excluded.item_value, updated_at = CURRENT_TIMESTAMP`),
		namespace, key, string(value),
	)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", namespace, key, err)
	}
	return nil
}

func (s *sqlStorage) Delete(ctx context.Context, namespace, key string) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind(`DELETE FROM client_storage WHERE namespace = ? AND item_key = ?`),
		namespace, key,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", namespace, key, err)
	}
	return nil
}
