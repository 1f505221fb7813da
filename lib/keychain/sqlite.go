package keychain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "embed"
)

//go:embed db/schema.sql
var Schema string

// SqliteStore keeps secrets in the `secret` table of a sqlite or libsql
// database.
type SqliteStore struct {
	db *sql.DB
}

// NewSqliteStore applies the schema if it doesn't exist yet.
func NewSqliteStore(ctx context.Context, db *sql.DB) (SqliteStore, error) {
	_, err := db.ExecContext(ctx, Schema)
	if err != nil {
		return SqliteStore{}, fmt.Errorf("apply keychain schema: %w", err)
	}
	return SqliteStore{db: db}, nil
}

func (s SqliteStore) Get(ctx context.Context, name string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "select value from secret where name = ?", name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s SqliteStore) Set(ctx context.Context, name, value string) error {
	_, err := s.db.ExecContext(
		ctx,
		"insert into secret(name, value) values (?, ?) on conflict(name) do update set value = excluded.value",
		name, value,
	)
	return err
}
