package keychain

import (
	"context"
	"errors"
	"fmt"
	configlibsql "usydrc/lib/configutil/libsql"
)

var ErrNotFound = errors.New("secret not found")

// secret names
const (
	UniPassword   = "unipass"
	EmailPassword = "emailpass"
)

type CredentialStore interface {
	Get(ctx context.Context, name string) (string, error)
	Set(ctx context.Context, name, value string) error
}

const (
	BackendFile   = "file"
	BackendSqlite = "sqlite"
)

type Config struct {
	// "file" or "sqlite"
	Backend   string `json:"backend"`
	File      string `json:"file"`
	AuthToken string `json:"auth_token"`
}

// Open returns the credential store a config names along with a function
// that releases its resources.
func Open(ctx context.Context, config Config) (CredentialStore, func(), error) {
	switch config.Backend {
	case "", BackendFile:
		if config.File == "" {
			return nil, nil, fmt.Errorf("credentials file was not specified")
		}
		return NewFileStore(config.File), func() {}, nil
	case BackendSqlite:
		db, err := configlibsql.Struct{
			File:      config.File,
			AuthToken: config.AuthToken,
		}.OpenDB()
		if err != nil {
			return nil, nil, err
		}
		store, err := NewSqliteStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown credentials backend %q", config.Backend)
}
