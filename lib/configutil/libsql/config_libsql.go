package configlibsql

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

type Struct struct {
	// either a local sqlite file or a libsql://, http(s):// url
	File string `json:"file"`
	// only used for remote databases
	AuthToken string `json:"auth_token"`
}

func (config Struct) IsRemote() bool {
	for _, prefix := range []string{"libsql://", "http://", "https://", "wss://", "ws://"} {
		if strings.HasPrefix(config.File, prefix) {
			return true
		}
	}
	return false
}

func (config Struct) OpenDB() (*sql.DB, error) {
	if config.File == "" {
		return nil, fmt.Errorf("a path was not specified")
	}

	if config.IsRemote() {
		dsn := config.File
		if config.AuthToken != "" {
			dsn = fmt.Sprintf("%s?authToken=%s", dsn, config.AuthToken)
		}
		return sql.Open("libsql", dsn)
	}

	db, err := sql.Open("sqlite", config.File)
	if err != nil {
		return nil, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	db.SetMaxOpenConns(1)
	if config.File != ":memory:" {
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
