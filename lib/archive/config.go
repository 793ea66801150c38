package archive

import (
	devenv "autocamp/dev/env"
	"database/sql"
	"net/url"

	"github.com/pkg/errors"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Config points at either a local sqlite file or a remote libsql database.
type Config struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (c Config) Enabled() bool {
	return c.File != "" || c.Url != ""
}

func (c Config) OpenDB() (*sql.DB, error) {
	if c.Url == "" {
		if c.File == "" {
			return nil, errors.New("archive needs either a file or a url")
		}
		path, err := devenv.ResolvePath(c.File)
		if err != nil {
			return nil, err
		}
		db, err := sql.Open("sqlite", path)
		if err != nil {
			return nil, err
		}
		// sqlite only allows one writer at a time
		db.SetMaxOpenConns(1)
		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	}

	values := url.Values{}
	if c.AuthToken != "" {
		values.Add("authToken", c.AuthToken)
	}
	dsn := c.Url
	if len(values) > 0 {
		dsn += "?" + values.Encode()
	}
	return sql.Open("libsql", dsn)
}
