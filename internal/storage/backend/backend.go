// Package backend opens the storage.Store selected by a database URL.
package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage/postgres"
	"github.com/ismayilasim8-dot/Football-empire-bot/internal/storage/sqlite"
)

// Kind names a storage backend.
type Kind string

const (
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
)

// Resolve splits a database URL into its backend kind and the value passed
// to that backend. A bare path is treated as a SQLite file.
func Resolve(databaseURL string) (Kind, string, error) {
	url := strings.TrimSpace(databaseURL)
	switch {
	case url == "":
		return "", "", fmt.Errorf("database url is required")
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return KindPostgres, url, nil
	case strings.HasPrefix(url, "sqlite://"):
		path := strings.TrimPrefix(url, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("sqlite url has no path")
		}
		return KindSQLite, path, nil
	case strings.Contains(url, "://"):
		return "", "", fmt.Errorf("unsupported database url scheme: %s", url[:strings.Index(url, "://")])
	default:
		return KindSQLite, url, nil
	}
}

// Open opens and migrates the store named by databaseURL.
func Open(ctx context.Context, databaseURL string) (storage.Store, Kind, error) {
	kind, target, err := Resolve(databaseURL)
	if err != nil {
		return nil, "", err
	}
	switch kind {
	case KindPostgres:
		store, err := postgres.Open(ctx, target)
		if err != nil {
			return nil, kind, err
		}
		return store, kind, nil
	default:
		store, err := sqlite.New(target)
		if err != nil {
			return nil, kind, err
		}
		return store, kind, nil
	}
}
