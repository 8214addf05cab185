package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ougirez/kisannetra/internal/pkg/constants"
	"github.com/ougirez/kisannetra/internal/pkg/logger"
	"github.com/ougirez/kisannetra/internal/pkg/store/xdb"
	"github.com/ougirez/kisannetra/internal/pkg/store/xpgx"
	"github.com/ougirez/kisannetra/internal/pkg/store/xsqlite"
)

// ParseURL maps a SQLAlchemy-style database URL to a dialect and a driver DSN.
//
//	sqlite:///data/app.db        -> sqlite, data/app.db
//	sqlite:////var/lib/app.db    -> sqlite, /var/lib/app.db
//	sqlite://                    -> sqlite, :memory:
//	postgresql+psycopg2://u@h/db -> postgres, postgresql://u@h/db
func ParseURL(dbURL string) (dialect string, dsn string, err error) {
	scheme, rest, ok := strings.Cut(dbURL, "://")
	if !ok {
		return "", "", fmt.Errorf("%w: %q", constants.ErrUnsupportedDBType, dbURL)
	}

	// драйвер после '+' нам не нужен
	scheme, _, _ = strings.Cut(strings.ToLower(scheme), "+")

	switch scheme {
	case "sqlite", "sqlite3":
		path := strings.TrimPrefix(rest, "/")
		if path == "" || path == xsqlite.MemoryPath {
			path = xsqlite.MemoryPath
		}
		return xdb.DialectSQLite, path, nil
	case "postgres", "postgresql":
		return xdb.DialectPostgres, scheme + "://" + rest, nil
	default:
		return "", "", fmt.Errorf("%w: %q", constants.ErrUnsupportedDBType, dbURL)
	}
}

// Open connects to dbURL and waits, with exponential backoff up to connectTimeout,
// until the database answers a ping.
func Open(ctx context.Context, dbURL string, connectTimeout time.Duration) (Store, error) {
	dialect, dsn, err := ParseURL(dbURL)
	if err != nil {
		return nil, err
	}

	var db DB
	switch dialect {
	case xdb.DialectPostgres:
		db, err = xpgx.Connect(ctx, dsn)
	case xdb.DialectSQLite:
		db, err = xsqlite.Open(dsn)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = connectTimeout

	err = backoff.RetryNotify(
		func() error {
			return db.Ping(ctx)
		},
		backoff.WithContext(b, ctx),
		func(err error, next time.Duration) {
			logger.Warnf(ctx, "store ping failed, retry in %s: %s", next, err.Error())
		},
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	logger.Infof(ctx, "connected to %s store", dialect)
	return NewStore(db), nil
}
