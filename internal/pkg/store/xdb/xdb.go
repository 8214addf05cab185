// Package xdb holds the small query surface shared by the pgx and SQLite backends.
package xdb

import (
	"context"

	"github.com/Masterminds/squirrel"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Querier runs squirrel queries inside one transaction.
type Querier interface {
	Getx(ctx context.Context, dst interface{}, query squirrel.Sqlizer) error
	Selectx(ctx context.Context, dst interface{}, query squirrel.Sqlizer) error
	Execx(ctx context.Context, query squirrel.Sqlizer) (int64, error)
}

// DB is a connection handle. ReadTx and WriteTx always finish the
// transaction they open: commit when fn returns nil, rollback otherwise.
type DB interface {
	ReadTx(ctx context.Context, fn func(q Querier) error) error
	WriteTx(ctx context.Context, fn func(q Querier) error) error
	Builder() squirrel.StatementBuilderType
	Dialect() string
	Ping(ctx context.Context) error
	Close()
}
