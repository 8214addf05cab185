package xsqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/ougirez/kisannetra/internal/pkg/constants"
	"github.com/ougirez/kisannetra/internal/pkg/logger"
	"github.com/ougirez/kisannetra/internal/pkg/store/xdb"

	_ "modernc.org/sqlite"
)

const MemoryPath = ":memory:"

// DB is a SQLite database speaking the xdb contract.
type DB struct {
	db *sqlx.DB
}

// Open opens (and creates, if needed) the database file at path.
func Open(path string) (*DB, error) {
	dsn := MemoryPath
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("os.MkdirAll: %w", err)
			}
		}
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlx.Open: %w", err)
	}

	// every new connection to :memory: is a fresh empty database
	if path == MemoryPath {
		db.SetMaxOpenConns(1)
	}

	return &DB{db: db}, nil
}

func (d *DB) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

func (d *DB) Dialect() string {
	return xdb.DialectSQLite
}

func (d *DB) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrStoreUnavailable, err.Error())
	}
	return nil
}

func (d *DB) Close() {
	if err := d.db.Close(); err != nil {
		logger.Errorf(context.Background(), "sqlite close: %s", err.Error())
	}
}

// SQLite transactions already read from a consistent snapshot, so reads and
// writes share the same begin.
func (d *DB) ReadTx(ctx context.Context, fn func(q xdb.Querier) error) error {
	return d.inTx(ctx, fn)
}

func (d *DB) WriteTx(ctx context.Context, fn func(q xdb.Querier) error) error {
	return d.inTx(ctx, fn)
}

func (d *DB) inTx(ctx context.Context, fn func(q xdb.Querier) error) (err error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %s", constants.ErrStoreUnavailable, err.Error())
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Errorf(ctx, "tx.Rollback: %s", rbErr.Error())
		}
	}()

	if err = fn(&querier{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}
	return nil
}

type querier struct {
	tx *sqlx.Tx
}

func (q *querier) Getx(ctx context.Context, dst interface{}, query squirrel.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	return q.tx.GetContext(ctx, dst, sql, args...)
}

func (q *querier) Selectx(ctx context.Context, dst interface{}, query squirrel.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	return q.tx.SelectContext(ctx, dst, sql, args...)
}

func (q *querier) Execx(ctx context.Context, query squirrel.Sqlizer) (int64, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("query.ToSql: %w", err)
	}
	res, err := q.tx.ExecContext(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
