package xpgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ougirez/kisannetra/internal/pkg/constants"
	"github.com/ougirez/kisannetra/internal/pkg/logger"
	"github.com/ougirez/kisannetra/internal/pkg/store/xdb"
)

// Pool is a pgx connection pool speaking the xdb contract.
type Pool struct {
	pool *pgxpool.Pool
}

func Connect(ctx context.Context, dsn string) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	return &Pool{pool: pool}, nil
}

func (p *Pool) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (p *Pool) Dialect() string {
	return xdb.DialectPostgres
}

func (p *Pool) Ping(ctx context.Context) error {
	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %s", constants.ErrStoreUnavailable, err.Error())
	}
	return nil
}

func (p *Pool) Close() {
	p.pool.Close()
}

// ReadTx uses a repeatable-read snapshot so a concurrent import is never seen half-done.
func (p *Pool) ReadTx(ctx context.Context, fn func(q xdb.Querier) error) error {
	return p.inTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (p *Pool) WriteTx(ctx context.Context, fn func(q xdb.Querier) error) error {
	return p.inTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite}, fn)
}

func (p *Pool) inTx(ctx context.Context, opts pgx.TxOptions, fn func(q xdb.Querier) error) (err error) {
	tx, err := p.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %s", constants.ErrStoreUnavailable, err.Error())
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logger.Errorf(ctx, "tx.Rollback: %s", rbErr.Error())
		}
	}()

	if err = fn(&querier{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}
	return nil
}

type querier struct {
	tx pgx.Tx
}

func (q *querier) Getx(ctx context.Context, dst interface{}, query squirrel.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	if err = pgxscan.Get(ctx, q.tx, dst, sql, args...); pgxscan.NotFound(err) {
		return pgx.ErrNoRows
	}
	return err
}

func (q *querier) Selectx(ctx context.Context, dst interface{}, query squirrel.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	return pgxscan.Select(ctx, q.tx, dst, sql, args...)
}

func (q *querier) Execx(ctx context.Context, query squirrel.Sqlizer) (int64, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("query.ToSql: %w", err)
	}
	tag, err := q.tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
