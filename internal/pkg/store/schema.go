package store

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/ougirez/kisannetra/internal/pkg/store/xdb"
)

var schema = map[string][]string{
	xdb.DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS prices (
	id BIGSERIAL PRIMARY KEY,
	district TEXT,
	dealer TEXT,
	product_name TEXT,
	brand TEXT,
	crop TEXT,
	disease TEXT,
	unit_price_inr DOUBLE PRECISION,
	unit TEXT,
	expected_yield_gain_pct DOUBLE PRECISION,
	notes TEXT
)`,
		`CREATE INDEX IF NOT EXISTS prices_key_idx ON prices (lower(district), lower(crop), lower(disease))`,
	},
	xdb.DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS prices (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	district TEXT,
	dealer TEXT,
	product_name TEXT,
	brand TEXT,
	crop TEXT,
	disease TEXT,
	unit_price_inr REAL,
	unit TEXT,
	expected_yield_gain_pct REAL,
	notes TEXT
)`,
		`CREATE INDEX IF NOT EXISTS prices_key_idx ON prices (lower(district), lower(crop), lower(disease))`,
	},
}

func (s *store) Migrate(ctx context.Context) error {
	stmts, ok := schema[s.db.Dialect()]
	if !ok {
		return fmt.Errorf("no schema for dialect %s", s.db.Dialect())
	}

	return s.db.WriteTx(ctx, func(q xdb.Querier) error {
		for _, stmt := range stmts {
			if _, err := q.Execx(ctx, squirrel.Expr(stmt)); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}
