package store

import (
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ougirez/kisannetra/internal/pkg/constants"
)

const (
	tablePrices = "prices"

	importBatchSize = 500
)

var mapping = map[error]error{
	pgx.ErrNoRows: constants.ErrDBNotFound,
	sql.ErrNoRows: constants.ErrDBNotFound,
}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder возвращает squirrel SQL Builder с плейсхолдерами нужного бэкенда.
func (s *store) builder() squirrel.StatementBuilderType {
	return s.db.Builder()
}
