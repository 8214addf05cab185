package store

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/kisannetra/internal/domain"
	"github.com/ougirez/kisannetra/internal/pkg/constants"
	"github.com/ougirez/kisannetra/internal/pkg/logger"
	"github.com/ougirez/kisannetra/internal/pkg/store/xdb"
)

// NULL text reads back as "", NULL numbers stay NULL.
var offerSelectColumns = []string{
	"id",
	"coalesce(district, '') AS district",
	"coalesce(dealer, '') AS dealer",
	"coalesce(product_name, '') AS product_name",
	"coalesce(brand, '') AS brand",
	"coalesce(crop, '') AS crop",
	"coalesce(disease, '') AS disease",
	"unit_price_inr",
	"coalesce(unit, '') AS unit",
	"expected_yield_gain_pct",
	"coalesce(notes, '') AS notes",
}

var returningOffer = "RETURNING " + strings.Join(offerSelectColumns, ", ")

func offerValues(o *domain.Offer) []interface{} {
	return []interface{}{
		o.District,
		o.Dealer,
		o.ProductName,
		o.Brand,
		o.Crop,
		o.Disease,
		o.UnitPriceINR,
		o.Unit,
		o.ExpectedYieldGainPct,
		o.Notes,
	}
}

func offerSetMap(o *domain.Offer) map[string]interface{} {
	values := offerValues(o)
	m := make(map[string]interface{}, len(domain.OfferColumns))
	for i, col := range domain.OfferColumns {
		m[col] = values[i]
	}
	return m
}

// FindOffers returns offers for key, cheapest first. Keys compare lower-cased and exact.
func (s *store) FindOffers(ctx context.Context, key domain.OfferKey) ([]*domain.Offer, error) {
	query := s.builder().Select(offerSelectColumns...).
		From(tablePrices).
		Where(sq.Expr("lower(district) = lower(CAST(? AS TEXT))", key.District)).
		Where(sq.Expr("lower(crop) = lower(CAST(? AS TEXT))", key.Crop)).
		Where(sq.Expr("lower(disease) = lower(CAST(? AS TEXT))", key.Disease)).
		OrderBy("unit_price_inr ASC", "id ASC")

	selected := make([]*domain.Offer, 0)
	err := s.db.ReadTx(ctx, func(q xdb.Querier) error {
		return q.Selectx(ctx, &selected, query)
	})
	if err != nil {
		logger.Errorf(ctx, "FindOffers: %s", err.Error())
		return nil, fmt.Errorf("select offers: %w", err)
	}

	return selected, nil
}

func (s *store) ListOffers(ctx context.Context) ([]*domain.Offer, error) {
	query := s.builder().Select(offerSelectColumns...).
		From(tablePrices).
		OrderBy("id DESC")

	selected := make([]*domain.Offer, 0)
	err := s.db.ReadTx(ctx, func(q xdb.Querier) error {
		return q.Selectx(ctx, &selected, query)
	})
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}

	return selected, nil
}

func (s *store) GetOffer(ctx context.Context, id int64) (*domain.Offer, error) {
	query := s.builder().Select(offerSelectColumns...).
		From(tablePrices).
		Where(sq.Eq{"id": id})

	var selected domain.Offer
	err := s.db.ReadTx(ctx, func(q xdb.Querier) error {
		return q.Getx(ctx, &selected, query)
	})
	if err != nil {
		return nil, fmt.Errorf("get offer %d: %w", id, wrapErr(err))
	}

	return &selected, nil
}

func (s *store) CountOffers(ctx context.Context) (int64, error) {
	query := s.builder().Select("count(*)").From(tablePrices)

	var count int64
	err := s.db.ReadTx(ctx, func(q xdb.Querier) error {
		return q.Getx(ctx, &count, query)
	})
	if err != nil {
		return 0, fmt.Errorf("count offers: %w", err)
	}

	return count, nil
}

func (s *store) InsertOffer(ctx context.Context, offer *domain.Offer) (*domain.Offer, error) {
	query := s.builder().Insert(tablePrices).
		Columns(domain.OfferColumns...).
		Values(offerValues(offer)...).
		Suffix(returningOffer)

	var inserted domain.Offer
	err := s.db.WriteTx(ctx, func(q xdb.Querier) error {
		return q.Getx(ctx, &inserted, query)
	})
	if err != nil {
		logger.Errorf(ctx, "InsertOffer: %s", err.Error())
		return nil, fmt.Errorf("insert offer: %w", err)
	}

	return &inserted, nil
}

func (s *store) UpdateOffer(ctx context.Context, id int64, offer *domain.Offer) (*domain.Offer, error) {
	query := s.builder().Update(tablePrices).
		SetMap(offerSetMap(offer)).
		Where(sq.Eq{"id": id}).
		Suffix(returningOffer)

	var updated domain.Offer
	err := s.db.WriteTx(ctx, func(q xdb.Querier) error {
		return q.Getx(ctx, &updated, query)
	})
	if err != nil {
		return nil, fmt.Errorf("update offer %d: %w", id, wrapErr(err))
	}

	return &updated, nil
}

func (s *store) DeleteOffer(ctx context.Context, id int64) error {
	query := s.builder().Delete(tablePrices).Where(sq.Eq{"id": id})

	return s.db.WriteTx(ctx, func(q xdb.Querier) error {
		affected, err := q.Execx(ctx, query)
		if err != nil {
			return fmt.Errorf("delete offer %d: %w", id, err)
		}
		if affected == 0 {
			return fmt.Errorf("delete offer %d: %w", id, constants.ErrDBNotFound)
		}
		return nil
	})
}

// ImportOffers inserts all offers in one transaction. With replace the table is emptied first.
func (s *store) ImportOffers(ctx context.Context, offers []*domain.Offer, replace bool) (int, error) {
	err := s.db.WriteTx(ctx, func(q xdb.Querier) error {
		if replace {
			deleted, err := q.Execx(ctx, s.builder().Delete(tablePrices))
			if err != nil {
				return fmt.Errorf("clear prices: %w", err)
			}
			logger.Infof(ctx, "import: replaced %d offers", deleted)
		}

		for start := 0; start < len(offers); start += importBatchSize {
			end := start + importBatchSize
			if end > len(offers) {
				end = len(offers)
			}

			query := s.builder().Insert(tablePrices).Columns(domain.OfferColumns...)
			for _, offer := range offers[start:end] {
				query = query.Values(offerValues(offer)...)
			}

			if _, err := q.Execx(ctx, query); err != nil {
				return fmt.Errorf("insert batch %d-%d: %w", start, end, err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Errorf(ctx, "ImportOffers: %s", err.Error())
		return 0, fmt.Errorf("import offers: %w", err)
	}

	return len(offers), nil
}
