package store

import (
	"context"

	"github.com/ougirez/kisannetra/internal/domain"
	"github.com/ougirez/kisannetra/internal/pkg/store/xdb"
)

type DB = xdb.DB

type Store interface {
	OfferStore
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Dialect() string
	Close()
}

type OfferStore interface {
	FindOffers(ctx context.Context, key domain.OfferKey) ([]*domain.Offer, error)
	ListOffers(ctx context.Context) ([]*domain.Offer, error)
	GetOffer(ctx context.Context, id int64) (*domain.Offer, error)
	CountOffers(ctx context.Context) (int64, error)
	InsertOffer(ctx context.Context, offer *domain.Offer) (*domain.Offer, error)
	UpdateOffer(ctx context.Context, id int64, offer *domain.Offer) (*domain.Offer, error)
	DeleteOffer(ctx context.Context, id int64) error
	ImportOffers(ctx context.Context, offers []*domain.Offer, replace bool) (int, error)
}

type store struct {
	db DB
}

func NewStore(db DB) Store {
	return &store{db}
}

func (s *store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *store) Dialect() string {
	return s.db.Dialect()
}

func (s *store) Close() {
	s.db.Close()
}
