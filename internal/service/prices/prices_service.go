package prices

import (
	"context"
	"fmt"

	"github.com/ougirez/kisannetra/internal/domain"
	"github.com/ougirez/kisannetra/internal/pkg/logger"
	"github.com/ougirez/kisannetra/internal/pkg/store"
)

type Service struct {
	store store.OfferStore
}

func NewPricesService(store store.OfferStore) *Service {
	return &Service{store: store}
}

func (s *Service) ListOffers(ctx context.Context) ([]*domain.Offer, error) {
	offers, err := s.store.ListOffers(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListOffers: %w", err)
	}
	if offers == nil {
		offers = []*domain.Offer{}
	}
	return offers, nil
}

func (s *Service) GetOffer(ctx context.Context, id int64) (*domain.Offer, error) {
	offer, err := s.store.GetOffer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store.GetOffer: %w", err)
	}
	return offer, nil
}

func (s *Service) CreateOffer(ctx context.Context, offer *domain.Offer) (*domain.Offer, error) {
	created, err := s.store.InsertOffer(ctx, offer)
	if err != nil {
		return nil, fmt.Errorf("store.InsertOffer: %w", err)
	}
	logger.Infof(ctx, "created offer %d for %s/%s/%s", created.ID, created.District, created.Crop, created.Disease)
	return created, nil
}

func (s *Service) UpdateOffer(ctx context.Context, id int64, offer *domain.Offer) (*domain.Offer, error) {
	updated, err := s.store.UpdateOffer(ctx, id, offer)
	if err != nil {
		return nil, fmt.Errorf("store.UpdateOffer: %w", err)
	}
	return updated, nil
}

func (s *Service) DeleteOffer(ctx context.Context, id int64) error {
	if err := s.store.DeleteOffer(ctx, id); err != nil {
		return fmt.Errorf("store.DeleteOffer: %w", err)
	}
	logger.Infof(ctx, "deleted offer %d", id)
	return nil
}

// SeedIfEmpty imports offers only when the table has no rows yet.
func (s *Service) SeedIfEmpty(ctx context.Context, offers []*domain.Offer) (int, error) {
	count, err := s.store.CountOffers(ctx)
	if err != nil {
		return 0, fmt.Errorf("store.CountOffers: %w", err)
	}
	if count > 0 {
		logger.Infof(ctx, "seed skipped: %d offers already stored", count)
		return 0, nil
	}

	n, err := s.store.ImportOffers(ctx, offers, false)
	if err != nil {
		return 0, fmt.Errorf("store.ImportOffers: %w", err)
	}
	return n, nil
}
