package recommend

import (
	"context"
	"fmt"
	"math"

	"github.com/ougirez/kisannetra/internal/domain"
	"github.com/ougirez/kisannetra/internal/pkg/constants"
	"github.com/ougirez/kisannetra/internal/pkg/logger"
)

// OfferFinder is the read side of the offer store the engine needs.
type OfferFinder interface {
	FindOffers(ctx context.Context, key domain.OfferKey) ([]*domain.Offer, error)
}

// Service picks the most profitable treatment offer for a query.
// It keeps no state between calls and is safe for concurrent use.
type Service struct {
	offers OfferFinder
}

func NewRecommendService(offers OfferFinder) *Service {
	return &Service{offers: offers}
}

// Suggest returns the offer with the greatest expected profit.
// The first offer in store order wins a tie. constants.ErrNoOffers means nothing usable matched.
func (s *Service) Suggest(ctx context.Context, q domain.Query) (*domain.Recommendation, error) {
	candidates, err := s.Candidates(ctx, q)
	if err != nil {
		return nil, err
	}

	best := Best(candidates)
	logger.Debugf(ctx, "suggest %s/%s/%s: %d candidates, best offer %d (%s)",
		q.District, q.Crop, q.Disease, len(candidates), best.OfferID, best.Rationale)

	return best.Recommendation(), nil
}

// Candidates fetches the matching offers and scores each usable one, in store order.
func (s *Service) Candidates(ctx context.Context, q domain.Query) ([]*domain.Candidate, error) {
	if err := Validate(q); err != nil {
		return nil, err
	}

	offers, err := s.offers.FindOffers(ctx, q.OfferKey)
	if err != nil {
		return nil, fmt.Errorf("FindOffers: %w", err)
	}

	candidates := Rank(offers, q)
	for _, c := range candidates {
		if !isFinite(c.ExpectedGainINR) || !isFinite(c.ExpectedProfitINR) {
			return nil, fmt.Errorf("%w: expected profit of offer %d overflows", constants.ErrInvalidInput, c.OfferID)
		}
	}
	if len(candidates) == 0 {
		if skipped := len(offers); skipped > 0 {
			logger.Warnf(ctx, "suggest %s/%s/%s: %d offers without price or yield gain", q.District, q.Crop, q.Disease, skipped)
		}
		return nil, constants.ErrNoOffers
	}

	return candidates, nil
}

func Validate(q domain.Query) error {
	if err := checkNonNegative("baseline_price_per_kg", q.BaselinePricePerKg); err != nil {
		return err
	}
	if err := checkNonNegative("acreage", q.Acreage); err != nil {
		return err
	}
	if !isFinite(q.BaselineRevenue()) {
		return fmt.Errorf("%w: baseline revenue overflows", constants.ErrInvalidInput)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func checkNonNegative(name string, v float64) error {
	if !isFinite(v) {
		return fmt.Errorf("%w: %s must be a finite number", constants.ErrInvalidInput, name)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative", constants.ErrInvalidInput, name)
	}
	return nil
}

// Rank scores every offer that has both a price and a yield gain. Order is preserved.
func Rank(offers []*domain.Offer, q domain.Query) []*domain.Candidate {
	baselineRevenue := q.BaselineRevenue()

	candidates := make([]*domain.Candidate, 0, len(offers))
	for _, o := range offers {
		if !o.Rankable() {
			continue
		}

		gainPct := *o.ExpectedYieldGainPct
		cost := *o.UnitPriceINR
		gain := (gainPct / 100.0) * baselineRevenue
		profit := gain - cost

		candidates = append(candidates, &domain.Candidate{
			OfferID:              o.ID,
			ProductName:          o.ProductName,
			Brand:                o.Brand,
			Dealer:               o.Dealer,
			UnitPriceINR:         cost,
			ExpectedYieldGainPct: gainPct,
			ExpectedGainINR:      gain,
			ExpectedProfitINR:    profit,
			Rationale:            Rationale(gain, cost, profit),
		})
	}

	return candidates
}

// Best returns the first candidate with the strictly greatest profit, nil for an empty slice.
func Best(candidates []*domain.Candidate) *domain.Candidate {
	var best *domain.Candidate
	for _, c := range candidates {
		if best == nil || c.ExpectedProfitINR > best.ExpectedProfitINR {
			best = c
		}
	}
	return best
}

// Rationale rounds each figure on its own; profit is not recomputed from the rounded parts.
func Rationale(gain, cost, profit float64) string {
	return fmt.Sprintf("Estimated gain %.0f - cost %.0f = profit %.0f INR", gain, cost, profit)
}
