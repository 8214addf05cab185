package dto

import "github.com/ougirez/kisannetra/internal/domain"

// OfferRequest is the body of POST and PUT /api/prices.
type OfferRequest struct {
	District             string  `json:"district" validate:"required"`
	Dealer               string  `json:"dealer"`
	ProductName          string  `json:"product_name"`
	Brand                string  `json:"brand"`
	Crop                 string  `json:"crop" validate:"required"`
	Disease              string  `json:"disease" validate:"required"`
	UnitPriceINR         *Number `json:"unit_price_inr" validate:"omitempty,gte=0"`
	Unit                 string  `json:"unit"`
	ExpectedYieldGainPct *Number `json:"expected_yield_gain_pct"`
	Notes                string  `json:"notes"`
}

func (r *OfferRequest) Offer() *domain.Offer {
	return &domain.Offer{
		District:             r.District,
		Dealer:               r.Dealer,
		ProductName:          r.ProductName,
		Brand:                r.Brand,
		Crop:                 r.Crop,
		Disease:              r.Disease,
		UnitPriceINR:         r.UnitPriceINR.Ptr(),
		Unit:                 r.Unit,
		ExpectedYieldGainPct: r.ExpectedYieldGainPct.Ptr(),
		Notes:                r.Notes,
	}
}

type ImportResponse struct {
	Imported int `json:"imported"`
}

type PredictResponse struct {
	Predictions []domain.Prediction `json:"predictions"`
}
