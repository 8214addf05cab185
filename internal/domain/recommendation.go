package domain

const (
	DefaultDistrict           = "Hyderabad"
	DefaultCrop               = "Tomato"
	DefaultDisease            = "Tomato___Early_blight"
	DefaultBaselinePricePerKg = 20.0
	DefaultAcreage            = 1.0

	// BaselineYieldKgPerAcre is the assumed untreated yield.
	BaselineYieldKgPerAcre = 1000.0
)

type Query struct {
	OfferKey
	BaselinePricePerKg float64
	Acreage            float64
}

func DefaultQuery() Query {
	return Query{
		OfferKey: OfferKey{
			District: DefaultDistrict,
			Crop:     DefaultCrop,
			Disease:  DefaultDisease,
		},
		BaselinePricePerKg: DefaultBaselinePricePerKg,
		Acreage:            DefaultAcreage,
	}
}

// BaselineRevenue is the revenue expected without any treatment.
func (q Query) BaselineRevenue() float64 {
	return BaselineYieldKgPerAcre * q.BaselinePricePerKg * q.Acreage
}

type Recommendation struct {
	BestProduct          string  `json:"best_product"`
	Brand                string  `json:"brand"`
	Dealer               string  `json:"dealer"`
	UnitPriceINR         float64 `json:"unit_price_inr"`
	ExpectedYieldGainPct float64 `json:"expected_yield_gain_pct"`
	ExpectedProfitINR    float64 `json:"expected_profit_inr"`
	Rationale            string  `json:"rationale"`
}

// Candidate is one scored offer.
type Candidate struct {
	OfferID              int64   `json:"offer_id"`
	ProductName          string  `json:"product_name"`
	Brand                string  `json:"brand"`
	Dealer               string  `json:"dealer"`
	UnitPriceINR         float64 `json:"unit_price_inr"`
	ExpectedYieldGainPct float64 `json:"expected_yield_gain_pct"`
	ExpectedGainINR      float64 `json:"expected_gain_inr"`
	ExpectedProfitINR    float64 `json:"expected_profit_inr"`
	Rationale            string  `json:"rationale"`
}

func (c *Candidate) Recommendation() *Recommendation {
	return &Recommendation{
		BestProduct:          c.ProductName,
		Brand:                c.Brand,
		Dealer:               c.Dealer,
		UnitPriceINR:         c.UnitPriceINR,
		ExpectedYieldGainPct: c.ExpectedYieldGainPct,
		ExpectedProfitINR:    c.ExpectedProfitINR,
		Rationale:            c.Rationale,
	}
}
