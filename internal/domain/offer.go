package domain

import "strings"

// Offer is a priced treatment sold by a dealer for one (district, crop, disease) triple.
// Numeric fields are nil when the stored value is NULL.
type Offer struct {
	ID                   int64    `db:"id" json:"id"`
	District             string   `db:"district" json:"district"`
	Dealer               string   `db:"dealer" json:"dealer"`
	ProductName          string   `db:"product_name" json:"product_name"`
	Brand                string   `db:"brand" json:"brand"`
	Crop                 string   `db:"crop" json:"crop"`
	Disease              string   `db:"disease" json:"disease"`
	UnitPriceINR         *float64 `db:"unit_price_inr" json:"unit_price_inr"`
	Unit                 string   `db:"unit" json:"unit"`
	ExpectedYieldGainPct *float64 `db:"expected_yield_gain_pct" json:"expected_yield_gain_pct"`
	Notes                string   `db:"notes" json:"notes"`
}

// Rankable reports whether both numbers needed for the profit estimate are present.
func (o *Offer) Rankable() bool {
	return o != nil && o.UnitPriceINR != nil && o.ExpectedYieldGainPct != nil
}

func (o *Offer) Key() OfferKey {
	return OfferKey{District: o.District, Crop: o.Crop, Disease: o.Disease}
}

type OfferKey struct {
	District string
	Crop     string
	Disease  string
}

// Matches compares keys exactly after lower-casing. SQLite's lower() folds only
// ASCII letters, so the SQLite store is stricter for non-ASCII capitals.
func (k OfferKey) Matches(other OfferKey) bool {
	return strings.ToLower(k.District) == strings.ToLower(other.District) &&
		strings.ToLower(k.Crop) == strings.ToLower(other.Crop) &&
		strings.ToLower(k.Disease) == strings.ToLower(other.Disease)
}

// OfferColumns is the fixed CSV column order.
var OfferColumns = []string{
	"district",
	"dealer",
	"product_name",
	"brand",
	"crop",
	"disease",
	"unit_price_inr",
	"unit",
	"expected_yield_gain_pct",
	"notes",
}

func Float(v float64) *float64 {
	return &v
}
