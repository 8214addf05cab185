package prices

import (
	"bytes"
	_ "embed"

	"github.com/ougirez/kisannetra/internal/domain"
)

//go:embed sample_prices.csv
var sampleCSV []byte

// SampleOffers returns the price sheet shipped with the binary.
func SampleOffers() ([]*domain.Offer, error) {
	return ReadCSV(bytes.NewReader(sampleCSV))
}
