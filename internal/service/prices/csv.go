package prices

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ougirez/kisannetra/internal/domain"
	"github.com/ougirez/kisannetra/internal/pkg/constants"
	"github.com/ougirez/kisannetra/internal/pkg/logger"
	"github.com/shopspring/decimal"
)

type ImportMode string

const (
	ImportAppend  ImportMode = "append"
	ImportReplace ImportMode = "replace"
)

func ParseImportMode(s string) (ImportMode, error) {
	switch ImportMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ImportAppend:
		return ImportAppend, nil
	case ImportReplace:
		return ImportReplace, nil
	default:
		return "", fmt.Errorf("%w: unknown import mode %q", constants.ErrInvalidInput, s)
	}
}

// Export renders all offers as CSV in the fixed column order, newest first.
// Nothing is returned unless the whole table was read.
func (s *Service) Export(ctx context.Context) ([]byte, error) {
	offers, err := s.store.ListOffers(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.ListOffers: %w", err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, offers); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Import parses r and stores every row in one transaction.
func (s *Service) Import(ctx context.Context, r io.Reader, mode ImportMode) (int, error) {
	offers, err := ReadCSV(r)
	if err != nil {
		return 0, err
	}

	n, err := s.store.ImportOffers(ctx, offers, mode == ImportReplace)
	if err != nil {
		return 0, fmt.Errorf("store.ImportOffers: %w", err)
	}

	logger.Infof(ctx, "imported %d offers (%s)", n, mode)
	return n, nil
}

func WriteCSV(w io.Writer, offers []*domain.Offer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.OfferColumns); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}

	for _, o := range offers {
		record := []string{
			o.District,
			o.Dealer,
			o.ProductName,
			o.Brand,
			o.Crop,
			o.Disease,
			formatNumber(o.UnitPriceINR),
			o.Unit,
			formatNumber(o.ExpectedYieldGainPct),
			o.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("csv row %d: %w", o.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a price sheet. Column order is free and unknown columns are
// ignored, but every column of domain.OfferColumns must be present.
func ReadCSV(r io.Reader) ([]*domain.Offer, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty csv", constants.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: csv header: %s", constants.ErrInvalidInput, err.Error())
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}

	var missing []string
	for _, col := range domain.OfferColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns: %s", constants.ErrInvalidInput, strings.Join(missing, ", "))
	}

	offers := make([]*domain.Offer, 0)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s", constants.ErrInvalidInput, err.Error())
		}
		line, _ := cr.FieldPos(0)

		if isBlank(record) {
			continue
		}

		get := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		price, err := parseNumber(get("unit_price_inr"))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: unit_price_inr: %s", constants.ErrInvalidInput, line, err.Error())
		}
		if price != nil && *price < 0 {
			return nil, fmt.Errorf("%w: line %d: unit_price_inr must not be negative", constants.ErrInvalidInput, line)
		}

		gain, err := parseNumber(get("expected_yield_gain_pct"))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: expected_yield_gain_pct: %s", constants.ErrInvalidInput, line, err.Error())
		}

		offers = append(offers, &domain.Offer{
			District:             get("district"),
			Dealer:               get("dealer"),
			ProductName:          get("product_name"),
			Brand:                get("brand"),
			Crop:                 get("crop"),
			Disease:              get("disease"),
			UnitPriceINR:         price,
			Unit:                 get("unit"),
			ExpectedYieldGainPct: gain,
			Notes:                get("notes"),
		})
	}

	return offers, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// parseNumber returns nil for an empty cell.
func parseNumber(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", s)
	}
	v := d.InexactFloat64()
	return &v, nil
}

func formatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return decimal.NewFromFloat(*v).String()
}
