package dto

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ougirez/kisannetra/internal/pkg/constants"
)

// Number is a JSON float that also accepts numeric strings ("20", " 1.5 ").
// Anything that is not a finite number is rejected instead of becoming zero.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	if len(raw) > 0 && raw[0] == '"' {
		s, err := strconv.Unquote(string(raw))
		if err != nil {
			return fmt.Errorf("%w: bad string %s", constants.ErrInvalidInput, raw)
		}
		raw = []byte(strings.TrimSpace(s))
	}

	v, err := ParseNumber(string(raw))
	if err != nil {
		return err
	}

	*n = Number(v)
	return nil
}

func (n *Number) Ptr() *float64 {
	if n == nil {
		return nil
	}
	v := float64(*n)
	return &v
}

// ParseNumber parses s as a finite float64.
func ParseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", constants.ErrInvalidInput, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q is not a finite number", constants.ErrInvalidInput, s)
	}
	return v, nil
}
