package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParsedWeight is the typed outcome of parsing a declared confidence.
type ParsedWeight struct {
	Value int
	Err   error
}

// OK reports whether the weight parsed successfully.
func (w ParsedWeight) OK() bool { return w.Err == nil }

// ParseWeight parses raw as a confidence weight in [1, k]. Integral floats
// such as "5.0" are accepted; blanks, text and fractions are malformed.
func ParseWeight(raw string, k int) ParsedWeight {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ParsedWeight{Err: fmt.Errorf("%w: empty", ErrMalformedWeight)}
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return ParsedWeight{Err: fmt.Errorf("%w: %q", ErrMalformedWeight, raw)}
		}
		if f < math.MinInt32 || f > math.MaxInt32 {
			return ParsedWeight{Err: fmt.Errorf("%w: %q", ErrWeightOutOfRange, raw)}
		}
		v = int(f)
	}

	if v < 1 || v > k {
		return ParsedWeight{Err: fmt.Errorf("%w: %d not in [1, %d]", ErrWeightOutOfRange, v, k)}
	}
	return ParsedWeight{Value: v}
}
