package graphjson

import (
	"fmt"
	"math"
	"strconv"
)

// formatDouble renders a float with enough digits to round-trip IEEE
// binary64. Infinities and NaN use fixed literals.
func formatDouble(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.IsNaN(v):
		return "nan"
	default:
		return strconv.FormatFloat(v, 'g', 17, 64)
	}
}

func parseDouble(key, s string) (float64, error) {
	switch s {
	case "inf":
		return math.Inf(1), nil
	case "-inf":
		return math.Inf(-1), nil
	case "nan":
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w for field %q: %q", ErrBadAttr, key, s)
	}
	// ParseFloat also accepts spellings like "Inf" and "NaN"; only the
	// exact literals above are part of the format
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w for field %q: %q", ErrBadAttr, key, s)
	}
	return v, nil
}

func parseInt(key, s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w for field %q: %q", ErrBadAttr, key, s)
	}
	return v, nil
}

func parseBool(key, s string) (bool, error) {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%w for field %q: %q", ErrBadAttr, key, s)
	}
	return v, nil
}

// parseOptionalID parses a node reference attr: the literal "null" means
// none.
func parseOptionalID(key, s string) (id int, ok bool, err error) {
	if s == "null" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("%w for field %q: %q", ErrBadAttr, key, s)
	}
	return v, true, nil
}
