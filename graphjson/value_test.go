package graphjson

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDoubleRoundTrip(t *testing.T) {
	vals := []float64{
		0, 1, -1, 0.1, 1.0 / 3.0, math.MaxFloat64, math.SmallestNonzeroFloat64,
		math.Inf(1), math.Inf(-1),
	}
	for _, v := range vals {
		s := formatDouble(v)
		back, err := parseDouble("x", s)
		require.NoError(t, err, "parse %q", s)
		assert.Equal(t, math.Float64bits(v), math.Float64bits(back), "value %v via %q", v, s)
	}

	s := formatDouble(math.NaN())
	assert.Equal(t, "nan", s)
	back, err := parseDouble("x", s)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(back))
}

func TestFormatDoubleLiterals(t *testing.T) {
	assert.Equal(t, "inf", formatDouble(math.Inf(1)))
	assert.Equal(t, "-inf", formatDouble(math.Inf(-1)))
}

func TestParseOptionalID(t *testing.T) {
	id, ok, err := parseOptionalID("f", "null")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, id)

	id, ok, err = parseOptionalID("f", "42")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 42, id)

	_, _, err = parseOptionalID("f", "4.2")
	assert.ErrorIs(t, err, ErrBadAttr)
}

func TestParseScalarsReject(t *testing.T) {
	_, err := parseInt("f", "")
	assert.ErrorIs(t, err, ErrBadAttr)
	_, err = parseBool("f", "maybe")
	assert.ErrorIs(t, err, ErrBadAttr)
	_, err = parseDouble("f", "NaN")
	assert.ErrorIs(t, err, ErrBadAttr)
}
