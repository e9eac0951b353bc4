package numeric_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akasaka-miraina/lambdust-sub003/internal/numeric"
	"github.com/akasaka-miraina/lambdust-sub003/internal/value"
)

func TestParseDefaultExactness(t *testing.T) {
	cases := []struct {
		text   string
		exact  bool
		isKind value.Kind
	}{
		{"42", true, value.KindInteger},
		{"-17", true, value.KindInteger},
		{"1/2", true, value.KindRational},
		{"3.14", false, value.KindReal},
		{"1e10", false, value.KindReal},
		{"+inf.0", false, value.KindReal},
		{"+nan.0", false, value.KindReal},
	}
	for _, c := range cases {
		v, err := numeric.Parse(c.text)
		require.NoError(t, err, c.text)
		assert.Equal(t, c.isKind, v.Kind(), c.text)
	}
}

func TestParseExactnessPrefixOverrides(t *testing.T) {
	v, err := numeric.Parse("#e3.14")
	require.NoError(t, err)
	_, isRational := v.(value.Rational)
	assert.True(t, isRational, "#e on a decimal literal must yield an exact rational")

	v, err = numeric.Parse("#i1/2")
	require.NoError(t, err)
	assert.Equal(t, value.KindReal, v.Kind())
}

func TestParseRadixPrefixes(t *testing.T) {
	v, err := numeric.Parse("#xff")
	require.NoError(t, err)
	i, ok := v.(value.Integer)
	require.True(t, ok)
	assert.Equal(t, big.NewInt(255), i.V)

	v, err = numeric.Parse("#b1010")
	require.NoError(t, err)
	i = v.(value.Integer)
	assert.Equal(t, big.NewInt(10), i.V)
}

func TestParseComplex(t *testing.T) {
	v, err := numeric.Parse("1+2i")
	require.NoError(t, err)
	c, ok := v.(value.Complex)
	require.True(t, ok)
	assert.Equal(t, 1.0, c.Re)
	assert.Equal(t, 2.0, c.Im)

	v, err = numeric.Parse("-i")
	require.NoError(t, err)
	c = v.(value.Complex)
	assert.Equal(t, 0.0, c.Re)
	assert.Equal(t, -1.0, c.Im)
}

func TestExactnessContagion(t *testing.T) {
	exact, _ := numeric.Parse("1/2")
	inexact, _ := numeric.Parse("0.5")

	sum, err := numeric.Add(exact, inexact)
	require.NoError(t, err)
	assert.Equal(t, value.KindReal, sum.Kind(), "exact+inexact must contaminate to inexact")

	bothExact, err := numeric.Add(exact, exact)
	require.NoError(t, err)
	assert.NotEqual(t, value.KindReal, bothExact.Kind(), "exact+exact must stay exact")
}

func TestToExactRoundTrip(t *testing.T) {
	inexact, _ := numeric.Parse("2.0")
	exact := numeric.ToExact(inexact)
	i, ok := exact.(value.Integer)
	require.True(t, ok, "2.0 rounds to an exact integer, not a rational")
	assert.Equal(t, big.NewInt(2), i.V)
}

func TestDivisionByZeroExactIsError(t *testing.T) {
	zero, _ := numeric.Parse("0")
	one, _ := numeric.Parse("1")
	_, err := numeric.Div(one, zero)
	assert.Error(t, err)
}
