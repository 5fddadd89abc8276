package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceAmount(t *testing.T) {
	cases := map[string]int64{
		"":           0,
		"abc":        0,
		"1500":       1500,
		" 20 ":       20,
		"12,000":     12000,
		"-30":        -30,
		"1e9":        0,
		"1e99999999": 0,
	}
	for raw, want := range cases {
		requireAmount(t, want, CoerceAmount(raw))
	}
}

func TestParseAmount(t *testing.T) {
	_, err := ParseAmount("")
	require.ErrorIs(t, err, ErrAmountRequired)

	_, err = ParseAmount("abc")
	require.ErrorIs(t, err, ErrAmountInvalid)

	_, err = ParseAmount("0")
	require.ErrorIs(t, err, ErrAmountNotPositive)

	_, err = ParseAmount("-4")
	require.ErrorIs(t, err, ErrAmountNotPositive)

	for _, raw := range []string{"1e99999999", "1E3", "5e-2", "0x10", "+5", ".5"} {
		_, err = ParseAmount(raw)
		require.ErrorIs(t, err, ErrAmountInvalid, raw)
	}

	_, err = ParseAmount("1000000000000")
	require.ErrorIs(t, err, ErrAmountTooLarge)

	d, err := ParseAmount("999999999999.99")
	require.NoError(t, err)
	assert.Equal(t, "999999999999.99", d.String())

	d, err = ParseAmount("250.5")
	require.NoError(t, err)
	assert.Equal(t, "250.5", d.String())
}

func TestParseDate(t *testing.T) {
	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("not a date"))

	got := ParseDate("2024-03-01")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *got)

	got = ParseDate("2024-03-01T10:30:00Z")
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Hour())

	got = ParseDate("2024-03-01 08:15:00.123456+00")
	require.NotNil(t, got)
	assert.Equal(t, 8, got.Hour())

	fallback := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, fallback, DateOr(nil, fallback))
}
