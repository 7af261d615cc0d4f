package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	got, err := Convert(decimal.RequireFromString("100"), "USD", "EUR")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("92")), "got %s", got)

	got, err = Convert(decimal.RequireFromString("92"), "eur", "usd")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("100")), "got %s", got)

	got, err = Convert(decimal.RequireFromString("12.5"), "THB", "THB")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("12.5")))

	_, err = Convert(decimal.RequireFromString("1"), "USD", "XXX")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestRound(t *testing.T) {
	got, err := Round(decimal.RequireFromString("1234.567"), "USD")
	require.NoError(t, err)
	assert.Equal(t, "1234.57", got.String())

	got, err = Round(decimal.RequireFromString("1234.567"), "JPY")
	require.NoError(t, err)
	assert.Equal(t, "1235", got.String())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		amount string
		code   string
		lang   string
		want   string
	}{
		{"12.5", "USD", "en", "$12.50"},
		{"1234.5", "USD", "en-US", "$1,234.50"},
		{"-20", "GBP", "en", "-£20.00"},
		{"1500", "JPY", "en", "¥1,500"},
		{"1499.6", "JPY", "en", "¥1,500"},
		{"10", "CAD", "en", "CA$10.00"},
		{"7", "USD", "not a tag!", "$7.00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := Format(decimal.RequireFromString(tt.amount), tt.code, tt.lang)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Format(decimal.RequireFromString("1"), "XXX", "en")
	assert.ErrorIs(t, err, ErrUnknownCurrency)
}

func TestCodes(t *testing.T) {
	codes := Codes()
	assert.Contains(t, codes, "USD")
	assert.True(t, Supported("eur"))
	assert.False(t, Supported("XXX"))
}
