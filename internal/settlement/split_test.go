package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(splits map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range splits {
		total = total.Add(v)
	}
	return total
}

func TestEqualSplits(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		participants []string
		want         map[string]string
		wantErr      bool
	}{
		{
			name:         "divides evenly",
			amount:       "30",
			participants: []string{"a", "b", "c"},
			want:         map[string]string{"a": "10", "b": "10", "c": "10"},
		},
		{
			name:         "leftover cent goes to the first participant",
			amount:       "10",
			participants: []string{"a", "b", "c"},
			want:         map[string]string{"a": "3.34", "b": "3.33", "c": "3.33"},
		},
		{
			name:         "two leftover cents",
			amount:       "0.05",
			participants: []string{"a", "b", "c"},
			want:         map[string]string{"a": "0.02", "b": "0.02", "c": "0.01"},
		},
		{
			name:         "single participant takes everything",
			amount:       "12.34",
			participants: []string{"a"},
			want:         map[string]string{"a": "12.34"},
		},
		{
			name:         "no participants",
			amount:       "10",
			participants: nil,
			wantErr:      true,
		},
		{
			name:         "zero amount",
			amount:       "0",
			participants: []string{"a"},
			wantErr:      true,
		},
		{
			name:         "duplicate participant",
			amount:       "10",
			participants: []string{"a", "a"},
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := EqualSplits(d(tt.amount), tt.participants)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidExpense)
				return
			}
			require.NoError(t, err)
			require.Len(t, splits, len(tt.want))
			for p, want := range tt.want {
				assert.True(t, splits[p].Equal(d(want)), "%s: got %s, want %s", p, splits[p], want)
			}
			assert.True(t, sum(splits).Equal(d(tt.amount)))
		})
	}
}

func TestWeightedSplits(t *testing.T) {
	t.Run("couple pays double", func(t *testing.T) {
		splits, err := WeightedSplits(d("90"), []string{"couple", "solo"}, map[string]decimal.Decimal{
			"couple": d("2"),
			"solo":   d("1"),
		})
		require.NoError(t, err)
		assert.True(t, splits["couple"].Equal(d("60")))
		assert.True(t, splits["solo"].Equal(d("30")))
	})

	t.Run("largest remainder gets the cent", func(t *testing.T) {
		// raw shares: 6.666..., 3.333...
		splits, err := WeightedSplits(d("10"), []string{"a", "b"}, map[string]decimal.Decimal{
			"a": d("2"),
			"b": d("1"),
		})
		require.NoError(t, err)
		assert.True(t, splits["a"].Equal(d("6.67")), "a got %s", splits["a"])
		assert.True(t, splits["b"].Equal(d("3.33")), "b got %s", splits["b"])
	})

	t.Run("zero weight participant owes nothing", func(t *testing.T) {
		splits, err := WeightedSplits(d("10.01"), []string{"a", "b", "c"}, map[string]decimal.Decimal{
			"a": d("1"),
			"b": d("0"),
			"c": d("1"),
		})
		require.NoError(t, err)
		assert.True(t, splits["b"].IsZero())
		assert.True(t, sum(splits).Equal(d("10.01")))
	})

	t.Run("sub-cent amount still sums exactly", func(t *testing.T) {
		splits, err := WeightedSplits(d("10.005"), []string{"a", "b"}, map[string]decimal.Decimal{
			"a": d("1"),
			"b": d("1"),
		})
		require.NoError(t, err)
		assert.True(t, sum(splits).Equal(d("10.005")))
	})

	t.Run("all zero weights", func(t *testing.T) {
		_, err := WeightedSplits(d("10"), []string{"a"}, map[string]decimal.Decimal{"a": d("0")})
		assert.ErrorIs(t, err, ErrInvalidExpense)
	})

	t.Run("missing weight", func(t *testing.T) {
		_, err := WeightedSplits(d("10"), []string{"a", "b"}, map[string]decimal.Decimal{"a": d("1")})
		assert.ErrorIs(t, err, ErrInvalidExpense)
	})
}
