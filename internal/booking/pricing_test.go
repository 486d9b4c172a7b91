package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatPricing(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   int64
	}{
		{"default", 0, 15000},
		{"negative falls back", -5, 15000},
		{"custom", 9900, 9900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewFlatPricing(tt.amount)

			short, err := p.Calculate(PricingParams{Range: stay("2025-07-01", "2025-07-02"), CarIDs: []int64{1}})
			require.NoError(t, err)
			long, err := p.Calculate(PricingParams{Range: stay("2025-07-01", "2025-07-31"), CarIDs: []int64{1, 2, 3}})
			require.NoError(t, err)

			assert.Equal(t, tt.want, short)
			assert.Equal(t, short, long, "flat price ignores length and car count")
		})
	}
}
