package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		decimalComma bool
		want         string
		wantErr      bool
	}{
		{name: "negative plain", input: "-4.50", want: "-4.5"},
		{name: "thousands separator", input: "1,234.56", want: "1234.56"},
		{name: "currency symbol", input: "$ 25.00", want: "25"},
		{name: "swiss apostrophe", input: "CHF 1'000.05", want: "1000.05"},
		{name: "parentheses negative", input: "(12.30)", want: "-12.3"},
		{name: "decimal comma", input: "1.234,56", decimalComma: true, want: "1234.56"},
		{name: "decimal comma negative", input: "-0,99", decimalComma: true, want: "-0.99"},
		{name: "extra precision kept", input: "10.001", want: "10.001"},
		{name: "not a number", input: "not-a-number", wantErr: true},
		{name: "empty", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input, tt.decimalComma)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, CanonicalAmount(got))
		})
	}
}

func TestCanonicalAmount(t *testing.T) {
	ten := decimal.RequireFromString("10.00")
	assert.Equal(t, CanonicalAmount(decimal.NewFromInt(10)), CanonicalAmount(ten))
	assert.NotEqual(t, CanonicalAmount(ten), CanonicalAmount(decimal.RequireFromString("10.001")))
	assert.Equal(t, "10.00", FormatAmount(ten))
}
