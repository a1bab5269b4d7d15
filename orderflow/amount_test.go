package orderflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateAmount(t *testing.T) {
	tests := []struct {
		name          string
		prices        []float64
		tweetTypeRate float64
		addOnRates    []float64
		want          float64
	}{
		{"single target no adjustments", []float64{50}, 100, nil, 50},
		{"tweet rate and add-on", []float64{100}, 120, []float64{10}, 130},
		{"discounted tweet rate", []float64{200}, 80, nil, 160},
		{"multiple targets", []float64{50, 30, 20}, 100, nil, 100},
		{"multiple add-ons", []float64{100}, 100, []float64{5, 10}, 115},
		{"rounding", []float64{33.333}, 100, []float64{10}, 36.67},
		{"empty targets", nil, 120, []float64{10}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateAmount(tt.prices, tt.tweetTypeRate, tt.addOnRates)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateAmountIsPure(t *testing.T) {
	prices := []float64{100}
	first := CalculateAmount(prices, 120, []float64{10})
	second := CalculateAmount(prices, 120, []float64{10})
	assert.Equal(t, first, second)
	assert.Equal(t, 130.0, first)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "50.00", FormatAmount(50))
	assert.Equal(t, "130.00", FormatAmount(130))
	assert.Equal(t, "36.67", FormatAmount(36.67))
}
