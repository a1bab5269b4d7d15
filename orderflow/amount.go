package orderflow

import (
	"fmt"
	"math"
)

// CalculateAmount computes the order total from the selected target
// prices and the percentage rates of the chosen tweet type and add-ons.
// A rate of 100 means no adjustment. The function is pure: it is used
// both for the live preview and for the final submission, and must
// return the same value for the same inputs.
func CalculateAmount(targetPrices []float64, tweetTypeRate float64, addOnRates []float64) float64 {
	var base float64
	for _, p := range targetPrices {
		base += p
	}

	adjusted := base
	if tweetTypeRate != 100 {
		adjusted = base + base*(tweetTypeRate-100)/100
	}
	for _, rate := range addOnRates {
		adjusted += base * rate / 100
	}

	return roundToTwoDecimalPlaces(adjusted)
}

// FormatAmount renders an amount the way the marketplace expects it.
func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func roundToTwoDecimalPlaces(value float64) float64 {
	return math.Round(value*100) / 100
}

// amountFor resolves the rates from the flow state and computes the
// total for the currently selected parameters.
func amountFor(s *FlowState) (float64, error) {
	if s.Catalog == nil {
		return 0, fmt.Errorf("service catalog not loaded")
	}
	tweetType, ok := s.Catalog.TweetType(s.Params.TweetServiceTypeId)
	if !ok {
		return 0, fmt.Errorf("unknown tweet service type %d", s.Params.TweetServiceTypeId)
	}

	prices := make([]float64, 0, len(s.Params.KolIds))
	for _, target := range s.Params.KolIds {
		prices = append(prices, target.Price)
	}

	addOnRates := make([]float64, 0, len(s.Params.ExtServiceTypeIds))
	for _, id := range s.Params.ExtServiceTypeIds {
		ext, ok := s.Catalog.Ext(id)
		if !ok {
			return 0, fmt.Errorf("unknown add-on service type %d", id)
		}
		addOnRates = append(addOnRates, ext.PriceRate)
	}

	return CalculateAmount(prices, tweetType.PriceRate, addOnRates), nil
}
