package dispatch

import "math"

const (
	// PackagingWeightKg is the base weight of any delivery.
	PackagingWeightKg = 0.5
	// MaxOrderWeightKg caps the estimate regardless of order total.
	MaxOrderWeightKg = 5.0
)

// EstimateWeight derives a delivery's weight in kilograms from its monetary total:
// 0.5 kg of packaging plus 0.1 kg per 10,000 of value, capped at 5 kg.
func EstimateWeight(orderTotal float64) float64 {
	return math.Min(PackagingWeightKg+(orderTotal/10000)*0.1, MaxOrderWeightKg)
}
