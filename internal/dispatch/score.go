package dispatch

import (
	"droneDispatch/internal/geo"
	"droneDispatch/models"
)

// Blend weights; they sum to 1.0.
const (
	weightDistance     = 0.25
	weightBattery      = 0.20
	weightPayload      = 0.15
	weightAvailability = 0.15
	weightCapabilities = 0.25

	// batterySafetyMargin inflates the round-trip battery requirement by 20%.
	batterySafetyMargin = 1.2
)

// Breakdown is every intermediate value behind a score, for operators and logs.
type Breakdown struct {
	DroneToRestaurantKm    float64 `json:"drone_to_restaurant_km"`
	RestaurantToDeliveryKm float64 `json:"restaurant_to_delivery_km"`
	TotalDistanceKm        float64 `json:"total_distance_km"`
	OrderWeightKg          float64 `json:"order_weight_kg"`
	BatteryNeeded          float64 `json:"battery_needed"`
	BatteryOK              bool    `json:"battery_ok"`
	PayloadOK              bool    `json:"payload_ok"`
	RangeOK                bool    `json:"range_ok"`
	Total                  float64 `json:"total"`
}

// Feasibility is the fraction (0, 1/3, 2/3 or 1) of the battery, payload and range checks that pass.
func (b Breakdown) Feasibility() float64 {
	return (boolToFloat(b.BatteryOK) + boolToFloat(b.PayloadOK) + boolToFloat(b.RangeOK)) / 3
}

// Score rates drone for order picked up at restaurant. Higher is better and there is no
// fixed upper bound, so rank on it rather than threshold it.
func Score(drone models.Drone, order models.Order, restaurant geo.Point) float64 {
	return Evaluate(drone, order, restaurant).Total
}

// Evaluate computes the score together with its intermediate values.
//
// NOTE: the battery term is the raw 0-100 level while the other four terms are scaled
// by 100. Existing rankings depend on this arithmetic; do not normalise it.
func Evaluate(drone models.Drone, order models.Order, restaurant geo.Point) Breakdown {
	var b Breakdown
	b.DroneToRestaurantKm = geo.Between(drone.Position(restaurant), restaurant)
	b.RestaurantToDeliveryKm = geo.Between(restaurant, order.Delivery())
	b.TotalDistanceKm = b.DroneToRestaurantKm + b.RestaurantToDeliveryKm
	b.OrderWeightKg = EstimateWeight(order.Total.InexactFloat64())
	// Round trip is modelled as twice the one-way mission distance.
	b.BatteryNeeded = geo.BatteryConsumption(b.TotalDistanceKm*2, b.OrderWeightKg)

	b.BatteryOK = drone.BatteryLevel >= b.BatteryNeeded*batterySafetyMargin
	b.PayloadOK = drone.Headroom() >= b.OrderWeightKg
	b.RangeOK = b.TotalDistanceKm <= drone.MaxRange

	distanceFactor := 1 / (b.DroneToRestaurantKm + 1)
	var payloadRatio float64
	if drone.MaxPayload > 0 {
		payloadRatio = drone.Headroom() / drone.MaxPayload
	}
	availability := boolToFloat(drone.Status == models.DroneStatusAvailable)

	b.Total = distanceFactor*weightDistance*100 +
		drone.BatteryLevel*weightBattery +
		payloadRatio*weightPayload*100 +
		availability*weightAvailability*100 +
		b.Feasibility()*weightCapabilities*100
	return b
}

func boolToFloat(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
