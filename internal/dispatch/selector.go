package dispatch

import (
	"fmt"
	"sort"

	"droneDispatch/internal/apperr"
	"droneDispatch/internal/geo"
	"droneDispatch/models"
)

// MinBatteryLevel is the hard battery floor for dispatch, independent of trip cost.
const MinBatteryLevel = 30.0

// DroneScore is a candidate drone for one order. It only lives for one selection call.
type DroneScore struct {
	Drone      models.Drone `json:"drone"`
	Score      float64      `json:"score"`
	DistanceKm float64      `json:"distance_km"`
	ETAMinutes int          `json:"eta_minutes"`
	Breakdown  Breakdown    `json:"breakdown"`
}

// SelectBest returns the highest scoring eligible drone for order, or nil when the pool is
// empty or no drone clears the eligibility gate. A nil result is a normal outcome, not an
// error; errors are reserved for malformed input.
func SelectBest(order models.Order, pool []models.Drone, restaurant geo.Point) (*DroneScore, error) {
	ranked, err := Rank(order, pool, restaurant)
	if err != nil || len(ranked) == 0 {
		return nil, err
	}
	best := ranked[0]
	return &best, nil
}

// Rank scores every eligible drone in pool and returns them best first. Equal scores keep
// their pool order.
func Rank(order models.Order, pool []models.Drone, restaurant geo.Point) ([]DroneScore, error) {
	if len(pool) == 0 {
		return nil, nil
	}
	if err := validateInput(order, pool, restaurant); err != nil {
		return nil, err
	}

	ranked := make([]DroneScore, 0, len(pool))
	for _, d := range pool {
		b := Evaluate(d, order, restaurant)
		if !eligible(d, b) {
			continue
		}
		eta, err := geo.ETAMinutes(b.DroneToRestaurantKm, d.MaxSpeed)
		if err != nil {
			return nil, fmt.Errorf("drone %s: %w: %v", d.ID, apperr.ErrInvalid, err)
		}
		ranked = append(ranked, DroneScore{
			Drone:      d,
			Score:      b.Total,
			DistanceKm: b.DroneToRestaurantKm,
			ETAMinutes: eta,
			Breakdown:  b,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, nil
}

// eligible is the hard gate applied before ranking: the drone must be available, above the
// battery floor, within range of the restaurant, and able to fly the mission with the 20%
// battery margin and the package on board.
func eligible(d models.Drone, b Breakdown) bool {
	if d.Status != models.DroneStatusAvailable {
		return false
	}
	if d.BatteryLevel < MinBatteryLevel {
		return false
	}
	if b.DroneToRestaurantKm > d.MaxRange {
		return false
	}
	return b.BatteryOK && b.PayloadOK
}

func validateInput(order models.Order, pool []models.Drone, restaurant geo.Point) error {
	if !restaurant.Valid() {
		return fmt.Errorf("restaurant location %+v: %w", restaurant, apperr.ErrInvalid)
	}
	if err := order.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	for _, d := range pool {
		if err := d.Validate(); err != nil {
			return fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
		}
	}
	return nil
}
