package dispatch

import (
	"testing"

	"github.com/stretchr/testify/require"

	"droneDispatch/models"
)

func TestScore_ExactArithmetic(t *testing.T) {
	// Everything co-located: distance factor 1, full headroom, all checks pass.
	// 25 + 90*0.20 + 15 + 15 + 25
	d := droneAtRestaurant("a")
	o := orderTo("o1", 0, 0, 0)
	require.InDelta(t, 98.0, Score(d, o, restaurant), 1e-9)
}

func TestEvaluate_Breakdown(t *testing.T) {
	d := droneAtRestaurant("a")
	d.CurrentLatitude, d.CurrentLongitude = ptr(0.01), ptr(0)
	o := orderTo("o1", 0, 0.02, 20_000)

	b := Evaluate(d, o, restaurant)
	require.InDelta(t, 1.1119, b.DroneToRestaurantKm, 1e-3)
	require.InDelta(t, 2.2239, b.RestaurantToDeliveryKm, 1e-3)
	require.InDelta(t, b.DroneToRestaurantKm+b.RestaurantToDeliveryKm, b.TotalDistanceKm, 1e-12)
	require.InDelta(t, 0.7, b.OrderWeightKg, 1e-12)
	require.InDelta(t, b.TotalDistanceKm*2*2+0.7*0.5, b.BatteryNeeded, 1e-9)
	require.True(t, b.BatteryOK)
	require.True(t, b.PayloadOK)
	require.True(t, b.RangeOK)
	require.Equal(t, 1.0, b.Feasibility())
	require.Equal(t, b.Total, Score(d, o, restaurant))
}

func TestEvaluate_FeasibilityIsSoft(t *testing.T) {
	d := droneAtRestaurant("a")
	d.BatteryLevel = 31
	d.CurrentPayload = 4.8
	// ~11 km away: battery needed ~44.5 * 1.2 > 31, headroom 0.2 < 0.5 kg, range still fine.
	o := orderTo("o1", 0.1, 0, 0)

	b := Evaluate(d, o, restaurant)
	require.False(t, b.BatteryOK)
	require.False(t, b.PayloadOK)
	require.True(t, b.RangeOK)
	require.InDelta(t, 1.0/3, b.Feasibility(), 1e-12)
	require.Greater(t, b.Total, 0.0)
}

func TestScore_UnavailableLosesAvailabilityTerm(t *testing.T) {
	o := orderTo("o1", 0, 0, 0)
	avail := droneAtRestaurant("a")
	busy := avail
	busy.Status = models.DroneStatusBusy
	require.InDelta(t, 15.0, Score(avail, o, restaurant)-Score(busy, o, restaurant), 1e-9)
}

func TestScore_CloserDroneScoresHigher(t *testing.T) {
	o := orderTo("o1", 0.01, 0.01, 5_000)
	near := droneAtRestaurant("near")
	far := droneAtRestaurant("far")
	far.CurrentLatitude = ptr(0.05)
	require.Greater(t, Score(near, o, restaurant), Score(far, o, restaurant))
}

func TestScore_MissingPositionMeansAtRestaurant(t *testing.T) {
	o := orderTo("o1", 0.01, 0.01, 5_000)
	placed := droneAtRestaurant("a")
	unplaced := placed
	unplaced.CurrentLatitude, unplaced.CurrentLongitude = nil, nil
	require.Equal(t, Score(placed, o, restaurant), Score(unplaced, o, restaurant))
}
