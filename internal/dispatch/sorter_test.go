package dispatch

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"droneDispatch/internal/geo"
	"droneDispatch/models"
)

func restaurantAt(lat, lng float64) geo.Point { return geo.Point{Lat: lat, Lng: lng} }

func orderCreated(id string, now time.Time, ago time.Duration, total int64) models.Order {
	o := orderTo(id, 0.01, 0.01, total)
	o.CreatedAt = now.Add(-ago)
	return o
}

func ids(orders []models.Order) []string {
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.ID
	}
	return out
}

func TestSortByUrgency_UrgentFirstRegardlessOfTotal(t *testing.T) {
	now := time.Now()
	fresh := orderCreated("fresh", now, 5*time.Minute, 900_000)
	stale := orderCreated("stale", now, 35*time.Minute, 1_000)

	sorted := SortByUrgency([]models.Order{fresh, stale}, now)
	require.Equal(t, []string{"stale", "fresh"}, ids(sorted))
}

func TestSortByUrgency_TwoTiers(t *testing.T) {
	now := time.Now()
	in := []models.Order{
		orderCreated("high-29", now, 29*time.Minute, 0),
		orderCreated("low-2", now, 2*time.Minute, 0),
		orderCreated("urgent-31", now, 31*time.Minute, 0),
		orderCreated("medium-15", now, 15*time.Minute, 0),
		orderCreated("urgent-90", now, 90*time.Minute, 0),
	}
	sorted := SortByUrgency(in, now)
	require.Equal(t, []string{"urgent-90", "urgent-31", "high-29", "medium-15", "low-2"}, ids(sorted))
	// Input untouched.
	require.Equal(t, "high-29", in[0].ID)
}

func TestSortByUrgency_TiesAreStable(t *testing.T) {
	now := time.Now()
	a := orderCreated("a", now, 12*time.Minute, 0)
	b := orderCreated("b", now, 12*time.Minute, 0)
	b.Total = decimal.NewFromInt(99)
	require.Equal(t, []string{"a", "b"}, ids(SortByUrgency([]models.Order{a, b}, now)))
	require.Equal(t, []string{"b", "a"}, ids(SortByUrgency([]models.Order{b, a}, now)))
}

func TestPrioritize_ReportsPriority(t *testing.T) {
	now := time.Now()
	q := Prioritize([]models.Order{orderCreated("x", now, 21*time.Minute, 0)}, now)
	require.Len(t, q, 1)
	require.Equal(t, LevelHigh, q[0].Priority.Level)
	require.Equal(t, 21, q[0].Priority.WaitingMinutes)
}

func TestSortByUrgency_Empty(t *testing.T) {
	require.Empty(t, SortByUrgency(nil, time.Now()))
}
