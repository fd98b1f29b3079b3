package geo

import (
	"errors"
	"math"
)

const (
	// EarthRadiusKm is Earth's mean radius in kilometers for the Haversine calculation.
	EarthRadiusKm = 6371.0
	// DefaultSpeedKmh is the cruise speed assumed when a caller has no drone speed at hand.
	DefaultSpeedKmh = 50.0
	// BatteryPerKm is the battery cost in percentage points per kilometer flown.
	BatteryPerKm = 2.0
	// BatteryPerKg is the battery cost in percentage points per kilogram carried.
	BatteryPerKg = 0.5
	// ArrivalRadiusKm is how close a drone must be to a point to count as arrived (100 m).
	ArrivalRadiusKm = 0.1
)

// ErrInvalidSpeed is returned when an ETA is requested for a non-positive speed.
var ErrInvalidSpeed = errors.New("speed must be positive")

// Point is a latitude/longitude pair in signed decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point holds finite, in-range coordinates.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// DistanceKm calculates the great-circle distance between two points
// on Earth in kilometers using the Haversine formula.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180
	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// Between is DistanceKm for two Points.
func Between(a, b Point) float64 {
	return DistanceKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

// ETAMinutes returns the whole minutes (rounded up) needed to cover distanceKm at speedKmh.
func ETAMinutes(distanceKm, speedKmh float64) (int, error) {
	if speedKmh <= 0 || math.IsNaN(speedKmh) {
		return 0, ErrInvalidSpeed
	}
	if distanceKm <= 0 {
		return 0, nil
	}
	return int(math.Ceil((distanceKm / speedKmh) * 60)), nil
}

// ETAMinutesDefault is ETAMinutes at DefaultSpeedKmh.
func ETAMinutesDefault(distanceKm float64) int {
	eta, _ := ETAMinutes(distanceKm, DefaultSpeedKmh)
	return eta
}

// BatteryConsumption estimates the battery (percentage points) spent flying distanceKm
// while carrying payloadKg. Pass a doubled distance for a round trip.
func BatteryConsumption(distanceKm, payloadKg float64) float64 {
	return distanceKm*BatteryPerKm + payloadKg*BatteryPerKg
}

// WithinRadiusKm checks if two points are within radiusKm of each other.
func WithinRadiusKm(a, b Point, radiusKm float64) bool {
	return Between(a, b) <= radiusKm
}
