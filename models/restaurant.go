package models

import "droneDispatch/internal/geo"

// Restaurant is the pickup point for its orders.
type Restaurant struct {
	ID   string  `db:"id" json:"id"`
	Name string  `db:"name" json:"name"`
	Lat  float64 `db:"lat" json:"lat"`
	Lng  float64 `db:"lng" json:"lng"`
}

// Location returns the restaurant coordinates.
func (r Restaurant) Location() geo.Point {
	return geo.Point{Lat: r.Lat, Lng: r.Lng}
}
