package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"droneDispatch/internal/geo"
)

// DroneStatus represents the operational status of a drone.
type DroneStatus string

const (
	DroneStatusAvailable   DroneStatus = "available"
	DroneStatusBusy        DroneStatus = "busy"
	DroneStatusMaintenance DroneStatus = "maintenance"
	DroneStatusOffline     DroneStatus = "offline"
)

// Valid reports whether s is a known drone status.
func (s DroneStatus) Valid() bool {
	switch s {
	case DroneStatusAvailable, DroneStatusBusy, DroneStatusMaintenance, DroneStatusOffline:
		return true
	}
	return false
}

// Drone is a dispatchable delivery unit. Units: battery 0-100 %, payloads kg,
// range km, speed km/h. A nil position means "assume the drone is at the restaurant".
type Drone struct {
	ID               string      `db:"id" json:"id"`
	Code             string      `db:"code" json:"code"`
	Status           DroneStatus `db:"status" json:"status"`
	BatteryLevel     float64     `db:"battery_level" json:"battery_level"`
	CurrentLatitude  *float64    `db:"current_lat" json:"current_latitude,omitempty"`
	CurrentLongitude *float64    `db:"current_lng" json:"current_longitude,omitempty"`
	MaxPayload       float64     `db:"max_payload" json:"max_payload"`
	CurrentPayload   float64     `db:"current_payload" json:"current_payload"`
	MaxRange         float64     `db:"max_range" json:"max_range"`
	MaxSpeed         float64     `db:"max_speed" json:"max_speed"`
	UpdatedAt        time.Time   `db:"updated_at" json:"updated_at"`
}

// Headroom is the payload the drone can still take on, in kilograms.
func (d Drone) Headroom() float64 {
	return d.MaxPayload - d.CurrentPayload
}

// HasPosition reports whether both coordinates are known.
func (d Drone) HasPosition() bool {
	return d.CurrentLatitude != nil && d.CurrentLongitude != nil
}

// Position returns the drone's position, or fallback when it has none.
func (d Drone) Position(fallback geo.Point) geo.Point {
	if !d.HasPosition() {
		return fallback
	}
	return geo.Point{Lat: *d.CurrentLatitude, Lng: *d.CurrentLongitude}
}

// Validate checks that the record is numerically well-formed for dispatch math.
func (d Drone) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("drone: empty id")
	}
	if !d.Status.Valid() {
		return fmt.Errorf("drone %s: unknown status %q", d.ID, d.Status)
	}
	if !finite(d.BatteryLevel) || d.BatteryLevel < 0 || d.BatteryLevel > 100 {
		return fmt.Errorf("drone %s: battery level %v outside 0-100", d.ID, d.BatteryLevel)
	}
	if !finite(d.MaxPayload) || d.MaxPayload <= 0 {
		return fmt.Errorf("drone %s: max payload must be positive", d.ID)
	}
	if !finite(d.CurrentPayload) || d.CurrentPayload < 0 {
		return fmt.Errorf("drone %s: current payload must not be negative", d.ID)
	}
	if !finite(d.MaxRange) || d.MaxRange < 0 {
		return fmt.Errorf("drone %s: max range must not be negative", d.ID)
	}
	if !finite(d.MaxSpeed) || d.MaxSpeed <= 0 {
		return fmt.Errorf("drone %s: max speed must be positive", d.ID)
	}
	if (d.CurrentLatitude == nil) != (d.CurrentLongitude == nil) {
		return fmt.Errorf("drone %s: position needs both latitude and longitude", d.ID)
	}
	if d.HasPosition() && !d.Position(geo.Point{}).Valid() {
		return fmt.Errorf("drone %s: position out of range", d.ID)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
