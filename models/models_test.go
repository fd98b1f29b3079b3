package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"droneDispatch/internal/geo"
)

func fptr(v float64) *float64 { return &v }

func validDrone() Drone {
	return Drone{ID: "d1", Code: "DR-1", Status: DroneStatusAvailable, BatteryLevel: 80, MaxPayload: 5, MaxRange: 20, MaxSpeed: 50}
}

func TestDrone_Validate(t *testing.T) {
	if err := validDrone().Validate(); err != nil {
		t.Fatalf("valid drone rejected: %v", err)
	}
	bad := []func(d *Drone){
		func(d *Drone) { d.ID = "" },
		func(d *Drone) { d.Status = "flying" },
		func(d *Drone) { d.BatteryLevel = 101 },
		func(d *Drone) { d.BatteryLevel = -1 },
		func(d *Drone) { d.MaxSpeed = 0 },
		func(d *Drone) { d.MaxPayload = 0 },
		func(d *Drone) { d.CurrentPayload = -1 },
		func(d *Drone) { d.MaxRange = -5 },
		func(d *Drone) { d.CurrentLatitude = fptr(1) },
		func(d *Drone) { d.CurrentLatitude, d.CurrentLongitude = fptr(95), fptr(0) },
	}
	for i, mutate := range bad {
		d := validDrone()
		mutate(&d)
		if err := d.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error for %+v", i, d)
		}
	}
}

func TestDrone_PositionFallsBackToRestaurant(t *testing.T) {
	d := validDrone()
	rest := geo.Point{Lat: 1, Lng: 2}
	if got := d.Position(rest); got != rest {
		t.Fatalf("Position without coordinates = %+v, want %+v", got, rest)
	}
	d.CurrentLatitude, d.CurrentLongitude = fptr(3), fptr(4)
	if got := d.Position(rest); got != (geo.Point{Lat: 3, Lng: 4}) {
		t.Fatalf("Position = %+v", got)
	}
}

func TestOrder_Validate(t *testing.T) {
	o := Order{ID: "o1", DeliveryLatitude: 1, DeliveryLongitude: 1, Total: decimal.NewFromInt(100), CreatedAt: time.Now()}
	if err := o.Validate(); err != nil {
		t.Fatalf("valid order rejected: %v", err)
	}
	o.Total = decimal.NewFromInt(-1)
	if err := o.Validate(); err == nil {
		t.Fatalf("expected error for negative total")
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	if OrderStatusPending.Terminal() || OrderStatusAssigned.Terminal() {
		t.Fatalf("open statuses reported terminal")
	}
	if !OrderStatusDelivered.Terminal() || !OrderStatusCancelled.Terminal() || !OrderStatusFailed.Terminal() {
		t.Fatalf("closed statuses not terminal")
	}
}
