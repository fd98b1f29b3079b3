package dispatch

import (
	"time"

	"github.com/shopspring/decimal"

	"droneDispatch/internal/geo"
	"droneDispatch/models"
)

var restaurant = geo.Point{Lat: 0, Lng: 0}

func ptr(v float64) *float64 { return &v }

// droneAtRestaurant mirrors the reference drone: battery 90, 5 kg payload, 20 km range, 50 km/h.
func droneAtRestaurant(id string) models.Drone {
	return models.Drone{
		ID:               id,
		Code:             "DR-" + id,
		Status:           models.DroneStatusAvailable,
		BatteryLevel:     90,
		CurrentLatitude:  ptr(restaurant.Lat),
		CurrentLongitude: ptr(restaurant.Lng),
		MaxPayload:       5,
		CurrentPayload:   0,
		MaxRange:         20,
		MaxSpeed:         50,
	}
}

func orderTo(id string, lat, lng float64, total int64) models.Order {
	return models.Order{
		ID:                id,
		RestaurantID:      "r1",
		DeliveryLatitude:  lat,
		DeliveryLongitude: lng,
		Total:             decimal.NewFromInt(total),
		CreatedAt:         time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Status:            models.OrderStatusPending,
	}
}
