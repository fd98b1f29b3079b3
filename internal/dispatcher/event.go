package dispatcher

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderPlaced is the checkout event that makes an order dispatchable.
type OrderPlaced struct {
	OrderID           string          `json:"order_id"`
	RestaurantID      string          `json:"restaurant_id"`
	DeliveryLatitude  float64         `json:"delivery_latitude"`
	DeliveryLongitude float64         `json:"delivery_longitude"`
	Total             decimal.Decimal `json:"total"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Assignment is published once a drone has been committed to an order.
type Assignment struct {
	OrderID      string    `json:"order_id"`
	DroneID      string    `json:"drone_id"`
	RestaurantID string    `json:"restaurant_id"`
	Score        float64   `json:"score"`
	ETAMinutes   int       `json:"eta_minutes"`
	DistanceKm   float64   `json:"distance_km"`
	AssignedAt   time.Time `json:"assigned_at"`
}
