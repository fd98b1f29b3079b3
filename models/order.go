package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"droneDispatch/internal/geo"
)

// OrderStatus represents the current progress of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAssigned  OrderStatus = "assigned"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusFailed    OrderStatus = "failed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusFailed, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a placed purchase awaiting delivery from RestaurantID to the delivery point.
// Total is the monetary amount and doubles as the package weight proxy.
type Order struct {
	ID                string          `db:"id" json:"id"`
	RestaurantID      string          `db:"restaurant_id" json:"restaurant_id"`
	DeliveryLatitude  float64         `db:"delivery_lat" json:"delivery_latitude"`
	DeliveryLongitude float64         `db:"delivery_lng" json:"delivery_longitude"`
	Total             decimal.Decimal `db:"total" json:"total"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	Status            OrderStatus     `db:"status" json:"status"`
	AssignedDroneID   *string         `db:"assigned_drone_id" json:"assigned_drone_id,omitempty"`
	AssignedAt        *time.Time      `db:"assigned_at" json:"assigned_at,omitempty"`
}

// Delivery returns the destination point.
func (o Order) Delivery() geo.Point {
	return geo.Point{Lat: o.DeliveryLatitude, Lng: o.DeliveryLongitude}
}

// Validate checks that the record is well-formed for dispatch math.
func (o Order) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return fmt.Errorf("order: empty id")
	}
	if !o.Delivery().Valid() {
		return fmt.Errorf("order %s: delivery point out of range", o.ID)
	}
	if o.Total.IsNegative() {
		return fmt.Errorf("order %s: negative total", o.ID)
	}
	if o.CreatedAt.IsZero() {
		return fmt.Errorf("order %s: missing creation time", o.ID)
	}
	return nil
}
