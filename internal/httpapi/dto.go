package httpapi

import (
	"github.com/shopspring/decimal"

	"droneDispatch/models"
	"droneDispatch/repository"
)

type createDroneRequest struct {
	ID             string             `json:"id"`
	Code           string             `json:"code"`
	Status         models.DroneStatus `json:"status"`
	BatteryLevel   float64            `json:"battery_level"`
	Latitude       *float64           `json:"current_latitude"`
	Longitude      *float64           `json:"current_longitude"`
	MaxPayload     float64            `json:"max_payload"`
	CurrentPayload float64            `json:"current_payload"`
	MaxRange       float64            `json:"max_range"`
	MaxSpeed       float64            `json:"max_speed"`
}

func (r createDroneRequest) toModel() *models.Drone {
	return &models.Drone{
		ID:               r.ID,
		Code:             r.Code,
		Status:           r.Status,
		BatteryLevel:     r.BatteryLevel,
		CurrentLatitude:  r.Latitude,
		CurrentLongitude: r.Longitude,
		MaxPayload:       r.MaxPayload,
		CurrentPayload:   r.CurrentPayload,
		MaxRange:         r.MaxRange,
		MaxSpeed:         r.MaxSpeed,
	}
}

type telemetryRequest struct {
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	BatteryLevel   *float64 `json:"battery_level"`
	CurrentPayload *float64 `json:"current_payload"`
}

func (r telemetryRequest) toTelemetry() repository.Telemetry {
	return repository.Telemetry{
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		BatteryLevel:   r.BatteryLevel,
		CurrentPayload: r.CurrentPayload,
	}
}

type statusRequest struct {
	Status models.DroneStatus `json:"status"`
}

type createRestaurantRequest struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type createOrderRequest struct {
	ID                string          `json:"id"`
	RestaurantID      string          `json:"restaurant_id"`
	DeliveryLatitude  float64         `json:"delivery_latitude"`
	DeliveryLongitude float64         `json:"delivery_longitude"`
	Total             decimal.Decimal `json:"total"`
}

func (r createOrderRequest) toModel() *models.Order {
	// Creation time is always stamped by the service.
	return &models.Order{
		ID:                r.ID,
		RestaurantID:      r.RestaurantID,
		DeliveryLatitude:  r.DeliveryLatitude,
		DeliveryLongitude: r.DeliveryLongitude,
		Total:             r.Total,
	}
}

type completeRequest struct {
	Delivered bool `json:"delivered"`
}
