package events

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"droneDispatch/internal/dispatcher"
)

// orderPlacedDTO is the checkout service's order-placed payload.
type orderPlacedDTO struct {
	OrderID      string `json:"order_id"`
	RestaurantID string `json:"restaurant_id"`
	Delivery     struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"delivery"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

func (d orderPlacedDTO) toEvent() dispatcher.OrderPlaced {
	return dispatcher.OrderPlaced{
		OrderID:           strings.TrimSpace(d.OrderID),
		RestaurantID:      strings.TrimSpace(d.RestaurantID),
		DeliveryLatitude:  d.Delivery.Lat,
		DeliveryLongitude: d.Delivery.Lng,
		Total:             d.Total,
		CreatedAt:         d.CreatedAt,
	}
}
