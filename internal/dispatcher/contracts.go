package dispatcher

import (
	"context"
	"time"

	"droneDispatch/models"
)

// DroneStore reads the fleet.
type DroneStore interface {
	GetByID(ctx context.Context, id string) (*models.Drone, error)
	ListByStatus(ctx context.Context, status models.DroneStatus) ([]models.Drone, error)
}

// OrderStore persists orders. GetByID returns nil, nil when the order does not exist.
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	ListPending(ctx context.Context) ([]models.Order, error)
}

type RestaurantStore interface {
	GetByID(ctx context.Context, id string) (*models.Restaurant, error)
}

// Assigner changes an order and its drone together. Assign fails with an error wrapping
// apperr.ErrConflict when either side was taken concurrently.
type Assigner interface {
	Assign(ctx context.Context, orderID, droneID string, at time.Time) error
	Release(ctx context.Context, orderID string, status models.OrderStatus) (string, error)
}

// Publisher announces committed assignments to downstream systems.
type Publisher interface {
	PublishAssignment(ctx context.Context, a Assignment) error
}

// Metrics receives dispatcher measurements.
type Metrics interface {
	Decision(outcome string)
	Selection(d time.Duration)
	QueueDepth(n int)
	Retry()
}

type nopPublisher struct{}

func (nopPublisher) PublishAssignment(context.Context, Assignment) error { return nil }

type nopMetrics struct{}

func (nopMetrics) Decision(string)         {}
func (nopMetrics) Selection(time.Duration) {}
func (nopMetrics) QueueDepth(int)          {}
func (nopMetrics) Retry()                  {}
