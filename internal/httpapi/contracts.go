package httpapi

import (
	"context"

	"droneDispatch/internal/dispatch"
	"droneDispatch/internal/dispatcher"
	"droneDispatch/models"
	"droneDispatch/repository"
)

type fleetUsecase interface {
	RegisterDrone(ctx context.Context, d *models.Drone) (*models.Drone, error)
	GetDrone(ctx context.Context, id string) (*models.Drone, error)
	GetDroneByCode(ctx context.Context, code string) (*models.Drone, error)
	DecommissionDrone(ctx context.Context, id string) error
	ListDrones(ctx context.Context, p repository.ListDronesParams) ([]models.Drone, error)
	ReportTelemetry(ctx context.Context, id string, t repository.Telemetry) (*models.Drone, error)
	SetDroneStatus(ctx context.Context, id string, status models.DroneStatus) (*models.Drone, error)
	CreateRestaurant(ctx context.Context, r *models.Restaurant) (*models.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]models.Restaurant, error)
}

type dispatchUsecase interface {
	PlaceOrder(ctx context.Context, o *models.Order) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	Queue(ctx context.Context) ([]dispatch.QueuedOrder, error)
	Recommend(ctx context.Context, orderID string) (*dispatcher.Recommendation, error)
	DispatchOrder(ctx context.Context, orderID string) (*dispatcher.Result, error)
	DispatchPending(ctx context.Context) (dispatcher.PassReport, error)
	Complete(ctx context.Context, orderID string, delivered bool) (*models.Order, error)
	Cancel(ctx context.Context, orderID string) (*models.Order, error)
}
