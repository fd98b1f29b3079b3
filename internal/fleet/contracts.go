package fleet

import (
	"context"

	"droneDispatch/models"
	"droneDispatch/repository"
)

// droneRepository defines the drone storage operations the fleet layer needs.
type droneRepository interface {
	Create(ctx context.Context, d *models.Drone) (*models.Drone, error)
	GetByID(ctx context.Context, id string) (*models.Drone, error)
	GetByCode(ctx context.Context, code string) (*models.Drone, error)
	List(ctx context.Context, p repository.ListDronesParams) ([]models.Drone, error)
	UpdateTelemetry(ctx context.Context, id string, t repository.Telemetry) error
	UpdateStatus(ctx context.Context, id string, status models.DroneStatus) error
	Delete(ctx context.Context, id string) error
}

type restaurantRepository interface {
	Create(ctx context.Context, r *models.Restaurant) (*models.Restaurant, error)
	GetByID(ctx context.Context, id string) (*models.Restaurant, error)
	List(ctx context.Context) ([]models.Restaurant, error)
}
