// Package fleet manages drone and restaurant records.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"droneDispatch/internal/apperr"
	"droneDispatch/internal/geo"
	"droneDispatch/models"
	"droneDispatch/repository"
)

// Service coordinates fleet business logic and orchestrates repository calls.
type Service struct {
	drones           droneRepository
	restaurants      restaurantRepository
	operationTimeout time.Duration
}

// NewService creates and configures a fleet Service.
func NewService(d droneRepository, r restaurantRepository, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{drones: d, restaurants: r, operationTimeout: timeout}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// RegisterDrone validates and stores a new drone. Busy cannot be set at registration.
func (s *Service) RegisterDrone(ctx context.Context, d *models.Drone) (*models.Drone, error) {
	if d == nil {
		return nil, apperr.ErrInvalid
	}
	if strings.TrimSpace(d.Code) == "" {
		return nil, fmt.Errorf("drone code is required: %w", apperr.ErrInvalid)
	}
	if d.Status == "" {
		d.Status = models.DroneStatusAvailable
	}
	if d.Status == models.DroneStatusBusy {
		return nil, fmt.Errorf("drone cannot be registered busy: %w", apperr.ErrInvalid)
	}
	// Validate needs an id; the repository assigns one when it is empty.
	probe := *d
	if probe.ID == "" {
		probe.ID = "new"
	}
	if err := probe.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalid, err)
	}
	if d.CurrentPayload > d.MaxPayload {
		return nil, fmt.Errorf("drone %s: current payload exceeds max payload: %w", d.Code, apperr.ErrInvalid)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.drones.Create(ctx, d)
}

// GetDrone returns a drone or apperr.ErrNotFound.
func (s *Service) GetDrone(ctx context.Context, id string) (*models.Drone, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	d, err := s.drones.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("drone %s: %w", id, apperr.ErrNotFound)
	}
	return d, nil
}

// GetDroneByCode looks a drone up by its fleet code.
func (s *Service) GetDroneByCode(ctx context.Context, code string) (*models.Drone, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("drone code is required: %w", apperr.ErrInvalid)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	d, err := s.drones.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("drone %s: %w", code, apperr.ErrNotFound)
	}
	return d, nil
}

// DecommissionDrone removes a drone from the fleet. A drone on a delivery cannot be removed.
func (s *Service) DecommissionDrone(ctx context.Context, id string) error {
	current, err := s.GetDrone(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == models.DroneStatusBusy {
		return fmt.Errorf("drone %s is on a delivery: %w", id, apperr.ErrConflict)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	err = s.drones.Delete(ctx, id)
	if errors.Is(err, apperr.ErrNotFound) {
		// Claimed by a dispatch between the read and the delete.
		return fmt.Errorf("drone %s is on a delivery: %w", id, apperr.ErrConflict)
	}
	return err
}

// ListDrones returns one page of drones ordered by code.
func (s *Service) ListDrones(ctx context.Context, p repository.ListDronesParams) ([]models.Drone, error) {
	if p.Status != nil && !p.Status.Valid() {
		return nil, fmt.Errorf("unknown drone status %q: %w", *p.Status, apperr.ErrInvalid)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.drones.List(ctx, p)
}

// ReportTelemetry applies a partial position/battery/payload report.
func (s *Service) ReportTelemetry(ctx context.Context, id string, t repository.Telemetry) (*models.Drone, error) {
	if err := validateTelemetry(t); err != nil {
		return nil, err
	}
	current, err := s.GetDrone(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.CurrentPayload != nil && *t.CurrentPayload > current.MaxPayload {
		return nil, fmt.Errorf("payload %.2f exceeds max payload %.2f: %w", *t.CurrentPayload, current.MaxPayload, apperr.ErrInvalid)
	}
	uctx, cancel := s.withTimeout(ctx)
	err = s.drones.UpdateTelemetry(uctx, id, t)
	cancel()
	if err != nil {
		return nil, err
	}
	return s.GetDrone(ctx, id)
}

// SetDroneStatus moves a drone between available, maintenance and offline. Busy is owned
// by the dispatcher and can neither be set nor left through this call.
func (s *Service) SetDroneStatus(ctx context.Context, id string, status models.DroneStatus) (*models.Drone, error) {
	if !status.Valid() || status == models.DroneStatusBusy {
		return nil, fmt.Errorf("status %q cannot be set manually: %w", status, apperr.ErrInvalid)
	}
	current, err := s.GetDrone(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == models.DroneStatusBusy {
		return nil, fmt.Errorf("drone %s is on a delivery: %w", id, apperr.ErrConflict)
	}
	uctx, cancel := s.withTimeout(ctx)
	err = s.drones.UpdateStatus(uctx, id, status)
	cancel()
	if err != nil {
		return nil, err
	}
	return s.GetDrone(ctx, id)
}

// CreateRestaurant validates and stores a pickup location.
func (s *Service) CreateRestaurant(ctx context.Context, r *models.Restaurant) (*models.Restaurant, error) {
	if r == nil || strings.TrimSpace(r.Name) == "" {
		return nil, fmt.Errorf("restaurant name is required: %w", apperr.ErrInvalid)
	}
	if !r.Location().Valid() {
		return nil, fmt.Errorf("restaurant location out of range: %w", apperr.ErrInvalid)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.restaurants.Create(ctx, r)
}

func (s *Service) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	r, err := s.restaurants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("restaurant %s: %w", id, apperr.ErrNotFound)
	}
	return r, nil
}

func (s *Service) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.restaurants.List(ctx)
}

func validateTelemetry(t repository.Telemetry) error {
	if t.Latitude == nil && t.Longitude == nil && t.BatteryLevel == nil && t.CurrentPayload == nil {
		return fmt.Errorf("empty telemetry report: %w", apperr.ErrInvalid)
	}
	if (t.Latitude == nil) != (t.Longitude == nil) {
		return fmt.Errorf("latitude and longitude must be reported together: %w", apperr.ErrInvalid)
	}
	if t.Latitude != nil && !(geo.Point{Lat: *t.Latitude, Lng: *t.Longitude}).Valid() {
		return fmt.Errorf("position out of range: %w", apperr.ErrInvalid)
	}
	if b := t.BatteryLevel; b != nil && (math.IsNaN(*b) || *b < 0 || *b > 100) {
		return fmt.Errorf("battery level outside 0-100: %w", apperr.ErrInvalid)
	}
	if p := t.CurrentPayload; p != nil && (math.IsNaN(*p) || *p < 0) {
		return fmt.Errorf("payload must not be negative: %w", apperr.ErrInvalid)
	}
	return nil
}
