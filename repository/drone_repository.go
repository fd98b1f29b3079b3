package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"droneDispatch/internal/apperr"
	"droneDispatch/models"
)

const droneColumns = `id, code, status, battery_level, current_lat, current_lng, max_payload, current_payload, max_range, max_speed, updated_at`

type DroneRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewDroneRepository(db *sql.DB) *DroneRepository {
	return &DroneRepository{db: db, now: time.Now}
}

// Create inserts a new drone. ID defaults to a fresh UUID and status to 'available'.
func (r *DroneRepository) Create(ctx context.Context, d *models.Drone) (*models.Drone, error) {
	if d == nil {
		return nil, errors.New("drone is nil")
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = models.DroneStatusAvailable
	}
	d.UpdatedAt = r.now().UTC()
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `INSERT INTO drones (`+droneColumns+`) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		d.ID, d.Code, string(d.Status), d.BatteryLevel, d.CurrentLatitude, d.CurrentLongitude,
		d.MaxPayload, d.CurrentPayload, d.MaxRange, d.MaxSpeed, formatTime(d.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: drone code %q or id already registered", apperr.ErrConflict, d.Code)
		}
		return nil, err
	}
	return d, nil
}

// GetByID fetches a drone by id; nil when absent.
func (r *DroneRepository) GetByID(ctx context.Context, id string) (*models.Drone, error) {
	return r.getOne(ctx, `SELECT `+droneColumns+` FROM drones WHERE id = ?`, id)
}

// GetByCode fetches a drone by its human code; nil when absent.
func (r *DroneRepository) GetByCode(ctx context.Context, code string) (*models.Drone, error) {
	return r.getOne(ctx, `SELECT `+droneColumns+` FROM drones WHERE code = ?`, code)
}

func (r *DroneRepository) getOne(ctx context.Context, query string, arg any) (*models.Drone, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	d, err := scanDrone(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// ListByStatus returns every drone in the given status ordered by code, which makes the
// pool order (and so score tie-breaking) stable between calls.
func (r *DroneRepository) ListByStatus(ctx context.Context, status models.DroneStatus) ([]models.Drone, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+droneColumns+` FROM drones WHERE status = ? ORDER BY code ASC`, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDrones(rows)
}

// ListDronesParams contains filters and keyset pagination for List.
type ListDronesParams struct {
	Status       *models.DroneStatus
	CodeContains string
	PageSize     int
	AfterCode    string
}

// List returns drones matching filters ordered by code with keyset pagination by code.
func (r *DroneRepository) List(ctx context.Context, p ListDronesParams) ([]models.Drone, error) {
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	where := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if p.Status != nil {
		where = append(where, "status = ?")
		args = append(args, string(*p.Status))
	}
	if s := strings.TrimSpace(p.CodeContains); s != "" {
		where = append(where, "code LIKE ?")
		args = append(args, "%"+s+"%")
	}
	if p.AfterCode != "" {
		where = append(where, "code > ?")
		args = append(args, p.AfterCode)
	}
	query := "SELECT " + droneColumns + " FROM drones"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY code ASC LIMIT ?"
	args = append(args, p.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDrones(rows)
}

// Telemetry is a partial drone state report; nil fields are left unchanged.
// Latitude and longitude are updated together.
type Telemetry struct {
	Latitude       *float64
	Longitude      *float64
	BatteryLevel   *float64
	CurrentPayload *float64
}

// UpdateTelemetry applies a telemetry report.
func (r *DroneRepository) UpdateTelemetry(ctx context.Context, id string, t Telemetry) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	sets := []string{"updated_at = ?"}
	args := []any{formatTime(r.now())}
	if t.Latitude != nil && t.Longitude != nil {
		sets = append(sets, "current_lat = ?", "current_lng = ?")
		args = append(args, *t.Latitude, *t.Longitude)
	}
	if t.BatteryLevel != nil {
		sets = append(sets, "battery_level = ?")
		args = append(args, *t.BatteryLevel)
	}
	if t.CurrentPayload != nil {
		sets = append(sets, "current_payload = ?")
		args = append(args, *t.CurrentPayload)
	}
	args = append(args, id)
	res, err := r.db.ExecContext(ctx, `UPDATE drones SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	return affectedOne(res, err, "drone", id)
}

// UpdateStatus sets the status of a drone.
func (r *DroneRepository) UpdateStatus(ctx context.Context, id string, status models.DroneStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE drones SET status = ?, updated_at = ? WHERE id = ?`, string(status), formatTime(r.now()), id)
	return affectedOne(res, err, "drone", id)
}

// Delete removes a drone unless it is busy. It returns apperr.ErrNotFound when no idle
// drone with that id exists.
func (r *DroneRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM drones WHERE id = ? AND status <> ?`, id, string(models.DroneStatusBusy))
	return affectedOne(res, err, "drone", id)
}

func scanDrone(s scanner) (*models.Drone, error) {
	var d models.Drone
	var status, updated string
	var lat, lng sql.NullFloat64
	if err := s.Scan(&d.ID, &d.Code, &status, &d.BatteryLevel, &lat, &lng,
		&d.MaxPayload, &d.CurrentPayload, &d.MaxRange, &d.MaxSpeed, &updated); err != nil {
		return nil, err
	}
	d.Status = models.DroneStatus(status)
	if lat.Valid && lng.Valid {
		la, ln := lat.Float64, lng.Float64
		d.CurrentLatitude, d.CurrentLongitude = &la, &ln
	}
	t, err := parseTime(updated)
	if err != nil {
		return nil, err
	}
	d.UpdatedAt = t
	return &d, nil
}

func scanDrones(rows *sql.Rows) ([]models.Drone, error) {
	var out []models.Drone
	for rows.Next() {
		d, err := scanDrone(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// affectedOne turns a zero-row update into apperr.ErrNotFound.
func affectedOne(res sql.Result, err error, kind, id string) error {
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, apperr.ErrNotFound)
	}
	return nil
}
