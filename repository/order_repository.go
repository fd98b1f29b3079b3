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

const orderColumns = `id, restaurant_id, delivery_lat, delivery_lng, total, created_at, status, assigned_drone_id, assigned_at`

// OrderRepository stores orders awaiting or undergoing delivery.
type OrderRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db, now: time.Now}
}

// Create inserts a new order. ID defaults to a fresh UUID, status to 'pending' and
// CreatedAt to now. A duplicate id yields apperr.ErrConflict.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	if o == nil {
		return nil, errors.New("order is nil")
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = r.now()
	}
	o.CreatedAt = o.CreatedAt.UTC()
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var assignedAt any
	if o.AssignedAt != nil {
		assignedAt = formatTime(*o.AssignedAt)
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO orders (`+orderColumns+`) VALUES (?,?,?,?,?,?,?,?,?)`,
		o.ID, o.RestaurantID, o.DeliveryLatitude, o.DeliveryLongitude, o.Total.String(),
		formatTime(o.CreatedAt), string(o.Status), o.AssignedDroneID, assignedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("order %s: %w", o.ID, apperr.ErrConflict)
		}
		return nil, err
	}
	return o, nil
}

// GetByID fetches an order by its ID; nil when absent.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// ListByStatus returns orders in any of the given statuses, oldest first.
func (r *OrderRepository) ListByStatus(ctx context.Context, statuses ...models.OrderStatus) ([]models.Order, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, s := range statuses {
		placeholders[i] = "?"
		args[i] = string(s)
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE status IN (`+strings.Join(placeholders, ",")+`) ORDER BY created_at ASC, id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPending returns the orders waiting for a drone, oldest first.
func (r *OrderRepository) ListPending(ctx context.Context) ([]models.Order, error) {
	return r.ListByStatus(ctx, models.OrderStatusPending)
}

func scanOrder(s scanner) (*models.Order, error) {
	var o models.Order
	var status, created string
	var droneID, assignedAt sql.NullString
	if err := s.Scan(&o.ID, &o.RestaurantID, &o.DeliveryLatitude, &o.DeliveryLongitude, &o.Total,
		&created, &status, &droneID, &assignedAt); err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	t, err := parseTime(created)
	if err != nil {
		return nil, err
	}
	o.CreatedAt = t
	if droneID.Valid {
		v := droneID.String
		o.AssignedDroneID = &v
	}
	if assignedAt.Valid {
		at, err := parseTime(assignedAt.String)
		if err != nil {
			return nil, err
		}
		o.AssignedAt = &at
	}
	return &o, nil
}
