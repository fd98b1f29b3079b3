package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"droneDispatch/internal/apperr"
	"droneDispatch/models"
)

// DispatchRepository moves an order and a drone through assignment together.
type DispatchRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewDispatchRepository(db *sql.DB) *DispatchRepository {
	return &DispatchRepository{db: db, now: time.Now}
}

// Assign marks the drone busy and the order assigned to it in one transaction. Both
// updates are conditional: the drone must still be available and the order still
// pending, otherwise nothing changes and ErrAssignConflict is returned.
func (r *DispatchRepository) Assign(ctx context.Context, orderID, droneID string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stamp := formatTime(at)
	res, err := tx.ExecContext(ctx, `UPDATE drones SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(models.DroneStatusBusy), stamp, droneID, string(models.DroneStatusAvailable))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return fmt.Errorf("drone %s: %w", droneID, ErrAssignConflict)
	}

	res, err = tx.ExecContext(ctx, `UPDATE orders SET status = ?, assigned_drone_id = ?, assigned_at = ? WHERE id = ? AND status = ?`,
		string(models.OrderStatusAssigned), droneID, stamp, orderID, string(models.OrderStatusPending))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("drone %s: %w", droneID, ErrAssignConflict)
		}
		return err
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return fmt.Errorf("order %s: %w", orderID, ErrAssignConflict)
	}
	return tx.Commit()
}

// Release closes a pending or assigned order with status and returns its drone, if any,
// to available. It returns the released drone id, empty when the order had none.
// Closing an already closed order yields apperr.ErrConflict.
func (r *DispatchRepository) Release(ctx context.Context, orderID string, status models.OrderStatus) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var droneID sql.NullString
	err = tx.QueryRowContext(ctx, `SELECT assigned_drone_id FROM orders WHERE id = ?`, orderID).Scan(&droneID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("order %s: %w", orderID, apperr.ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	res, err := tx.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ? AND status IN (?, ?)`,
		string(status), orderID, string(models.OrderStatusPending), string(models.OrderStatusAssigned))
	if err != nil {
		return "", err
	}
	if n, _ := res.RowsAffected(); n != 1 {
		return "", fmt.Errorf("order %s already closed: %w", orderID, apperr.ErrConflict)
	}
	if droneID.Valid {
		if _, err := tx.ExecContext(ctx, `UPDATE drones SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
			string(models.DroneStatusAvailable), formatTime(r.now()), droneID.String, string(models.DroneStatusBusy)); err != nil {
			return "", err
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return droneID.String, nil
}
