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

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a dashboard user. An empty role means operator.
func (r *UserRepository) Create(ctx context.Context, username, role string) (*models.User, error) {
	if role == "" {
		role = models.RoleOperator
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `INSERT INTO users (username, role) VALUES (?, ?)`, username, role)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("user %q: %w", username, apperr.ErrConflict)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &models.User{ID: id, Username: username, Role: role}, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u models.User
	err := r.db.QueryRowContext(ctx, `SELECT id, username, role FROM users WHERE username = ?`, username).Scan(&u.ID, &u.Username, &u.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// UpdateRoleByUsername sets the role for the given username.
func (r *UserRepository) UpdateRoleByUsername(ctx context.Context, username, role string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE users SET role = ? WHERE username = ?`, role, username)
	return affectedOne(res, err, "user", username)
}
