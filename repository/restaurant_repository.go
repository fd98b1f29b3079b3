package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"droneDispatch/models"
)

type RestaurantRepository struct {
	db *sql.DB
}

func NewRestaurantRepository(db *sql.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

// Create inserts a restaurant, generating its id when empty.
func (r *RestaurantRepository) Create(ctx context.Context, rest *models.Restaurant) (*models.Restaurant, error) {
	if rest == nil {
		return nil, errors.New("restaurant is nil")
	}
	if rest.ID == "" {
		rest.ID = uuid.NewString()
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if _, err := r.db.ExecContext(ctx, `INSERT INTO restaurants (id, name, lat, lng) VALUES (?,?,?,?)`,
		rest.ID, rest.Name, rest.Lat, rest.Lng); err != nil {
		return nil, err
	}
	return rest, nil
}

func (r *RestaurantRepository) GetByID(ctx context.Context, id string) (*models.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var rest models.Restaurant
	err := r.db.QueryRowContext(ctx, `SELECT id, name, lat, lng FROM restaurants WHERE id = ?`, id).
		Scan(&rest.ID, &rest.Name, &rest.Lat, &rest.Lng)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rest, nil
}

func (r *RestaurantRepository) List(ctx context.Context) ([]models.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, lat, lng FROM restaurants ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Restaurant
	for rows.Next() {
		var rest models.Restaurant
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.Lat, &rest.Lng); err != nil {
			return nil, err
		}
		out = append(out, rest)
	}
	return out, rows.Err()
}
