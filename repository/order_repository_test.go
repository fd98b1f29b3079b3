package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"droneDispatch/internal/apperr"
	"droneDispatch/internal/testutil"
	"droneDispatch/models"
)

func seedRestaurant(t *testing.T, ctx context.Context, repo *RestaurantRepository) *models.Restaurant {
	t.Helper()
	r, err := repo.Create(ctx, &models.Restaurant{Name: "Noodle Bar", Lat: 1, Lng: 1})
	require.NoError(t, err)
	return r
}

func TestOrderRepository_CreateAndGet(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "orderrepo")
	orders := NewOrderRepository(d)
	ctx := context.Background()
	rest := seedRestaurant(t, ctx, NewRestaurantRepository(d))

	created := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)
	o, err := orders.Create(ctx, &models.Order{
		RestaurantID:      rest.ID,
		DeliveryLatitude:  1.01,
		DeliveryLongitude: 1.02,
		Total:             decimal.RequireFromString("4599.50"),
		CreatedAt:         created,
	})
	require.NoError(t, err)
	require.NotEmpty(t, o.ID)
	require.Equal(t, models.OrderStatusPending, o.Status)

	got, err := orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.True(t, got.Total.Equal(decimal.RequireFromString("4599.5")), "total %s", got.Total)
	require.True(t, got.CreatedAt.Equal(created))
	require.Equal(t, rest.ID, got.RestaurantID)
	require.Nil(t, got.AssignedDroneID)
	require.Nil(t, got.AssignedAt)

	_, err = orders.Create(ctx, &models.Order{ID: o.ID, RestaurantID: rest.ID, Total: decimal.Zero})
	require.True(t, errors.Is(err, apperr.ErrConflict), "got %v", err)

	missing, err := orders.GetByID(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestOrderRepository_UnknownRestaurantRejected(t *testing.T) {
	orders := NewOrderRepository(testutil.OpenInMemoryDB(t, "orderfk"))
	_, err := orders.Create(context.Background(), &models.Order{RestaurantID: "ghost", Total: decimal.NewFromInt(1)})
	require.Error(t, err)
}

func TestOrderRepository_ListPendingOldestFirst(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "orderlist")
	orders := NewOrderRepository(d)
	ctx := context.Background()
	rest := seedRestaurant(t, ctx, NewRestaurantRepository(d))

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"late", "early", "middle"} {
		offset := map[string]time.Duration{"early": 0, "middle": 5 * time.Minute, "late": 10 * time.Minute}[id]
		status := models.OrderStatusPending
		if id == "middle" {
			status = models.OrderStatusCancelled
		}
		_, err := orders.Create(ctx, &models.Order{ID: id, RestaurantID: rest.ID, Total: decimal.NewFromInt(int64(100 * (i + 1))), CreatedAt: base.Add(offset), Status: status})
		require.NoError(t, err)
	}

	pending, err := orders.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	require.Equal(t, "early", pending[0].ID)
	require.Equal(t, "late", pending[1].ID)

	all, err := orders.ListByStatus(ctx, models.OrderStatusPending, models.OrderStatusCancelled)
	require.NoError(t, err)
	require.Len(t, all, 3)

	none, err := orders.ListByStatus(ctx)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestRestaurantRepository(t *testing.T) {
	repo := NewRestaurantRepository(testutil.OpenInMemoryDB(t, "restrepo"))
	ctx := context.Background()
	b, err := repo.Create(ctx, &models.Restaurant{Name: "B", Lat: 2, Lng: 3})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &models.Restaurant{Name: "A", Lat: 0, Lng: 0})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, *b, *got)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "A", list[0].Name)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}
