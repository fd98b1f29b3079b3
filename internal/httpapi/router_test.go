package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"droneDispatch/internal/dispatcher"
	"droneDispatch/internal/fleet"
	"droneDispatch/internal/testutil"
	"droneDispatch/models"
	"droneDispatch/repository"
)

const secret = "http-test-secret"

type api struct {
	t        *testing.T
	handler  http.Handler
	admin    string
	operator string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, strings.ReplaceAll(t.Name(), "/", "_"))
	drones := repository.NewDroneRepository(d)
	orders := repository.NewOrderRepository(d)
	restaurants := repository.NewRestaurantRepository(d)
	users := repository.NewUserRepository(d)
	_, err := users.Create(context.Background(), "root", models.RoleAdmin)
	require.NoError(t, err)
	_, err = users.Create(context.Background(), "ops", models.RoleOperator)
	require.NoError(t, err)

	fleetSvc := fleet.NewService(drones, restaurants, time.Second)
	dispatchSvc := dispatcher.NewService(dispatcher.Stores{
		Drones: drones, Orders: orders, Restaurants: restaurants, Dispatch: repository.NewDispatchRepository(d),
	})
	h := NewHandler(fleetSvc, dispatchSvc, testutil.NewLogRecorder())
	return &api{
		t:        t,
		handler:  NewRouter(h, RouterConfig{JWTSecret: secret, Users: users}),
		admin:    testutil.GenerateJWTHS256(t, secret, "root", "admin"),
		operator: testutil.GenerateJWTHS256(t, secret, "ops", "operator"),
	}
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func TestPublicEndpoints(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "dispatch_http_requests_total")

	rec = a.do(http.MethodGet, "/nope", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "route not found", decode[errResponse](t, rec).Error)
}

func TestAPIRequiresToken(t *testing.T) {
	a := newAPI(t)
	require.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/v1/drones", "", nil).Code)
	require.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/api/v1/drones", "garbage", nil).Code)
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/v1/drones", a.operator, nil).Code)
}

func TestFleetWritesRequireAdmin(t *testing.T) {
	a := newAPI(t)
	body := map[string]any{"code": "DR-1", "battery_level": 90, "max_payload": 5, "max_range": 20, "max_speed": 50}

	require.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/v1/drones", a.operator, body).Code)

	rec := a.do(http.MethodPost, "/api/v1/drones", a.admin, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	d := decode[models.Drone](t, rec)
	require.Equal(t, "/api/v1/drones/"+d.ID, rec.Header().Get("Location"))
	require.Equal(t, models.DroneStatusAvailable, d.Status)

	require.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/api/v1/drones", a.admin, body).Code)

	body["battery_level"] = 150
	body["code"] = "DR-2"
	require.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/v1/drones", a.admin, body).Code)

	require.Equal(t, http.StatusForbidden,
		a.do(http.MethodPatch, "/api/v1/drones/"+d.ID+"/status", a.operator, map[string]string{"status": "maintenance"}).Code)
	rec = a.do(http.MethodPatch, "/api/v1/drones/"+d.ID+"/status", a.admin, map[string]string{"status": "maintenance"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, models.DroneStatusMaintenance, decode[models.Drone](t, rec).Status)

	rec = a.do(http.MethodGet, "/api/v1/drones?status=maintenance", a.operator, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]models.Drone](t, rec), 1)

	require.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/api/v1/drones?limit=x", a.operator, nil).Code)
	require.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/v1/drones/ghost", a.operator, nil).Code)

	rec = a.do(http.MethodGet, "/api/v1/drones/code/DR-1", a.operator, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, d.ID, decode[models.Drone](t, rec).ID)
	require.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/v1/drones/code/DR-9", a.operator, nil).Code)

	require.Equal(t, http.StatusForbidden, a.do(http.MethodDelete, "/api/v1/drones/"+d.ID, a.operator, nil).Code)
	require.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/v1/drones/"+d.ID, a.admin, nil).Code)
	require.Equal(t, http.StatusNotFound, a.do(http.MethodDelete, "/api/v1/drones/"+d.ID, a.admin, nil).Code)
}

func TestOrderLifecycle(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/api/v1/restaurants", a.admin, map[string]any{"id": "r1", "name": "Kitchen", "lat": 0, "lng": 0})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = a.do(http.MethodPost, "/api/v1/drones", a.admin, map[string]any{
		"id": "d1", "code": "DR-1", "battery_level": 90, "max_payload": 5, "max_range": 20, "max_speed": 50,
		"current_latitude": 0, "current_longitude": 0,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/v1/orders", a.operator, map[string]any{
		"id": "o1", "restaurant_id": "r1", "delivery_latitude": 0.01, "delivery_longitude": 0, "total": "1500.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Equal(t, models.OrderStatusPending, decode[models.Order](t, rec).Status)

	rec = a.do(http.MethodGet, "/api/v1/orders/queue", a.operator, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	queue := decode[struct {
		Depth int `json:"depth"`
	}](t, rec)
	require.Equal(t, 1, queue.Depth)

	rec = a.do(http.MethodGet, "/api/v1/orders/o1/recommendation", a.operator, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rc := decode[dispatcher.Recommendation](t, rec)
	require.Len(t, rc.Candidates, 1)
	require.Equal(t, "d1", rc.Candidates[0].Drone.ID)

	rec = a.do(http.MethodPost, "/api/v1/orders/o1/dispatch", a.operator, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	res := decode[dispatcher.Result](t, rec)
	require.True(t, res.Assigned)
	require.Equal(t, "d1", res.DroneID)

	require.Equal(t, http.StatusConflict, a.do(http.MethodPost, "/api/v1/orders/o1/dispatch", a.operator, nil).Code)

	// The drone has not reached the customer yet.
	rec = a.do(http.MethodPost, "/api/v1/orders/o1/complete", a.operator, map[string]bool{"delivered": true})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodPatch, "/api/v1/drones/d1/telemetry", a.operator, map[string]float64{"latitude": 0.01, "longitude": 0, "battery_level": 80})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/v1/orders/o1/complete", a.operator, map[string]bool{"delivered": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, models.OrderStatusDelivered, decode[models.Order](t, rec).Status)

	rec = a.do(http.MethodGet, "/api/v1/drones/d1", a.operator, nil)
	require.Equal(t, models.DroneStatusAvailable, decode[models.Drone](t, rec).Status)
}

func TestOrders_ErrorsAndPass(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/api/v1/orders", a.operator, map[string]any{"restaurant_id": "ghost", "total": "10"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPost, "/api/v1/orders", a.operator, map[string]any{"unexpected": true})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid json", decode[errResponse](t, rec).Error)

	// Clients cannot choose an order's creation time.
	rec = a.do(http.MethodPost, "/api/v1/orders", a.operator, map[string]any{
		"restaurant_id": "r1", "total": "10", "created_at": "2000-01-01T00:00:00Z",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	require.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/v1/orders/ghost", a.operator, nil).Code)
	require.Equal(t, http.StatusNotFound, a.do(http.MethodPost, "/api/v1/orders/ghost/cancel", a.operator, nil).Code)

	require.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/v1/dispatch/run", a.operator, nil).Code)
	rec = a.do(http.MethodPost, "/api/v1/dispatch/run", a.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, dispatcher.PassReport{}, decode[dispatcher.PassReport](t, rec))
}
