package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"droneDispatch/internal/auth"
	"droneDispatch/internal/config"
	"droneDispatch/internal/dispatcher"
	"droneDispatch/internal/events"
	"droneDispatch/internal/fleet"
	"droneDispatch/internal/testutil"
	"droneDispatch/models"
)

const testSecret = "app-test-secret"

func testConfig(name string) *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{Path: "file:" + name + "?mode=memory&cache=shared"},
		GRPC:     config.GRPCConfig{Address: "127.0.0.1:0"},
		HTTP:     config.HTTPConfig{Address: "127.0.0.1:0"},
		Auth:     config.AuthConfig{JWTSecret: testSecret},
		Log:      config.LogConfig{Level: "error"},
		Dispatch: config.DispatchConfig{
			Interval:          10 * time.Millisecond,
			OperationTimeout:  time.Second,
			MaxAssignAttempts: 3,
		},
	}
}

func buildTestContainer(t *testing.T, name string) *ContainerBuilder {
	t.Helper()
	return NewContainerBuilder(testConfig(name)).
		WithRegisterer(prometheus.NewRegistry()).
		WithLogOutput(io.Discard)
}

func TestBuild_RequiresConfig(t *testing.T) {
	_, err := NewContainerBuilder(nil).Build(context.Background())
	require.Error(t, err)
}

func TestBuild_ProvidesEveryComponent(t *testing.T) {
	ctx := context.Background()
	c, err := buildTestContainer(t, "app_build").Build(ctx)
	require.NoError(t, err)

	err = c.Invoke(func(
		srv *http.Server,
		gs *grpc.Server,
		d *dispatcher.Service,
		f *fleet.Service,
		consumer *events.Consumer,
		producer *events.Producer,
		interval dispatchInterval,
	) {
		require.NotNil(t, srv)
		require.Equal(t, "127.0.0.1:0", srv.Addr)
		require.Greater(t, srv.ReadHeaderTimeout, time.Duration(0))
		require.NotNil(t, gs)
		require.NotNil(t, d)
		require.NotNil(t, f)
		// Kafka is not configured.
		require.Nil(t, consumer)
		require.Nil(t, producer)
		require.Equal(t, dispatchInterval(10*time.Millisecond), interval)
	})
	require.NoError(t, err)
}

func TestBuild_HTTPStackEndToEnd(t *testing.T) {
	ctx := context.Background()
	c, err := buildTestContainer(t, "app_http").Build(ctx)
	require.NoError(t, err)

	err = c.Invoke(func(h http.Handler, f *fleet.Service) {
		_, err := f.RegisterDrone(ctx, &models.Drone{
			Code: "DR-1", Status: models.DroneStatusAvailable, BatteryLevel: 90,
			MaxPayload: 5, MaxRange: 20, MaxSpeed: 60,
		})
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/drones", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/drones", nil)
		req.Header.Set("Authorization", "Bearer "+testutil.GenerateJWTHS256(t, testSecret, "ops", auth.KindOperator))
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, strings.Contains(rec.Body.String(), "DR-1"))
	})
	require.NoError(t, err)
}
