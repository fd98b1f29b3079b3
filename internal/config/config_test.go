package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DB_PATH", "GRPC_ADDRESS", "HTTP_ADDRESS", "JWT_SECRET", "ADMIN_USERNAME", "LOG_LEVEL",
		"KAFKA_BROKERS", "KAFKA_GROUP_ID", "KAFKA_ORDERS_TOPIC", "KAFKA_ASSIGNMENTS_TOPIC",
		"DISPATCH_INTERVAL", "DISPATCH_OPERATION_TIMEOUT", "DISPATCH_MAX_ASSIGN_ATTEMPTS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadWithDefaults_Succeeds(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadWithDefaults(nil)
	require.NoError(t, err)

	require.Equal(t, "dispatch.db", cfg.Database.Path)
	require.Equal(t, ":50051", cfg.GRPC.Address)
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, devSecret, cfg.Auth.JWTSecret)
	require.False(t, cfg.Kafka.Enabled())
	require.Equal(t, "orders.placed", cfg.Kafka.OrdersTopic)
	require.Equal(t, 5*time.Second, cfg.Dispatch.Interval)
	require.Equal(t, 3, cfg.Dispatch.MaxAssignAttempts)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PATH", "test.db")
	_, err := Load(nil)
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "x")
	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, "test.db", cfg.Database.Path)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("DISPATCH_INTERVAL", "30s")
	t.Setenv("DISPATCH_MAX_ASSIGN_ATTEMPTS", "5")
	t.Setenv("ADMIN_USERNAME", "root")

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, "root", cfg.Auth.AdminUser)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.True(t, cfg.Kafka.Enabled())
	require.Equal(t, 30*time.Second, cfg.Dispatch.Interval)
	require.Equal(t, 5, cfg.Dispatch.MaxAssignAttempts)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("HTTP_ADDRESS", ":9000")

	cfg, err := Load([]string{"--http-addr", ":9100", "--dispatch-interval", "0s"})
	require.NoError(t, err)
	require.Equal(t, ":9100", cfg.HTTP.Address)
	require.Zero(t, cfg.Dispatch.Interval)
}

func TestLoad_InvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "x")

	t.Setenv("DISPATCH_INTERVAL", "soon")
	_, err := Load(nil)
	require.Error(t, err)

	t.Setenv("DISPATCH_INTERVAL", "")
	t.Setenv("DISPATCH_MAX_ASSIGN_ATTEMPTS", "0")
	_, err = Load(nil)
	require.Error(t, err)
}

func TestString_MasksSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "super-secret")
	cfg, err := Load(nil)
	require.NoError(t, err)
	require.NotContains(t, cfg.String(), "super-secret")
}
