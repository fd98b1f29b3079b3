package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewJSON_WritesFieldsAndWith(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSON(&buf, "info").With(String("component", "dispatcher"))

	l.Info("drone assigned", String("order_id", "o-1"), Float64("score", 81.5), Int("eta_min", 4))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "drone assigned", line["msg"])
	require.Equal(t, "dispatcher", line["component"])
	require.Equal(t, "o-1", line["order_id"])
	require.Equal(t, 81.5, line["score"])
	require.Equal(t, float64(4), line["eta_min"])
}

func TestNewJSON_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSON(&buf, "warn")
	l.Info("dropped")
	require.Zero(t, buf.Len())
	l.Warn("kept")
	require.NotZero(t, buf.Len())
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestErrField(t *testing.T) {
	require.Equal(t, Field{Key: "err", Value: "boom"}, Err(errors.New("boom")))
	require.Equal(t, Field{Key: "err", Value: nil}, Err(nil))
}

func TestNop_NoPanic(t *testing.T) {
	l := Nop()
	l.Debug("d")
	l.Info("i", Int("n", 1))
	l.Warn("w")
	l.Error("e")
	require.NotNil(t, l.With(String("k", "v")))
}

func TestDomainFields(t *testing.T) {
	require.Equal(t, Field{Key: "order_id", Value: "o-1"}, OrderID("o-1"))
	require.Equal(t, Field{Key: "drone_id", Value: "d-1"}, DroneID("d-1"))
	require.Equal(t, Field{Key: "component", Value: "grpc"}, Component("grpc"))
	require.Equal(t, []Field{OrderID("o-1"), DroneID("d-1")}, Assignment("o-1", "d-1"))

	var buf bytes.Buffer
	NewJSON(&buf, "info").With(Component("dispatcher")).Info("drone assigned", Assignment("o-7", "d-3")...)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "dispatcher", line["component"])
	require.Equal(t, "o-7", line["order_id"])
	require.Equal(t, "d-3", line["drone_id"])
}
