// Package logx is a small structured logging facade used across the service.
package logx

import "time"

// Logger is a minimal structured logging interface based on key-value fields.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field is a single structured log field.
type Field struct {
	Key   string
	Value any
}

// Any creates a field with an arbitrary value.
func Any(key string, value any) Field { return Field{Key: key, Value: value} }

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an int field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Float64 creates a float64 field.
func Float64(key string, value float64) Field { return Field{Key: key, Value: value} }

// Bool creates a bool field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Time creates a time.Time field.
func Time(key string, value time.Time) Field { return Field{Key: key, Value: value} }

// Duration creates a time.Duration field.
func Duration(key string, value time.Duration) Field { return Field{Key: key, Value: value} }

// Err creates an "err" field; a nil error is logged as nil.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "err", Value: nil}
	}
	return Field{Key: "err", Value: err.Error()}
}

// OrderID creates the "order_id" field carried by dispatch and event logs.
func OrderID(id string) Field { return Field{Key: "order_id", Value: id} }

// DroneID creates the "drone_id" field.
func DroneID(id string) Field { return Field{Key: "drone_id", Value: id} }

// Assignment returns the order and drone fields of one assignment.
func Assignment(orderID, droneID string) []Field {
	return []Field{OrderID(orderID), DroneID(droneID)}
}

// Component tags a sub-logger with the subsystem that owns it.
func Component(name string) Field { return Field{Key: "component", Value: name} }
