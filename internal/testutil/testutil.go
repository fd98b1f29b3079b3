package testutil

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc/metadata"

	"droneDispatch/internal/db"
	"droneDispatch/internal/logx"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// The database is closed on test cleanup. Use a name unique to the test.
func OpenInMemoryDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	d, err := db.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// GenerateJWTHS256 returns a signed JWT string with minimal claims used by the app.
func GenerateJWTHS256(t *testing.T, secret, name, kind string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"name": name,
		"kind": kind,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

// CtxWithBearer returns a context containing gRPC metadata Authorization header with the given token.
func CtxWithBearer(ctx context.Context, token string) context.Context {
	md := metadata.Pairs("authorization", "Bearer "+token)
	return metadata.NewIncomingContext(ctx, md)
}

// OutgoingBearer is CtxWithBearer for client-side calls.
func OutgoingBearer(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
}

// LogEntry is one captured log call.
type LogEntry struct {
	Level  string
	Msg    string
	Fields map[string]any
}

// LogRecorder is a logx.Logger that keeps every entry for assertions.
type LogRecorder struct {
	mu      *sync.Mutex
	entries *[]LogEntry
	base    []logx.Field
}

func NewLogRecorder() *LogRecorder {
	return &LogRecorder{mu: &sync.Mutex{}, entries: &[]LogEntry{}}
}

func (r *LogRecorder) Debug(msg string, fields ...logx.Field) { r.add("debug", msg, fields) }
func (r *LogRecorder) Info(msg string, fields ...logx.Field)  { r.add("info", msg, fields) }
func (r *LogRecorder) Warn(msg string, fields ...logx.Field)  { r.add("warn", msg, fields) }
func (r *LogRecorder) Error(msg string, fields ...logx.Field) { r.add("error", msg, fields) }

func (r *LogRecorder) With(fields ...logx.Field) logx.Logger {
	base := append(append([]logx.Field{}, r.base...), fields...)
	return &LogRecorder{mu: r.mu, entries: r.entries, base: base}
}

func (r *LogRecorder) add(level, msg string, fields []logx.Field) {
	e := LogEntry{Level: level, Msg: msg, Fields: map[string]any{}}
	for _, f := range r.base {
		e.Fields[f.Key] = f.Value
	}
	for _, f := range fields {
		e.Fields[f.Key] = f.Value
	}
	r.mu.Lock()
	*r.entries = append(*r.entries, e)
	r.mu.Unlock()
}

// Entries returns a copy of everything logged so far.
func (r *LogRecorder) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LogEntry(nil), *r.entries...)
}

// Find returns the first entry with the given message.
func (r *LogRecorder) Find(msg string) (LogEntry, bool) {
	for _, e := range r.Entries() {
		if e.Msg == msg {
			return e, true
		}
	}
	return LogEntry{}, false
}
