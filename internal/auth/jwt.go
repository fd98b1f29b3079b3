package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc/metadata"

	"droneDispatch/models"
)

// Caller kinds carried in the "kind" claim.
const (
	KindAdmin    = "admin"
	KindOperator = "operator"
	KindService  = "service" // other backends, e.g. checkout
)

var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrPermissionDenied = errors.New("permission denied")
)

// Principal represents the authenticated caller from JWT.
type Principal struct {
	Name string // username or service name
	Kind string // "admin" | "operator" | "service"
}

// UserLookup is the part of the user store needed to confirm roles.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type principalKey struct{}

// WithPrincipal stores the principal in context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext retrieves the principal from context (if any).
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

// ParseFromMD extracts and validates a Bearer JWT from gRPC metadata and returns a Principal.
func ParseFromMD(ctx context.Context, secret string) (*Principal, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, errors.New("missing metadata")
	}
	vals := md.Get("authorization")
	if len(vals) == 0 {
		return nil, errors.New("missing authorization")
	}
	return ParseBearer(vals[0], secret)
}

// ParseBearer validates an "Authorization: Bearer <jwt>" header value.
func ParseBearer(header, secret string) (*Principal, error) {
	if strings.TrimSpace(header) == "" {
		return nil, errors.New("missing authorization")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.New("invalid authorization header")
	}
	return parseJWT(strings.TrimSpace(parts[1]), secret)
}

// parseJWT validates and extracts claims from a JWT token.
func parseJWT(tokenStr string, secret string) (*Principal, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}

	type claims struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
		jwt.RegisteredClaims
	}

	tok, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		if err == nil {
			err = errors.New("invalid token")
		}
		return nil, err
	}
	c, _ := tok.Claims.(*claims)
	if c == nil || c.Name == "" || c.Kind == "" {
		return nil, errors.New("invalid claims")
	}
	return &Principal{Name: c.Name, Kind: strings.ToLower(c.Kind)}, nil
}

// CheckAdmin confirms that the caller in ctx is an admin principal AND that the
// underlying user exists with role 'admin', so a forged kind claim is not enough.
func CheckAdmin(ctx context.Context, users UserLookup) (*Principal, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	if p.Kind != KindAdmin {
		return nil, fmt.Errorf("%w: only admin can perform this action", ErrPermissionDenied)
	}
	if users == nil {
		return nil, errors.New("users repository not configured")
	}
	u, err := users.GetByUsername(ctx, p.Name)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil || strings.ToLower(strings.TrimSpace(u.Role)) != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admin can perform this action", ErrPermissionDenied)
	}
	return p, nil
}
