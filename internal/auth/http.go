package auth

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Middleware authenticates HTTP requests with the same Bearer JWT used over gRPC.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := ParseBearer(r.Header.Get("Authorization"), secret)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "auth error: "+err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// AdminOnly lets a request through only when CheckAdmin passes.
func AdminOnly(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, err := CheckAdmin(r.Context(), users)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, ErrUnauthenticated):
				writeAuthError(w, http.StatusUnauthorized, "missing principal")
			case errors.Is(err, ErrPermissionDenied):
				writeAuthError(w, http.StatusForbidden, "only admin can perform this action")
			default:
				writeAuthError(w, http.StatusInternalServerError, "internal error")
			}
		})
	}
}

func writeAuthError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
