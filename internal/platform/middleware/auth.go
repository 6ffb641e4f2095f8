package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenValidator defines the interface for validating bearer tokens.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error)
}

// TokenClaims represents the claims we expect from the token validator.
type TokenClaims struct {
	SubjectID string
	Audience  string // "user" or "admin"
	Role      string
}

// Context keys for storing authenticated identity information.
type contextKeyUserID struct{}
type contextKeyAdminID struct{}
type contextKeyRole struct{}

var (
	ContextKeyUserID  = contextKeyUserID{}
	ContextKeyAdminID = contextKeyAdminID{}
	ContextKeyRole    = contextKeyRole{}
)

// GetUserID retrieves the authenticated user ID from the context.
func GetUserID(ctx context.Context) string {
	id, ok := ctx.Value(ContextKeyUserID).(string)
	if !ok {
		return ""
	}
	return id
}

// GetAdminID retrieves the authenticated admin ID from the context.
func GetAdminID(ctx context.Context) string {
	id, ok := ctx.Value(ContextKeyAdminID).(string)
	if !ok {
		return ""
	}
	return id
}

func GetRole(ctx context.Context) string {
	role, ok := ctx.Value(ContextKeyRole).(string)
	if !ok {
		return ""
	}
	return role
}

// RequireAuth admits requests carrying a valid user bearer token and stores
// the user ID in context. Fails closed on anything else.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return requireAudience(validator, logger, "user")
}

// RequireAdmin admits requests carrying a valid admin bearer token.
func RequireAdmin(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return requireAudience(validator, logger, "admin")
}

func requireAudience(validator TokenValidator, logger *slog.Logger, audience string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(ctx, token)
			if err != nil || claims.Audience != audience {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			if audience == "admin" {
				ctx = context.WithValue(ctx, ContextKeyAdminID, claims.SubjectID)
			} else {
				ctx = context.WithValue(ctx, ContextKeyUserID, claims.SubjectID)
			}
			ctx = context.WithValue(ctx, ContextKeyRole, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
