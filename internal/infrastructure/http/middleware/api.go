package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/sousa/mealplan/internal/infrastructure/http/response"
	"github.com/sousa/mealplan/internal/infrastructure/security"
	"github.com/sousa/mealplan/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const userIDKey contextKey = "user_id"

// TokenVerifier resolves a bearer token to a user id
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, *security.Claims, error)
}

// Limiter decides whether a caller may proceed
type Limiter interface {
	Allow(key string) bool
}

// Authenticate requires a valid bearer token and stores its subject in the
// request context
func Authenticate(verifier TokenVerifier, logger *zap.Logger) func(next http.Handler) http.Handler {
	return authenticate(verifier, logger, true)
}

// OptionalAuthenticate lets requests without an Authorization header through
// with no user in context. A header that is present must still carry a valid
// bearer token.
func OptionalAuthenticate(verifier TokenVerifier, logger *zap.Logger) func(next http.Handler) http.Handler {
	return authenticate(verifier, logger, false)
}

func authenticate(verifier TokenVerifier, logger *zap.Logger, required bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				if !required {
					next.ServeHTTP(w, r)
					return
				}
				response.Error(w, r, nil, errors.NewUnauthorizedError("Authorization header required"))
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				response.Error(w, r, nil, errors.NewUnauthorizedError("Invalid authorization header format"))
				return
			}

			userID, _, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				logger.Info("Token validation failed",
					zap.String("error", err.Error()),
					zap.String("remote_addr", r.RemoteAddr),
				)
				response.Error(w, r, nil, errors.NewUnauthorizedError("Invalid or expired token"))
				return
			}

			trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("user.id", userID.String()))
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// RateLimit throttles callers by user id, falling back to the client address
// for unauthenticated requests
func RateLimit(limiter Limiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !limiter.Allow(key) {
				w.Header().Set("Retry-After", "60")
				response.Error(w, r, nil, errors.NewTooManyRequestsError("Rate limit exceeded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if id, ok := UserIDFromContext(r.Context()); ok {
		return "user:" + id.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// WithUserID stores the authenticated user id
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the authenticated user id
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
