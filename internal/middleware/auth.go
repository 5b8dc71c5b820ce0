package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/brewlog/brewlog/internal/auth"
	"github.com/brewlog/brewlog/internal/cache"
	"github.com/brewlog/brewlog/internal/repository"
)

// AuthConfig holds configuration for the identity middleware.
type AuthConfig struct {
	Logger     *slog.Logger
	Repository *repository.Repository
	Cache      *cache.Cache
}

// Identify resolves the caller's session token to a user and injects it
// into the request context. Requests without a resolvable user pass
// through anonymously: absence of identity is not an error here, it is
// decided per-route by RequireUser.
func Identify(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractSessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			if err := auth.ValidateTokenFormat(token); err != nil {
				cfg.Logger.Warn("identity resolution failed",
					slog.String("reason", "malformed_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				next.ServeHTTP(w, r)
				return
			}

			session, err := cfg.Cache.GetSession(r.Context(), token)
			if err != nil || session == nil {
				next.ServeHTTP(w, r)
				return
			}

			// Re-read the user row so role or profile changes apply
			// immediately and deleted accounts lose access.
			user, err := cfg.Repository.GetUserByID(r.Context(), session.UserID)
			if err != nil {
				if !errors.Is(err, repository.ErrUserNotFound) {
					cfg.Logger.Error("database error during identity resolution",
						slog.String("error", err.Error()),
						slog.String("request_id", GetRequestID(r.Context())),
					)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests that did not resolve to an authenticated
// user with a 401. Apply after Identify on resource-scoped routes.
func RequireUser() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth.UserFromContext(r.Context()) == nil {
				writeAuthError(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractSessionToken extracts the session token from the request.
// Supports "Authorization: Bearer <token>".
func extractSessionToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// writeAuthError writes a 401 Unauthorized response.
// Uses the same message for all auth failures to prevent enumeration.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Invalid or missing session token","code":"UNAUTHENTICATED"}`))
}
