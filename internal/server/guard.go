package server

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"nexus/internal/domain"
	apperrors "nexus/pkg/errors"
)

type contextKey string

const userContextKey contextKey = "user"

// UserFromContext returns the console user a guarded request was made by.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}

// actor names the console user behind a request for audit logging.
func actor(r *http.Request) string {
	if user, ok := UserFromContext(r.Context()); ok {
		return fmt.Sprintf("%s (%s)", user.Email, user.Role)
	}
	return "anonymous"
}

// guard restricts a handler to the given roles. It is a no-op unless the
// server was built with authRequired.
func (s *Server) guard(roles ...domain.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if !s.authRequired {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				fail(w, r, apperrors.Unauthorized("Authorization header required"))
				return
			}
			user, err := s.svc.Auth.Authenticate(token)
			if err != nil {
				fail(w, r, err)
				return
			}
			if !slices.Contains(roles, user.Role) {
				fail(w, r, apperrors.Forbidden("Insufficient permissions"))
				return
			}
			next(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
		}
	}
}
