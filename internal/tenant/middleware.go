package tenant

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"apotheca/internal/domain"
	apperrors "apotheca/internal/errors"
)

// UserRepository resolves an authenticated user id to its tenant. Session
// validation itself happens upstream; this layer only maps user to tenant.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

type Middleware struct {
	users  UserRepository
	logger *zap.Logger
}

func NewMiddleware(users UserRepository, logger *zap.Logger) *Middleware {
	return &Middleware{
		users:  users,
		logger: logger,
	}
}

// Resolve reads the authenticated user id from the X-User-ID header, looks up
// its tenant and injects the Actor into the request context. Requests without
// a resolvable tenant never reach the handlers.
func (m *Middleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			m.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing user identity")
			return
		}

		user, err := m.users.FindByID(r.Context(), userID)
		if err != nil {
			if _, ok := apperrors.IsNotFoundError(err); ok {
				m.writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "unknown user")
				return
			}
			m.logger.Error("resolving tenant failed", zap.String("userId", userID), zap.Error(err))
			m.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
			return
		}

		ctx := WithActor(r.Context(), Actor{
			UserID:   user.ID,
			TenantID: user.TenantID,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	}); err != nil {
		m.logger.Error("failed to encode response", zap.Error(err))
	}
}
