package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rafaelduarte/taskapi/internal/apperrors"
	"github.com/rafaelduarte/taskapi/internal/auth"
	"github.com/rafaelduarte/taskapi/internal/logger"
	"github.com/rafaelduarte/taskapi/internal/models"
)

type contextKey string

const authContextKey contextKey = "auth_context"

type AuthMiddleware struct {
	jwt *auth.JWTManager
	log *logger.Logger
}

func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{
		jwt: jwtManager,
		log: logger.New("auth-middleware"),
	}
}

// extract pulls the bearer token from the Authorization header and verifies
// it. NO_TOKEN covers both an absent header and one not in Bearer form.
func (m *AuthMiddleware) extract(r *http.Request) (*models.AuthContext, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, apperrors.NoToken()
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return nil, apperrors.NoToken()
	}

	claims, err := m.jwt.ValidateToken(parts[1])
	if err != nil {
		return nil, err
	}

	return &models.AuthContext{UserID: claims.UserID, Role: claims.Role}, nil
}

// RequireAuth is the REST gate: the wrapped handler never runs on a missing
// or bad token.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := m.extract(r)
		if err != nil {
			m.log.Debug("rejected request to %s: %v", r.URL.Path, err)
			writeAuthError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), authContextKey, authCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth is the GraphQL gate: it never rejects. A missing or invalid
// token just leaves the request without an identity, and resolvers that need
// one raise their own error inside the GraphQL envelope.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := m.extract(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), authContextKey, authCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the authenticated identity attached by RequireAuth or
// OptionalAuth, if any.
func FromContext(ctx context.Context) (*models.AuthContext, bool) {
	authCtx, ok := ctx.Value(authContextKey).(*models.AuthContext)
	return authCtx, ok
}

// WithAuthContext is a test hook for building authenticated request contexts.
func WithAuthContext(ctx context.Context, authCtx *models.AuthContext) context.Context {
	return context.WithValue(ctx, authContextKey, authCtx)
}

func writeAuthError(w http.ResponseWriter, err error) {
	appErr, ok := apperrors.From(err)
	if !ok {
		appErr = apperrors.Internal()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: models.ErrorBody{
			Message:   appErr.Message,
			Status:    appErr.Status,
			Code:      appErr.Code,
			Timestamp: time.Now().UTC(),
		},
	})
}
