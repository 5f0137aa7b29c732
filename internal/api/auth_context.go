package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pagemarkapp/pagemark-server/internal/service"
)

type ctxKey int

const userIDKey ctxKey = iota

// GetUserID pulls the authenticated user out of the request context. Its
// error is a ready-made 401 so handlers just return it.
func GetUserID(ctx context.Context) (string, error) {
	if userID, ok := ctx.Value(userIDKey).(string); ok && userID != "" {
		return userID, nil
	}
	return "", huma.Error401Unauthorized("Authentication required")
}

func setUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// authMiddleware resolves Bearer tokens into a context user ID. It never
// rejects a request itself: a missing or bad token just means no user, and
// GetUserID enforces auth where a handler requires it.
func authMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if ok && token != "" {
				if user, _, err := auth.VerifyAccessToken(r.Context(), token); err == nil {
					r = r.WithContext(setUserID(r.Context(), user.ID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
