package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rohits-web03/referly/internal/auth"
	"github.com/rohits-web03/referly/internal/models"
	"github.com/rohits-web03/referly/internal/utils"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userKey contextKey = "user"

type UserFinder interface {
	FindUserByUserID(ctx context.Context, userID string) (*models.User, error)
}

// CurrentUser returns the user RequireAuth stored in ctx, or nil.
func CurrentUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// bearerToken reads "Authorization: <scheme> <token>". The scheme is not checked.
func bearerToken(r *http.Request) string {
	fields := strings.Fields(r.Header.Get("Authorization"))
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// RequireAuth resolves the token to a live user. A missing token gets 403,
// an invalid token or a deleted user gets 401.
func RequireAuth(tokens *auth.TokenManager, users UserFinder, log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := tokens.Verify(bearerToken(r))
			if err != nil {
				if errors.Is(err, auth.ErrMissingToken) {
					utils.Message(w, http.StatusForbidden, "Token required")
					return
				}
				utils.Message(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			user, err := users.FindUserByUserID(r.Context(), userID)
			if err != nil {
				log.WithError(err).Error("failed to load token user")
				utils.Message(w, http.StatusInternalServerError, "Server error")
				return
			}
			if user == nil {
				utils.Message(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r.Context())
		if user == nil || !user.IsAdmin {
			utils.Message(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
