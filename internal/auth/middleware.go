package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mcortesr/devtree-be/internal/models"
	"github.com/rs/zerolog/log"
)

// UserLoader is the slice of the user service the middleware needs.
type UserLoader interface {
	GetByID(ctx context.Context, id string) (models.User, error)
}

type contextKey string

const userContextKey = contextKey("authUser")

// UserFromContext extracts the authenticated user attached by Middleware.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// Middleware creates a middleware for protecting routes. It extracts the
// bearer token, verifies it, loads the user it identifies and attaches the
// user to the request context. Any verification failure is a 401: an
// unverifiable token is the client's problem, not the server's. A verified
// token with no user ID in its claims is rejected the same way rather than
// being allowed to fall through unauthenticated.
func Middleware(tokens *TokenService, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer := r.Header.Get("Authorization")
			if bearer == "" {
				rejectJSON(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			parts := strings.SplitN(bearer, " ", 2)
			if len(parts) != 2 || parts[1] == "" {
				rejectJSON(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			userID, err := tokens.Validate(parts[1])
			if err != nil {
				rejectJSON(w, http.StatusUnauthorized, "Not valid token")
				return
			}
			if userID == "" {
				rejectJSON(w, http.StatusUnauthorized, "Not valid token")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, models.ErrUserNotFound) {
					rejectJSON(w, http.StatusNotFound, "User not found")
					return
				}
				log.Error().Err(err).Str("user_id", userID).Msg("Failed to load user from token")
				rejectJSON(w, http.StatusInternalServerError, err.Error())
				return
			}

			// The stored hash never travels with the request context.
			user.PasswordHash = ""

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func rejectJSON(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"msg": msg})
}
