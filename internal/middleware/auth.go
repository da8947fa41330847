package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dftasks/dftasks-backend/internal/database"
	"github.com/dftasks/dftasks-backend/internal/models"
	"github.com/dftasks/dftasks-backend/pkg/utils"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// Auth verifies the bearer token, loads the user and rejects disabled
// accounts. The user is placed in the request context for handlers.
func Auth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearerToken(r)
			if token == "" {
				respondError(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			claims, err := utils.ParseToken(jwtSecret, token)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.ID)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Not authorized, token failed")
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
			defer cancel()

			var user models.User
			err = database.DB.Collection(database.UsersCollection).
				FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
			if err != nil {
				if err != mongo.ErrNoDocuments {
					log.Printf("Auth middleware error: %v", err)
				}
				respondError(w, http.StatusUnauthorized, "Not authorized, user not found")
				return
			}

			if !user.IsActive {
				respondError(w, http.StatusUnauthorized, "Not authorized, user is inactive")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), &user)))
		})
	}
}

// RequireRole rejects callers whose role is not in the allowed set.
// Must be mounted after Auth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "Not authorized")
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondError(w, http.StatusForbidden, "Access denied")
		})
	}
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFrom returns the authenticated user placed in the context by Auth.
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}

// ExtractBearerToken reads the token from the Authorization header,
// falling back to the `token` query parameter for WebSocket clients
// that cannot set headers.
func ExtractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return r.URL.Query().Get("token")
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
