package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dftasks/dftasks-backend/internal/database"
	"github.com/dftasks/dftasks-backend/internal/middleware"
	"github.com/dftasks/dftasks-backend/internal/models"
	"github.com/dftasks/dftasks-backend/pkg/utils"
)

// GetProfile returns the caller's own account. The Auth middleware
// loads the user fresh from the database on every request, so the
// context user is current.
func GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	PreferredLanguage string `json:"preferredLanguage"`
}

// UpdateProfile lets any authenticated user edit their own name,
// email, password and preferred language. Role and isActive are not
// touchable here; those stay admin-only.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Name != "" {
		set["name"] = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if !utils.IsValidEmail(email) {
			respondError(w, http.StatusBadRequest, "Please enter a valid email address")
			return
		}
		set["email"] = email
	}
	if req.PreferredLanguage != "" {
		set["preferredLanguage"] = req.PreferredLanguage
	}
	if req.Password != "" {
		if len(req.Password) < 4 {
			respondError(w, http.StatusBadRequest, "Password should be at least 4 characters long")
			return
		}
		hashed, err := utils.HashPassword(req.Password)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Error updating profile")
			return
		}
		set["password"] = hashed
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var updated models.User
	err := database.DB.Collection(database.UsersCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(w, http.StatusBadRequest, "A user with this email already exists")
			return
		}
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error updating profile: %v", err)
		respondError(w, http.StatusInternalServerError, "Error updating profile")
		return
	}

	respondJSON(w, http.StatusOK, updated)
}
