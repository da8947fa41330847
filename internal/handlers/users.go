package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dftasks/dftasks-backend/internal/database"
	"github.com/dftasks/dftasks-backend/internal/models"
	"github.com/dftasks/dftasks-backend/pkg/utils"
)

// GetUsers returns all users, newest first. Passwords are never
// serialized (json:"-" on the model).
func GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection(database.UsersCollection).Find(ctx,
		bson.M{}, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		log.Printf("Error fetching users: %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching users")
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		log.Printf("Error decoding users: %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching users")
		return
	}

	respondJSON(w, http.StatusOK, users)
}

// GetUser returns a single user by id.
func GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err = database.DB.Collection(database.UsersCollection).
		FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error fetching user: %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

type createUserRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	Role              string `json:"role"`
	PreferredLanguage string `json:"preferredLanguage"`
}

// CreateUser creates a staff account. Role defaults to USER and is
// normalized to uppercase.
func CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.IsValidEmail(email) {
		respondError(w, http.StatusBadRequest, "Please enter a valid email address")
		return
	}
	if len(req.Password) < 4 {
		respondError(w, http.StatusBadRequest, "Password should be at least 4 characters long")
		return
	}

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRole(role) {
		respondError(w, http.StatusBadRequest, role+" is not a valid role")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	users := database.DB.Collection(database.UsersCollection)

	count, err := users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		log.Printf("Error in createUser: %v", err)
		respondError(w, http.StatusInternalServerError, "Error creating user")
		return
	}
	if count > 0 {
		respondError(w, http.StatusBadRequest, "A user with this email already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	now := time.Now().UTC()
	user := models.User{
		CreatedAt:         now,
		UpdatedAt:         now,
		Name:              strings.TrimSpace(req.Name),
		Email:             email,
		Password:          hashed,
		Role:              role,
		IsActive:          true,
		PreferredLanguage: req.PreferredLanguage,
	}

	result, err := users.InsertOne(ctx, user)
	if err != nil {
		log.Printf("Error in createUser: %v", err)
		respondError(w, http.StatusInternalServerError, "Error creating user")
		return
	}
	user.ID = result.InsertedID.(primitive.ObjectID)

	respondJSON(w, http.StatusCreated, user)
}

type updateUserRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Password          string `json:"password"`
	Role              string `json:"role"`
	PreferredLanguage string `json:"preferredLanguage"`
}

// UpdateUser updates profile fields; only supplied fields change.
func UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req updateUserRequest
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
	if req.Role != "" {
		role := strings.ToUpper(strings.TrimSpace(req.Role))
		if !models.ValidRole(role) {
			respondError(w, http.StatusBadRequest, role+" is not a valid role")
			return
		}
		set["role"] = role
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
			respondError(w, http.StatusInternalServerError, "Error updating user")
			return
		}
		set["password"] = hashed
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	users := database.DB.Collection(database.UsersCollection)

	var user models.User
	err = users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error updating user: %v", err)
		respondError(w, http.StatusInternalServerError, "Error updating user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

type toggleUserStatusRequest struct {
	IsActive *bool `json:"isActive"`
}

// ToggleUserStatus enables or disables an account. With no body the
// flag is flipped. A disabled user's tokens stop working on the next
// request (Auth middleware re-checks isActive).
func ToggleUserStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req toggleUserStatusRequest
	// Body is optional.
	_ = json.NewDecoder(r.Body).Decode(&req)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	users := database.DB.Collection(database.UsersCollection)

	var user models.User
	if err := users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Error toggling user status: %v", err)
		respondError(w, http.StatusInternalServerError, "Error updating user")
		return
	}

	newActive := !user.IsActive
	if req.IsActive != nil {
		newActive = *req.IsActive
	}

	err = users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"isActive": newActive, "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		log.Printf("Error toggling user status: %v", err)
		respondError(w, http.StatusInternalServerError, "Error updating user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// DeleteUser soft-deactivates an account. Users are never hard-deleted
// because tasks and comments keep references to them.
func DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection(database.UsersCollection).UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}})
	if err != nil {
		log.Printf("Error deleting user: %v", err)
		respondError(w, http.StatusInternalServerError, "Error deleting user")
		return
	}
	if result.MatchedCount == 0 {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "User deactivated successfully"})
}
