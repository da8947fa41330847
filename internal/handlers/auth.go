package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dftasks/dftasks-backend/internal/database"
	"github.com/dftasks/dftasks-backend/internal/models"
	"github.com/dftasks/dftasks-backend/pkg/utils"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string                 `json:"token"`
	User  map[string]interface{} `json:"user"`
}

// Login authenticates a user and issues a 1-day JWT. Disabled accounts
// and locked-out accounts are rejected with 401.
func Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	users := database.DB.Collection(database.UsersCollection)

	var user models.User
	err := users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			log.Printf("Login error: %v", err)
		}
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !user.IsActive {
		respondError(w, http.StatusUnauthorized, "Account is disabled")
		return
	}

	if user.IsLocked() {
		respondError(w, http.StatusUnauthorized, "Account is temporarily locked. Try again later.")
		return
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		recordFailedLogin(ctx, &user)
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	now := time.Now()
	_, err = users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set":   bson.M{"failedLoginAttempts": 0, "lastLogin": now, "updatedAt": now},
		"$unset": bson.M{"lockUntil": ""},
	})
	if err != nil {
		log.Printf("Login error resetting attempts: %v", err)
	}

	token, err := utils.GenerateToken(cfg.AccessTokenSecret,
		user.ID.Hex(), user.Name, user.Email, user.Role, user.PreferredLanguage)
	if err != nil {
		log.Printf("Login error signing token: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":                user.ID.Hex(),
			"name":              user.Name,
			"email":             user.Email,
			"role":              user.Role,
			"preferredLanguage": user.PreferredLanguage,
		},
	})
}

// recordFailedLogin bumps the failure counter and locks the account
// for an hour once it reaches the limit.
func recordFailedLogin(ctx context.Context, user *models.User) {
	update := bson.M{"$inc": bson.M{"failedLoginAttempts": 1}}
	if user.FailedLoginAttempts+1 >= models.MaxFailedLogins {
		update["$set"] = bson.M{"lockUntil": time.Now().Add(models.LockDuration)}
	}
	_, err := database.DB.Collection(database.UsersCollection).
		UpdateOne(ctx, bson.M{"_id": user.ID}, update)
	if err != nil {
		log.Printf("Error recording failed login: %v", err)
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword stores a one-hour reset token and mails a reset link.
func ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.IsValidEmail(email) {
		respondError(w, http.StatusBadRequest, "Valid email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	users := database.DB.Collection(database.UsersCollection)

	var user models.User
	if err := users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	if mailer == nil {
		log.Println("Missing SMTP configuration")
		respondError(w, http.StatusInternalServerError, "Server configuration error")
		return
	}

	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}
	resetToken := hex.EncodeToString(tokenBytes)
	expires := time.Now().Add(time.Hour)

	_, err := users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"resetPasswordToken":   resetToken,
			"resetPasswordExpires": expires,
			"updatedAt":            time.Now(),
		},
	})
	if err != nil {
		log.Printf("Forgot password error: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	resetURL := strings.TrimRight(cfg.FrontendURL, "/") + "/reset-password?token=" + resetToken
	if err := mailer.SendPasswordReset(user.Email, resetURL); err != nil {
		log.Printf("Error sending reset email: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to send reset email")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Password reset email sent"})
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword consumes a reset token and sets a new password.
func ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Token == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Token and password are required")
		return
	}
	if len(req.Password) < 4 {
		respondError(w, http.StatusBadRequest, "Password should be at least 4 characters long")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	users := database.DB.Collection(database.UsersCollection)

	var user models.User
	err := users.FindOne(ctx, bson.M{
		"resetPasswordToken":   req.Token,
		"resetPasswordExpires": bson.M{"$gt": time.Now()},
	}).Decode(&user)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid or expired reset token")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	_, err = users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"password":            hashed,
			"failedLoginAttempts": 0,
			"updatedAt":           time.Now(),
		},
		"$unset": bson.M{
			"resetPasswordToken":   "",
			"resetPasswordExpires": "",
			"lockUntil":            "",
		},
	})
	if err != nil {
		log.Printf("Reset password error: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Password has been reset"})
}
