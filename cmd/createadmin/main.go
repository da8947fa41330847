// Command createadmin creates (or recreates) an admin account.
//
// Usage:
//
//	ADMIN_EMAIL=admin@example.com ADMIN_NAME="Admin" ADMIN_PASSWORD=secret go run ./cmd/createadmin
//
// An existing user with the same email is deleted first, so the
// command can be re-run to reset the admin password.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/dftasks/dftasks-backend/internal/config"
	"github.com/dftasks/dftasks-backend/internal/database"
	"github.com/dftasks/dftasks-backend/internal/models"
	"github.com/dftasks/dftasks-backend/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	email := os.Getenv("ADMIN_EMAIL")
	name := os.Getenv("ADMIN_NAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || name == "" || password == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_NAME and ADMIN_PASSWORD are required")
	}

	if err := database.Connect(cfg.MongoURL); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	users := database.DB.Collection(database.UsersCollection)

	result, err := users.DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		log.Fatal("Failed to delete existing user:", err)
	}
	if result.DeletedCount > 0 {
		log.Printf("Deleted existing user %s", email)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	now := time.Now().UTC()
	admin := models.User{
		Name:              name,
		Email:             email,
		Password:          hashed,
		Role:              models.RoleAdmin,
		PreferredLanguage: "en",
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if _, err := users.InsertOne(ctx, admin); err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Printf("✅ Admin user created: %s (%s)", name, email)
}
