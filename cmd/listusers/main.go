// Command listusers prints every user account, for operational checks
// when no admin can log in to the dashboard.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dftasks/dftasks-backend/internal/config"
	"github.com/dftasks/dftasks-backend/internal/database"
	"github.com/dftasks/dftasks-backend/internal/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if err := database.Connect(cfg.MongoURL); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection(database.UsersCollection).Find(ctx,
		bson.M{}, options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		log.Fatal("Failed to list users:", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		log.Fatal("Failed to decode users:", err)
	}

	log.Printf("Found %d users:", len(users))
	for _, u := range users {
		status := "active"
		if !u.IsActive {
			status = "inactive"
		}
		log.Printf("  %s  %-30s  %-10s  %s", u.ID.Hex(), u.Email, u.Role, status)
	}
}
