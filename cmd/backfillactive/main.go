// Command backfillactive sets isActive=true on users, tasks and
// comments created before the soft-delete flag existed.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"

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

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	missing := bson.M{"isActive": bson.M{"$exists": false}}

	result, err := database.DB.Collection(database.UsersCollection).UpdateMany(ctx,
		missing, bson.M{"$set": bson.M{"isActive": true}})
	if err != nil {
		log.Fatal("Failed to update users:", err)
	}
	log.Printf("✅ Users updated: %d", result.ModifiedCount)

	result, err = database.DB.Collection(database.TasksCollection).UpdateMany(ctx,
		missing, bson.M{"$set": bson.M{"isActive": true}})
	if err != nil {
		log.Fatal("Failed to update tasks:", err)
	}
	log.Printf("✅ Tasks updated: %d", result.ModifiedCount)

	// Comments are embedded, so each task with legacy comments is
	// rewritten individually.
	tasks := database.DB.Collection(database.TasksCollection)
	cursor, err := tasks.Find(ctx, bson.M{"comments.isActive": bson.M{"$exists": false}})
	if err != nil {
		log.Fatal("Failed to find tasks with legacy comments:", err)
	}
	defer cursor.Close(ctx)

	updated := 0
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			log.Fatal("Failed to decode task:", err)
		}
		for i := range task.Comments {
			task.Comments[i].IsActive = true
		}
		if _, err := tasks.UpdateOne(ctx, bson.M{"_id": task.ID},
			bson.M{"$set": bson.M{"comments": task.Comments}}); err != nil {
			log.Fatal("Failed to update comments:", err)
		}
		updated++
	}
	if err := cursor.Err(); err != nil {
		log.Fatal("Cursor error:", err)
	}
	log.Printf("✅ Tasks with comments updated: %d", updated)
}
