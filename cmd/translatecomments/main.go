// Command translatecomments backfills missing comment translations.
// Comments written before translation existed, or whose translation
// failed at write time, get the missing languages filled in.
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
	"github.com/dftasks/dftasks-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	translator := services.NewTranslator(cfg.GoogleTranslateAPIKey, cfg.DeepLAPIKey)
	if !translator.Enabled() {
		log.Fatal("No translation API key configured")
	}

	if err := database.Connect(cfg.MongoURL); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	ctx := context.Background()

	tasks := database.DB.Collection(database.TasksCollection)
	cursor, err := tasks.Find(ctx, bson.M{"comments.0": bson.M{"$exists": true}})
	if err != nil {
		log.Fatal("Failed to find tasks:", err)
	}
	defer cursor.Close(ctx)

	translated, failed := 0, 0
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			log.Fatal("Failed to decode task:", err)
		}

		changed := false
		for i := range task.Comments {
			comment := &task.Comments[i]
			if comment.Content == "" {
				continue
			}
			if comment.Translations == nil {
				comment.Translations = map[string]string{"en": comment.Content}
				changed = true
			}
			for _, lang := range models.SupportedLanguages {
				if _, ok := comment.Translations[lang]; ok {
					continue
				}
				text, err := translator.Translate(ctx, comment.Content, "en", lang)
				if err != nil {
					log.Printf("Error translating comment %s to %s: %v", comment.ID.Hex(), lang, err)
					failed++
					continue
				}
				comment.Translations[lang] = text
				changed = true
				translated++
				// Stay under the provider rate limits.
				time.Sleep(time.Second)
			}
		}

		if changed {
			if _, err := tasks.UpdateOne(ctx, bson.M{"_id": task.ID},
				bson.M{"$set": bson.M{"comments": task.Comments}}); err != nil {
				log.Fatal("Failed to save task:", err)
			}
			log.Printf("Updated comments on task %s", task.ID.Hex())
		}
	}
	if err := cursor.Err(); err != nil {
		log.Fatal("Cursor error:", err)
	}

	log.Printf("✅ Done: %d translations added, %d failed", translated, failed)
}
