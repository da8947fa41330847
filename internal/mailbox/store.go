package mailbox

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dftasks/dftasks-backend/internal/database"
	"github.com/dftasks/dftasks-backend/internal/models"
)

// MongoStore is the production PendingTaskStore backed by the shared
// Mongo connection.
type MongoStore struct{}

func (MongoStore) HasMessageID(ctx context.Context, messageID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	count, err := database.DB.Collection(database.PendingTasksCollection).
		CountDocuments(ctx, bson.M{"messageId": messageID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (MongoStore) CreatePendingTask(ctx context.Context, task *models.PendingTask) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection(database.PendingTasksCollection).InsertOne(ctx, task)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		task.ID = oid
	}
	return nil
}
