package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/dftasks/dftasks-backend/internal/database"
)

func TestParseDate(t *testing.T) {
	got, err := parseDate("2026-09-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), got)

	got, err = parseDate("2026-09-15T08:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 9, 15, 8, 30, 0, 0, time.UTC), got)

	_, err = parseDate("next tuesday")
	assert.Error(t, err)
}

func TestUpdateTaskStatusTaskGoneReturns404(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("archived between load and update", func(mt *mtest.T) {
		database.DB = mt.DB

		taskID := primitive.NewObjectID()
		taskDoc := bson.D{
			{Key: "_id", Value: taskID},
			{Key: "title", Value: "Trasig spis"},
			{Key: "status", Value: "pending"},
			{Key: "isActive", Value: true},
		}

		// loadTask finds the task, then the findAndModify matches
		// nothing (the task was removed in between).
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "dftasks.tasks", mtest.FirstBatch, taskDoc),
			mtest.CreateSuccessResponse(),
		)

		r := newPendingRequest(http.MethodPatch,
			"/api/tasks/"+taskID.Hex()+"/status", taskID.Hex(),
			`{"status":"completed"}`)

		rec := httptest.NewRecorder()
		UpdateTaskStatus(rec, r)

		assert.Equal(mt, http.StatusNotFound, rec.Code)
		assert.Contains(mt, rec.Body.String(), "Task not found")
	})
}
