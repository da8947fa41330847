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
	"github.com/dftasks/dftasks-backend/internal/middleware"
	"github.com/dftasks/dftasks-backend/internal/models"
)

// GetPendingTasks returns unconfirmed reports awaiting an admin
// decision, newest first.
func GetPendingTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection(database.PendingTasksCollection).Find(ctx,
		bson.M{"status": models.PendingStatusPending},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		log.Printf("Error fetching pending tasks: %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching pending tasks")
		return
	}
	defer cursor.Close(ctx)

	tasks := []models.PendingTask{}
	if err := cursor.All(ctx, &tasks); err != nil {
		log.Printf("Error decoding pending tasks: %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching pending tasks")
		return
	}

	respondJSON(w, http.StatusOK, tasks)
}

type approvePendingTaskRequest struct {
	AssignedTo string `json:"assignedTo"`
	DueDate    string `json:"dueDate"`
}

// ApprovePendingTask promotes a pending task into a real task: the
// report's fields are copied onto a new Task with the supplied
// assignee and due date, then the pending task is deleted. The two
// writes are not transactional; the sourcePendingId lookup makes a
// retried approval return the already-created task instead of
// duplicating it.
func ApprovePendingTask(w http.ResponseWriter, r *http.Request) {
	admin, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	pendingID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req approvePendingTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.AssignedTo == "" || req.DueDate == "" {
		respondError(w, http.StatusBadRequest, "Assignee and due date are required")
		return
	}

	assigneeID, err := primitive.ObjectIDFromHex(req.AssignedTo)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid assignee id")
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid due date")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	pendingCol := database.DB.Collection(database.PendingTasksCollection)
	taskCol := database.DB.Collection(database.TasksCollection)
	userCol := database.DB.Collection(database.UsersCollection)

	// A previous approval may have created the task and crashed before
	// deleting the pending record. Return the existing task and finish
	// the cleanup instead of creating a duplicate.
	var existing models.Task
	err = taskCol.FindOne(ctx, bson.M{"sourcePendingId": pendingID}).Decode(&existing)
	if err == nil {
		if _, delErr := pendingCol.DeleteOne(ctx, bson.M{"_id": pendingID}); delErr != nil {
			log.Printf("Error cleaning up approved pending task: %v", delErr)
		}
		resolved, popErr := populateTask(r.Context(), &existing)
		if popErr != nil {
			log.Printf("Error in approvePendingTask: %v", popErr)
			respondError(w, http.StatusInternalServerError, "Error approving task")
			return
		}
		respondJSON(w, http.StatusOK, resolved)
		return
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("Error in approvePendingTask: %v", err)
		respondError(w, http.StatusInternalServerError, "Error approving task")
		return
	}

	var pending models.PendingTask
	if err := pendingCol.FindOne(ctx, bson.M{"_id": pendingID}).Decode(&pending); err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Pending task not found")
			return
		}
		log.Printf("Error in approvePendingTask: %v", err)
		respondError(w, http.StatusInternalServerError, "Error approving task")
		return
	}

	var assignee models.User
	if err := userCol.FindOne(ctx, bson.M{"_id": assigneeID}).Decode(&assignee); err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusBadRequest, "Assigned user not found")
			return
		}
		log.Printf("Error in approvePendingTask: %v", err)
		respondError(w, http.StatusInternalServerError, "Error approving task")
		return
	}

	task := models.NewTaskFromPending(&pending, assigneeID, dueDate, admin.ID)

	result, err := taskCol.InsertOne(ctx, task)
	if err != nil {
		log.Printf("Error in approvePendingTask: %v", err)
		respondError(w, http.StatusInternalServerError, "Error approving task")
		return
	}
	task.ID = result.InsertedID.(primitive.ObjectID)

	if _, err := pendingCol.DeleteOne(ctx, bson.M{"_id": pendingID}); err != nil {
		// The task exists; the orphaned pending record will be healed
		// by the sourcePendingId lookup on the next approval attempt.
		log.Printf("Error deleting approved pending task: %v", err)
	}

	resolved, err := populateTask(r.Context(), task)
	if err != nil {
		log.Printf("Error in approvePendingTask: %v", err)
		respondError(w, http.StatusInternalServerError, "Error approving task")
		return
	}

	respondJSON(w, http.StatusCreated, resolved)
}

type declinePendingTaskRequest struct {
	DeclineReason string `json:"declineReason"`
}

// DeclinePendingTask marks a pending task declined with a reason. The
// record is kept for the audit trail.
func DeclinePendingTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	pendingID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req declinePendingTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.DeclineReason) == "" {
		respondError(w, http.StatusBadRequest, "Decline reason is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	now := time.Now()
	var pending models.PendingTask
	// Matching on status keeps the first decline as the audit record: a
	// repeat decline finds nothing and 404s instead of overwriting the
	// original decliner and reason.
	err = database.DB.Collection(database.PendingTasksCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": pendingID, "status": models.PendingStatusPending},
		bson.M{"$set": bson.M{
			"status":        models.PendingStatusDeclined,
			"declinedBy":    user.ID,
			"declinedAt":    now,
			"declineReason": strings.TrimSpace(req.DeclineReason),
			"updatedAt":     now,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&pending)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Pending task not found")
			return
		}
		log.Printf("Error in declinePendingTask: %v", err)
		respondError(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Task declined successfully",
		"task":    pending,
	})
}
