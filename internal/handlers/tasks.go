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

// GetTasks returns active tasks newest first. ?all=true includes
// archived (isActive=false) tasks.
func GetTasks(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{"isActive": true}
	if r.URL.Query().Get("all") == "true" {
		filter = bson.M{}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection(database.TasksCollection).Find(ctx,
		filter, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		log.Printf("Error in getTasks: %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching tasks")
		return
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		log.Printf("Error in getTasks: %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching tasks")
		return
	}

	resolved, err := populateTasks(r.Context(), tasks)
	if err != nil {
		log.Printf("Error in getTasks: %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching tasks")
		return
	}

	respondJSON(w, http.StatusOK, resolved)
}

// GetAssignedTasks returns the caller's active tasks, newest first.
func GetAssignedTasks(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection(database.TasksCollection).Find(ctx,
		bson.M{"assignedTo": user.ID, "isActive": true},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		log.Printf("Error in getAssignedTasks: %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching assigned tasks")
		return
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		log.Printf("Error in getAssignedTasks: %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching assigned tasks")
		return
	}

	resolved, err := populateTasks(r.Context(), tasks)
	if err != nil {
		log.Printf("Error in getAssignedTasks: %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching assigned tasks")
		return
	}

	respondJSON(w, http.StatusOK, resolved)
}

type createTaskRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	AssignedTo  string   `json:"assignedTo"`
	DueDate     string   `json:"dueDate"`
	Attachments []string `json:"attachments"`
}

// CreateTask creates a task directly (without going through a pending
// task).
func CreateTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" || req.DueDate == "" {
		respondError(w, http.StatusBadRequest, "Title and due date are required")
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid due date")
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if !models.ValidTaskStatus(status) {
		respondError(w, http.StatusBadRequest, status+" is not a valid status")
		return
	}

	var assignedTo *primitive.ObjectID
	if req.AssignedTo != "" {
		id, err := primitive.ObjectIDFromHex(req.AssignedTo)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid assignee id")
			return
		}
		assignedTo = &id
	}

	now := time.Now().UTC()
	task := models.Task{
		CreatedAt:   now,
		UpdatedAt:   now,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Status:      status,
		AssignedTo:  assignedTo,
		DueDate:     dueDate,
		CreatedBy:   user.ID,
		IsActive:    true,
		Comments:    []models.Comment{},
		Attachments: req.Attachments,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection(database.TasksCollection).InsertOne(ctx, task)
	if err != nil {
		log.Printf("Error in createTask: %v", err)
		respondError(w, http.StatusInternalServerError, "Error creating task")
		return
	}
	task.ID = result.InsertedID.(primitive.ObjectID)

	resolved, err := populateTask(r.Context(), &task)
	if err != nil {
		log.Printf("Error in createTask: %v", err)
		respondError(w, http.StatusInternalServerError, "Error creating task")
		return
	}

	respondJSON(w, http.StatusCreated, resolved)
}

// GetTask returns one task. Non-admin callers only see tasks assigned
// to them.
func GetTask(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	task, ok := loadTask(w, r)
	if !ok {
		return
	}

	if !user.IsAdmin() && (task.AssignedTo == nil || *task.AssignedTo != user.ID) {
		respondError(w, http.StatusForbidden, "Access denied")
		return
	}

	resolved, err := populateTask(r.Context(), task)
	if err != nil {
		log.Printf("Error in getTask: %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching task")
		return
	}

	respondJSON(w, http.StatusOK, resolved)
}

type updateTaskRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
	AssignedTo  *string  `json:"assignedTo"`
	DueDate     *string  `json:"dueDate"`
	IsActive    *bool    `json:"isActive"`
	Attachments []string `json:"attachments"`
}

// UpdateTask updates task fields; only supplied fields change.
func UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	unset := bson.M{}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			respondError(w, http.StatusBadRequest, "Title cannot be empty")
			return
		}
		set["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		set["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		if !models.ValidTaskStatus(*req.Status) {
			respondError(w, http.StatusBadRequest, *req.Status+" is not a valid status")
			return
		}
		set["status"] = *req.Status
	}
	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			unset["assignedTo"] = ""
		} else {
			id, err := primitive.ObjectIDFromHex(*req.AssignedTo)
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid assignee id")
				return
			}
			set["assignedTo"] = id
		}
	}
	if req.DueDate != nil {
		dueDate, err := parseDate(*req.DueDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid due date")
			return
		}
		set["dueDate"] = dueDate
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}
	if req.Attachments != nil {
		set["attachments"] = req.Attachments
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var task models.Task
	err = database.DB.Collection(database.TasksCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": taskID}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Task not found")
			return
		}
		log.Printf("Error in updateTask: %v", err)
		respondError(w, http.StatusInternalServerError, "Error updating task")
		return
	}

	resolved, err := populateTask(r.Context(), &task)
	if err != nil {
		log.Printf("Error in updateTask: %v", err)
		respondError(w, http.StatusInternalServerError, "Error updating task")
		return
	}

	respondJSON(w, http.StatusOK, resolved)
}

// DeleteTask archives a task (isActive=false). Tasks are retrievable
// via GET /api/tasks?all=true afterwards.
func DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection(database.TasksCollection).UpdateOne(ctx,
		bson.M{"_id": taskID},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}})
	if err != nil {
		log.Printf("Error in deleteTask: %v", err)
		respondError(w, http.StatusInternalServerError, "Error deleting task")
		return
	}
	if result.MatchedCount == 0 {
		respondError(w, http.StatusNotFound, "Task not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Task archived successfully"})
}

type updateTaskStatusRequest struct {
	Status   *string `json:"status"`
	IsActive *bool   `json:"isActive"`
}

// UpdateTaskStatus sets status and/or the archival flag. Allowed for
// admins and the task's current assignee.
func UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	task, ok := loadTask(w, r)
	if !ok {
		return
	}

	if !user.IsAdmin() && (task.AssignedTo == nil || *task.AssignedTo != user.ID) {
		respondError(w, http.StatusForbidden, "Access denied")
		return
	}

	var req updateTaskStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status == nil && req.IsActive == nil {
		respondError(w, http.StatusBadRequest, "Status is required")
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.Status != nil {
		if !models.ValidTaskStatus(*req.Status) {
			respondError(w, http.StatusBadRequest, *req.Status+" is not a valid status")
			return
		}
		set["status"] = *req.Status
	}
	if req.IsActive != nil {
		set["isActive"] = *req.IsActive
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var updated models.Task
	err := database.DB.Collection(database.TasksCollection).FindOneAndUpdate(ctx,
		bson.M{"_id": task.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		// The task can be removed between loadTask and the update.
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Task not found")
			return
		}
		log.Printf("Error updating task status: %v", err)
		respondError(w, http.StatusInternalServerError, "Error updating task status")
		return
	}

	resolved, err := populateTask(r.Context(), &updated)
	if err != nil {
		log.Printf("Error updating task status: %v", err)
		respondError(w, http.StatusInternalServerError, "Error updating task status")
		return
	}

	respondJSON(w, http.StatusOK, resolved)
}

// loadTask reads the {id} URL param and fetches the task, writing the
// error response itself when it fails.
func loadTask(w http.ResponseWriter, r *http.Request) (*models.Task, bool) {
	taskID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid task id")
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var task models.Task
	err = database.DB.Collection(database.TasksCollection).
		FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			respondError(w, http.StatusNotFound, "Task not found")
			return nil, false
		}
		log.Printf("Error fetching task: %v", err)
		respondError(w, http.StatusInternalServerError, "Error fetching task")
		return nil, false
	}
	return &task, true
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
