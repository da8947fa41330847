package handlers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dftasks/dftasks-backend/internal/database"
	"github.com/dftasks/dftasks-backend/internal/models"
)

// CommentResponse is a comment with its author resolved to name/email.
type CommentResponse struct {
	ID           primitive.ObjectID `json:"id"`
	Content      string             `json:"content"`
	Translations map[string]string  `json:"translations,omitempty"`
	CreatedBy    *models.UserRef    `json:"createdBy"`
	CreatedAt    time.Time          `json:"createdAt"`
	IsActive     bool               `json:"isActive"`
}

// TaskResponse is a task with assignee, creator and comment authors
// resolved to name/email (the driver has no Mongoose-style populate,
// so references are resolved with a second users query).
type TaskResponse struct {
	ID        primitive.ObjectID `json:"id"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`

	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Status      string            `json:"status"`
	AssignedTo  *models.UserRef   `json:"assignedTo"`
	DueDate     time.Time         `json:"dueDate"`
	CreatedBy   *models.UserRef   `json:"createdBy"`
	IsActive    bool              `json:"isActive"`
	Comments    []CommentResponse `json:"comments"`
	Attachments []string          `json:"attachments,omitempty"`

	ReporterName    string `json:"reporterName,omitempty"`
	ReporterEmail   string `json:"reporterEmail,omitempty"`
	ReporterPhone   string `json:"reporterPhone,omitempty"`
	Address         string `json:"address,omitempty"`
	ApartmentNumber string `json:"apartmentNumber,omitempty"`
}

// populateTasks resolves every user reference across the given tasks
// with a single users query.
func populateTasks(ctx context.Context, tasks []models.Task) ([]*TaskResponse, error) {
	idSet := make(map[primitive.ObjectID]struct{})
	for i := range tasks {
		if tasks[i].AssignedTo != nil {
			idSet[*tasks[i].AssignedTo] = struct{}{}
		}
		idSet[tasks[i].CreatedBy] = struct{}{}
		for j := range tasks[i].Comments {
			idSet[tasks[i].Comments[j].CreatedBy] = struct{}{}
		}
	}

	refs, err := lookupUserRefs(ctx, idSet)
	if err != nil {
		return nil, err
	}

	out := make([]*TaskResponse, len(tasks))
	for i := range tasks {
		out[i] = buildTaskResponse(&tasks[i], refs)
	}
	return out, nil
}

func populateTask(ctx context.Context, task *models.Task) (*TaskResponse, error) {
	resolved, err := populateTasks(ctx, []models.Task{*task})
	if err != nil {
		return nil, err
	}
	return resolved[0], nil
}

func lookupUserRefs(ctx context.Context, idSet map[primitive.ObjectID]struct{}) (map[primitive.ObjectID]*models.UserRef, error) {
	refs := make(map[primitive.ObjectID]*models.UserRef, len(idSet))
	if len(idSet) == 0 {
		return refs, nil
	}

	ids := make([]primitive.ObjectID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection(database.UsersCollection).Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1, "email": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	for _, u := range users {
		refs[u.ID] = &models.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return refs, nil
}

func buildTaskResponse(task *models.Task, refs map[primitive.ObjectID]*models.UserRef) *TaskResponse {
	resp := &TaskResponse{
		ID:              task.ID,
		CreatedAt:       task.CreatedAt,
		UpdatedAt:       task.UpdatedAt,
		Title:           task.Title,
		Description:     task.Description,
		Status:          task.Status,
		DueDate:         task.DueDate,
		CreatedBy:       refs[task.CreatedBy],
		IsActive:        task.IsActive,
		Comments:        make([]CommentResponse, 0, len(task.Comments)),
		Attachments:     task.Attachments,
		ReporterName:    task.ReporterName,
		ReporterEmail:   task.ReporterEmail,
		ReporterPhone:   task.ReporterPhone,
		Address:         task.Address,
		ApartmentNumber: task.ApartmentNumber,
	}
	if task.AssignedTo != nil {
		resp.AssignedTo = refs[*task.AssignedTo]
	}
	for _, c := range task.Comments {
		resp.Comments = append(resp.Comments, CommentResponse{
			ID:           c.ID,
			Content:      c.Content,
			Translations: c.Translations,
			CreatedBy:    refs[c.CreatedBy],
			CreatedAt:    c.CreatedAt,
			IsActive:     c.IsActive,
		})
	}
	return resp
}
