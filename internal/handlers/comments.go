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

	"github.com/dftasks/dftasks-backend/internal/database"
	"github.com/dftasks/dftasks-backend/internal/middleware"
	"github.com/dftasks/dftasks-backend/internal/models"
)

type addCommentRequest struct {
	Content string `json:"content"`
}

// AddComment appends a comment to a task. The content is translated
// into the other supported languages best-effort: a failed language is
// logged and omitted, never blocking the save. Comments are kept
// newest-first.
func AddComment(w http.ResponseWriter, r *http.Request) {
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

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(w, http.StatusBadRequest, "Comment content is required")
		return
	}

	comment := models.Comment{
		ID:           primitive.NewObjectID(),
		Content:      content,
		Translations: translateComment(r.Context(), content),
		CreatedBy:    user.ID,
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
	}

	task.Comments = append(task.Comments, comment)
	models.SortCommentsNewestFirst(task.Comments)

	if !saveComments(w, task) {
		return
	}

	resolved, err := populateTask(r.Context(), task)
	if err != nil {
		log.Printf("Error adding comment: %v", err)
		respondError(w, http.StatusInternalServerError, "Error adding comment")
		return
	}

	respondJSON(w, http.StatusOK, resolved)
}

// ToggleCommentVisibility flips a comment's isActive flag. The comment
// stays in the document either way; hidden comments are simply not
// rendered by the clients.
func ToggleCommentVisibility(w http.ResponseWriter, r *http.Request) {
	task, ok := loadTask(w, r)
	if !ok {
		return
	}

	commentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "commentID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid comment id")
		return
	}

	found := false
	for i := range task.Comments {
		if task.Comments[i].ID == commentID {
			task.Comments[i].IsActive = !task.Comments[i].IsActive
			found = true
			break
		}
	}
	if !found {
		respondError(w, http.StatusNotFound, "Comment not found")
		return
	}

	models.SortCommentsNewestFirst(task.Comments)

	if !saveComments(w, task) {
		return
	}

	resolved, err := populateTask(r.Context(), task)
	if err != nil {
		log.Printf("Error toggling comment visibility: %v", err)
		respondError(w, http.StatusInternalServerError, "Error updating comment")
		return
	}

	respondJSON(w, http.StatusOK, resolved)
}

// translateComment builds the translations map for a new comment. The
// original content is assumed English; each remaining supported
// language is filled in only if its translation succeeds.
func translateComment(ctx context.Context, content string) map[string]string {
	translations := map[string]string{"en": content}
	if translator == nil || !translator.Enabled() {
		return translations
	}

	targets := make([]string, 0, len(models.SupportedLanguages))
	for _, lang := range models.SupportedLanguages {
		if lang != "en" {
			targets = append(targets, lang)
		}
	}

	translated, failed := translator.TranslateInto(ctx, content, "en", targets)
	for lang, text := range translated {
		translations[lang] = text
	}
	for lang, err := range failed {
		log.Printf("Error translating comment to %s: %v", lang, err)
	}
	return translations
}

func saveComments(w http.ResponseWriter, task *models.Task) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := database.DB.Collection(database.TasksCollection).UpdateOne(ctx,
		bson.M{"_id": task.ID},
		bson.M{"$set": bson.M{"comments": task.Comments, "updatedAt": time.Now()}})
	if err != nil {
		log.Printf("Error saving comments: %v", err)
		respondError(w, http.StatusInternalServerError, "Error saving comment")
		return false
	}
	return true
}
