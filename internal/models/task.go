package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task statuses. The set is validated on write but no transition graph
// is enforced: any caller with sufficient role may set any value at any
// time. This mirrors how the admins actually use the board and is
// intentional, not an oversight.
const (
	StatusPending    = "pending"
	StatusInProgress = "in progress"
	StatusCompleted  = "completed"
	StatusCannotFix  = "cannot fix"
)

// SupportedLanguages are the languages task and comment content is
// translated into. English is the assumed source language.
var SupportedLanguages = []string{"en", "sv", "pl", "uk"}

// Comment is embedded in Task. Comments are append-only; admins can
// hide one via IsActive but never remove it.
type Comment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Content      string             `bson:"content" json:"content"`
	Translations map[string]string  `bson:"translations,omitempty" json:"translations,omitempty"`
	CreatedBy    primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
}

type Task struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Status      string              `bson:"status" json:"status"`
	AssignedTo  *primitive.ObjectID `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	DueDate     time.Time           `bson:"dueDate" json:"dueDate"`
	CreatedBy   primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	IsActive    bool                `bson:"isActive" json:"isActive"`
	Comments    []Comment           `bson:"comments" json:"comments"`
	Attachments []string            `bson:"attachments,omitempty" json:"attachments,omitempty"`

	// Reporter fields carried over from the pending task this was
	// approved from (empty for tasks created directly by an admin).
	ReporterName    string `bson:"reporterName,omitempty" json:"reporterName,omitempty"`
	ReporterEmail   string `bson:"reporterEmail,omitempty" json:"reporterEmail,omitempty"`
	ReporterPhone   string `bson:"reporterPhone,omitempty" json:"reporterPhone,omitempty"`
	Address         string `bson:"address,omitempty" json:"address,omitempty"`
	ApartmentNumber string `bson:"apartmentNumber,omitempty" json:"apartmentNumber,omitempty"`

	// SourcePendingID records which pending task this was approved
	// from, so a retried approval finds the existing task instead of
	// creating a duplicate.
	SourcePendingID *primitive.ObjectID `bson:"sourcePendingId,omitempty" json:"-"`
}

// ValidTaskStatus reports whether s is one of the four task statuses.
func ValidTaskStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCannotFix:
		return true
	}
	return false
}

// SortCommentsNewestFirst orders comments descending by creation time.
// Applied before every save so clients always see the latest comment
// first.
func SortCommentsNewestFirst(comments []Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
}

// NewTaskFromPending builds the Task an approval creates: title,
// description and reporter fields are copied verbatim, status is forced
// to pending, and the admin-supplied assignee and due date are set.
func NewTaskFromPending(p *PendingTask, assignee primitive.ObjectID, dueDate time.Time, createdBy primitive.ObjectID) *Task {
	now := time.Now().UTC()
	src := p.ID
	return &Task{
		CreatedAt:       now,
		UpdatedAt:       now,
		Title:           p.Title,
		Description:     p.Description,
		Status:          StatusPending,
		AssignedTo:      &assignee,
		DueDate:         dueDate,
		CreatedBy:       createdBy,
		IsActive:        true,
		Comments:        []Comment{},
		ReporterName:    p.ReporterName,
		ReporterEmail:   p.ReporterEmail,
		ReporterPhone:   p.ReporterPhone,
		Address:         p.Address,
		ApartmentNumber: p.ApartmentNumber,
		SourcePendingID: &src,
	}
}
