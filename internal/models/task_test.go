package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestValidTaskStatus(t *testing.T) {
	assert.True(t, ValidTaskStatus(StatusPending))
	assert.True(t, ValidTaskStatus(StatusInProgress))
	assert.True(t, ValidTaskStatus(StatusCompleted))
	assert.True(t, ValidTaskStatus(StatusCannotFix))

	assert.False(t, ValidTaskStatus("done"))
	assert.False(t, ValidTaskStatus("Pending"))
	assert.False(t, ValidTaskStatus(""))
}

func TestSortCommentsNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	comments := []Comment{
		{Content: "oldest", CreatedAt: base},
		{Content: "newest", CreatedAt: base.Add(2 * time.Hour)},
		{Content: "middle", CreatedAt: base.Add(time.Hour)},
	}

	SortCommentsNewestFirst(comments)

	assert.Equal(t, "newest", comments[0].Content)
	assert.Equal(t, "middle", comments[1].Content)
	assert.Equal(t, "oldest", comments[2].Content)
}

func TestSortCommentsNewestFirstStableOnTies(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	comments := []Comment{
		{Content: "first", CreatedAt: ts},
		{Content: "second", CreatedAt: ts},
	}

	SortCommentsNewestFirst(comments)

	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
}

func TestNewTaskFromPending(t *testing.T) {
	pending := &PendingTask{
		ID:              primitive.NewObjectID(),
		Title:           "Vattenläcka i badrummet",
		Description:     "Det droppar från taket",
		ReporterName:    "Anna Svensson",
		ReporterEmail:   "anna@example.com",
		ReporterPhone:   "070-1234567",
		Address:         "Storgatan 1",
		ApartmentNumber: "1203",
		Status:          PendingStatusApproved,
	}
	assignee := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	task := NewTaskFromPending(pending, assignee, due, admin)

	assert.Equal(t, pending.Title, task.Title)
	assert.Equal(t, pending.Description, task.Description)
	assert.Equal(t, pending.ReporterName, task.ReporterName)
	assert.Equal(t, pending.ReporterEmail, task.ReporterEmail)
	assert.Equal(t, pending.ReporterPhone, task.ReporterPhone)
	assert.Equal(t, pending.Address, task.Address)
	assert.Equal(t, pending.ApartmentNumber, task.ApartmentNumber)

	// New tasks always start pending, whatever the pending record said.
	assert.Equal(t, StatusPending, task.Status)
	assert.True(t, task.IsActive)
	assert.Empty(t, task.Comments)

	require.NotNil(t, task.AssignedTo)
	assert.Equal(t, assignee, *task.AssignedTo)
	assert.Equal(t, due, task.DueDate)
	assert.Equal(t, admin, task.CreatedBy)

	require.NotNil(t, task.SourcePendingID)
	assert.Equal(t, pending.ID, *task.SourcePendingID)
}

func TestUserIsAdmin(t *testing.T) {
	assert.False(t, (&User{Role: RoleUser}).IsAdmin())
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.True(t, (&User{Role: RoleSuperAdmin}).IsAdmin())
}

func TestUserIsLocked(t *testing.T) {
	assert.False(t, (&User{}).IsLocked())

	past := time.Now().Add(-time.Minute)
	assert.False(t, (&User{LockUntil: &past}).IsLocked())

	future := time.Now().Add(time.Hour)
	assert.True(t, (&User{LockUntil: &future}).IsLocked())
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleUser))
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleSuperAdmin))
	assert.False(t, ValidRole("admin"))
	assert.False(t, ValidRole(""))
}
