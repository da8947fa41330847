package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PendingTask statuses. Transitions are one-way: pending tasks are
// either promoted into a Task (and deleted) or declined (and kept).
const (
	PendingStatusPending  = "pending"
	PendingStatusApproved = "approved"
	PendingStatusDeclined = "declined"
)

// PendingTranslation holds one language's rendering of a pending
// task's title and description.
type PendingTranslation struct {
	Title       string `bson:"title,omitempty" json:"title,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}

// PendingTask is an unconfirmed incident report, normally created by
// the mailbox listener from an inbound email.
type PendingTask struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Title        string                        `bson:"title" json:"title"`
	Description  string                        `bson:"description" json:"description"`
	Translations map[string]PendingTranslation `bson:"translations,omitempty" json:"translations,omitempty"`

	ReporterName    string `bson:"reporterName" json:"reporterName"`
	ReporterEmail   string `bson:"reporterEmail" json:"reporterEmail"`
	ReporterPhone   string `bson:"reporterPhone" json:"reporterPhone"`
	Address         string `bson:"address" json:"address"`
	ApartmentNumber string `bson:"apartmentNumber" json:"apartmentNumber"`

	Status string `bson:"status" json:"status"`

	// MessageID is the inbound email's Message-ID header, used to skip
	// duplicate deliveries of the same email. Absent for pending tasks
	// created manually.
	MessageID string `bson:"messageId,omitempty" json:"messageId,omitempty"`

	ApprovedBy *primitive.ObjectID `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	ApprovedAt *time.Time          `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`

	DeclinedBy    *primitive.ObjectID `bson:"declinedBy,omitempty" json:"declinedBy,omitempty"`
	DeclinedAt    *time.Time          `bson:"declinedAt,omitempty" json:"declinedAt,omitempty"`
	DeclineReason string              `bson:"declineReason,omitempty" json:"declineReason,omitempty"`
}
