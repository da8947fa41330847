package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. A disabled (IsActive=false) user cannot authenticate
// regardless of role.
const (
	RoleUser       = "USER"
	RoleAdmin      = "ADMIN"
	RoleSuperAdmin = "SUPERADMIN"
)

// MaxFailedLogins is the number of failed attempts before the account
// is locked for LockDuration.
const (
	MaxFailedLogins = 5
	LockDuration    = time.Hour
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Name              string `bson:"name" json:"name"`
	Email             string `bson:"email" json:"email"`
	Password          string `bson:"password" json:"-"` // bcrypt hash, never returned
	Role              string `bson:"role" json:"role"`
	IsActive          bool   `bson:"isActive" json:"isActive"`
	PreferredLanguage string `bson:"preferredLanguage,omitempty" json:"preferredLanguage,omitempty"`

	LastLogin           *time.Time `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`
	FailedLoginAttempts int        `bson:"failedLoginAttempts" json:"-"`
	LockUntil           *time.Time `bson:"lockUntil,omitempty" json:"-"`

	ResetPasswordToken   string     `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpires *time.Time `bson:"resetPasswordExpires,omitempty" json:"-"`
}

// ValidRole reports whether role is one of the three enumerated values.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the user holds ADMIN or SUPERADMIN.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// IsLocked reports whether the account is currently locked out after
// too many failed login attempts.
func (u *User) IsLocked() bool {
	return u.LockUntil != nil && u.LockUntil.After(time.Now())
}

// UserRef is the shape referenced users are populated into on task and
// comment responses (name and email only).
type UserRef struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
}
