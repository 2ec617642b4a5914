package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role enumerates the authorization levels a user can hold. ANONYMOUS is a
// sentinel for unauthenticated callers and is never persisted on a real
// account.
type Role string

const (
	RoleAnonymous     Role = "ANONYMOUS"
	RoleAuthenticated Role = "AUTHENTICATED"
	RoleManager       Role = "MANAGER"
	RoleAdmin         Role = "ADMIN"
)

// Valid reports whether the role is one of the persistable values.
func (r Role) Valid() bool {
	switch r {
	case RoleAuthenticated, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User is the central account entity. The password column only ever holds a
// bcrypt hash and is excluded from JSON serialization.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Nickname string `gorm:"uniqueIndex;not null" json:"nickname"`
	Password string `gorm:"not null" json:"-"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`

	ProfilePictureURL  string `json:"profile_picture_url"`
	LinkedinProfileURL string `json:"linkedin_profile_url"`
	GithubProfileURL   string `json:"github_profile_url"`

	Role           Role `gorm:"type:varchar(16);default:AUTHENTICATED" json:"role"`
	IsProfessional bool `gorm:"default:false" json:"is_professional"`

	FailedLoginAttempts int    `gorm:"default:0" json:"-"`
	IsLocked            bool   `gorm:"default:false" json:"-"`
	VerificationToken   string `json:"-"`
	IsVerified          bool   `gorm:"default:false" json:"is_verified"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures a UUID and a persistable role are present.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if !u.Role.Valid() {
		u.Role = RoleAuthenticated
	}
	return nil
}

// FullName joins the first and last name for display and email greetings.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}
