// Package schemas defines the declarative validation layer for user input.
// Every request shape validates itself before reaching the account service.
package schemas

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/userhubio/userhub/internal/models"
	apperrors "github.com/userhubio/userhub/pkg/errors"
	appvalidator "github.com/userhubio/userhub/pkg/validator"
)

var (
	nicknamePattern = regexp.MustCompile(`^[\w-]+$`)
	httpURLPattern  = regexp.MustCompile(`^https?://[\w.-]+(?:\.[\w.-]+)+(?:[\w\-._~:/?#\[\]@!$&'()*+,;=.]+)?$`)
)

// passwordSpecials is the punctuation set accepted for the complexity rule.
const passwordSpecials = "!@#$%^&*()_+-=[]{}|;':\",.<>?/`~"

func init() {
	mustRegister("nickname", func(fl validator.FieldLevel) bool {
		return nicknamePattern.MatchString(fl.Field().String())
	})
	mustRegister("http_url", func(fl validator.FieldLevel) bool {
		return httpURLPattern.MatchString(fl.Field().String())
	})
	mustRegister("password", func(fl validator.FieldLevel) bool {
		return len(passwordIssues(fl.Field().String())) == 0
	})

	appvalidator.RegisterStructValidation(atLeastOneField, UpdateUser{})
}

func mustRegister(tag string, fn validator.Func) {
	if err := appvalidator.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("schemas: register %q rule: %v", tag, err))
	}
}

// CreateUser carries the fields accepted at registration. Password complexity
// is enforced here: at least one lowercase letter, one uppercase letter, and
// one special character.
type CreateUser struct {
	Email              string  `json:"email" validate:"required,email"`
	Password           string  `json:"password" validate:"required,password"`
	Nickname           *string `json:"nickname" validate:"omitnil,min=3,nickname"`
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	Bio                *string `json:"bio"`
	ProfilePictureURL  *string `json:"profile_picture_url" validate:"omitnil,http_url"`
	LinkedinProfileURL *string `json:"linkedin_profile_url" validate:"omitnil,http_url"`
	GithubProfileURL   *string `json:"github_profile_url" validate:"omitnil,http_url"`
}

// Validate checks field rules and reports failures as a validation AppError.
func (c CreateUser) Validate() error {
	return translate(appvalidator.ValidateStruct(c), c.Password)
}

// UpdateUser enumerates mutable attributes. Every field is optional, but a
// payload with no fields at all is rejected.
type UpdateUser struct {
	Email              *string `json:"email" validate:"omitnil,email"`
	Nickname           *string `json:"nickname" validate:"omitnil,min=3,nickname"`
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	Bio                *string `json:"bio"`
	ProfilePictureURL  *string `json:"profile_picture_url" validate:"omitnil,http_url"`
	LinkedinProfileURL *string `json:"linkedin_profile_url" validate:"omitnil,http_url"`
	GithubProfileURL   *string `json:"github_profile_url" validate:"omitnil,http_url"`
}

// Validate checks field rules plus the cross-field "at least one" rule.
func (u UpdateUser) Validate() error {
	return translate(appvalidator.ValidateStruct(u), "")
}

func atLeastOneField(sl validator.StructLevel) {
	u := sl.Current().Interface().(UpdateUser)
	if u.Email == nil && u.Nickname == nil && u.FirstName == nil && u.LastName == nil &&
		u.Bio == nil && u.ProfilePictureURL == nil && u.LinkedinProfileURL == nil &&
		u.GithubProfileURL == nil {
		sl.ReportError(u.Email, "update", "Email", "at_least_one_field", "")
	}
}

// LoginRequest carries raw credentials. No format rules apply: a malformed
// email can never match a stored account and fails authentication instead.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate checks that both credentials are present.
func (l LoginRequest) Validate() error {
	return translate(appvalidator.ValidateStruct(l), "")
}

// UserResponse is the outward-facing account shape.
type UserResponse struct {
	ID                 string      `json:"id"`
	Email              string      `json:"email"`
	Nickname           string      `json:"nickname"`
	FirstName          string      `json:"first_name,omitempty"`
	LastName           string      `json:"last_name,omitempty"`
	Bio                string      `json:"bio,omitempty"`
	ProfilePictureURL  string      `json:"profile_picture_url,omitempty"`
	LinkedinProfileURL string      `json:"linkedin_profile_url,omitempty"`
	GithubProfileURL   string      `json:"github_profile_url,omitempty"`
	Role               models.Role `json:"role"`
	IsProfessional     bool        `json:"is_professional"`
	IsVerified         bool        `json:"is_verified"`
	CreatedAt          time.Time   `json:"created_at"`
}

// NewUserResponse maps a persisted user onto the response shape.
func NewUserResponse(user *models.User) UserResponse {
	role := user.Role
	if !role.Valid() {
		role = models.RoleAuthenticated
	}

	return UserResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Nickname:           user.Nickname,
		FirstName:          user.FirstName,
		LastName:           user.LastName,
		Bio:                user.Bio,
		ProfilePictureURL:  user.ProfilePictureURL,
		LinkedinProfileURL: user.LinkedinProfileURL,
		GithubProfileURL:   user.GithubProfileURL,
		Role:               role,
		IsProfessional:     user.IsProfessional,
		IsVerified:         user.IsVerified,
		CreatedAt:          user.CreatedAt,
	}
}

// UserListResponse is the pagination envelope for user listings.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

// NewUserListResponse wraps a page of users with pagination metadata.
func NewUserListResponse(users []models.User, total int64, page, size int) UserListResponse {
	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, NewUserResponse(&users[i]))
	}
	return UserListResponse{
		Items: items,
		Total: total,
		Page:  page,
		Size:  size,
	}
}

// translate converts validator failures into a single validation AppError
// with a human-readable message per failed field.
func translate(err error, password string) error {
	if err == nil {
		return nil
	}

	var failures appvalidator.ValidationErrors
	if !errors.As(err, &failures) {
		return apperrors.ErrValidation.WithInternal(err)
	}

	messages := make([]string, 0, len(failures))
	for _, failure := range failures {
		messages = append(messages, describe(failure, password))
	}
	return apperrors.NewValidation(strings.Join(messages, "; "))
}

func describe(failure appvalidator.ValidationError, password string) string {
	switch failure.Tag {
	case "required":
		return fmt.Sprintf("%s is required", failure.Field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", failure.Field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", failure.Field, failure.Param)
	case "nickname":
		return "nickname may only contain letters, digits, underscores, and hyphens"
	case "http_url":
		return "Invalid URL format"
	case "password":
		return strings.Join(passwordIssues(password), "; ")
	case "at_least_one_field":
		return "at least one non-null field must be provided for update"
	default:
		return fmt.Sprintf("%s is invalid", failure.Field)
	}
}

// passwordIssues returns one message per missing character class.
func passwordIssues(password string) []string {
	var (
		hasLower   bool
		hasUpper   bool
		hasSpecial bool
	)
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case strings.ContainsRune(passwordSpecials, r):
			hasSpecial = true
		}
	}

	var issues []string
	if !hasLower {
		issues = append(issues, "password must contain at least one lowercase letter")
	}
	if !hasUpper {
		issues = append(issues, "password must contain at least one uppercase letter")
	}
	if !hasSpecial {
		issues = append(issues, "password must contain at least one special character")
	}
	return issues
}
