package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/userhubio/userhub/internal/models"
	"github.com/userhubio/userhub/internal/schemas"
	"github.com/userhubio/userhub/pkg/crypto"
	apperrors "github.com/userhubio/userhub/pkg/errors"
	"github.com/userhubio/userhub/pkg/mail"
	"github.com/userhubio/userhub/pkg/metrics"
)

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	// ErrDuplicateUser signals an email or nickname uniqueness conflict.
	ErrDuplicateUser = apperrors.New("USER_DUPLICATE", "Email or nickname already in use", http.StatusConflict)
	// ErrVerificationMismatch is returned when the supplied token does not match the stored one.
	ErrVerificationMismatch = apperrors.New("VERIFICATION_MISMATCH", "Verification token does not match", http.StatusBadRequest)
)

const (
	defaultMaxLoginAttempts = 5
	verificationTokenBytes  = 32
	defaultListPageSize     = 50
	maxListPageSize         = 200
)

// UserServiceConfig carries the tunables for the account lifecycle.
type UserServiceConfig struct {
	// MaxLoginAttempts is the lockout threshold: the account locks once the
	// failed-attempt counter reaches this value.
	MaxLoginAttempts int
	// VerificationBaseURL is prepended to verification links in emails.
	VerificationBaseURL string
}

// UserService manages the account lifecycle: registration, authentication
// with lockout, email verification, password reset, and CRUD.
type UserService struct {
	db        *gorm.DB
	outbox    *OutboxService
	audit     *AuditService
	threshold int
	baseURL   string
}

// NewUserService constructs a UserService instance.
func NewUserService(db *gorm.DB, outbox *OutboxService, audit *AuditService, cfg UserServiceConfig) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}

	threshold := cfg.MaxLoginAttempts
	if threshold <= 0 {
		threshold = defaultMaxLoginAttempts
	}

	return &UserService{
		db:        db,
		outbox:    outbox,
		audit:     audit,
		threshold: threshold,
		baseURL:   strings.TrimSpace(cfg.VerificationBaseURL),
	}, nil
}

// Create validates the input, provisions an unverified account with a hashed
// password, and enqueues the verification email in the same transaction.
func (s *UserService) Create(ctx context.Context, input schemas.CreateUser) (*models.User, error) {
	ctx = ensureContext(ctx)

	if err := input.Validate(); err != nil {
		metrics.Registrations.WithLabelValues("invalid").Inc()
		return nil, err
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user service: hash password: %w", err)
	}

	token, err := crypto.GenerateToken(verificationTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("user service: generate verification token: %w", err)
	}

	nickname, err := resolveNickname(input.Nickname)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:              strings.ToLower(strings.TrimSpace(input.Email)),
		Nickname:           nickname,
		Password:           hashed,
		FirstName:          deref(input.FirstName),
		LastName:           deref(input.LastName),
		Bio:                deref(input.Bio),
		ProfilePictureURL:  deref(input.ProfilePictureURL),
		LinkedinProfileURL: deref(input.LinkedinProfileURL),
		GithubProfileURL:   deref(input.GithubProfileURL),
		Role:               models.RoleAuthenticated,
		VerificationToken:  token,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		if s.outbox == nil {
			return nil
		}

		link := mail.VerificationLink(s.baseURL, user.ID, token)
		message := mail.VerificationMessage(user.Email, user.FullName(), link)

		return s.outbox.Enqueue(tx, &models.EmailOutbox{
			UserID:    user.ID,
			Recipient: user.Email,
			Subject:   message.Subject,
			Body:      message.Body,
		})
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			metrics.Registrations.WithLabelValues("conflict").Inc()
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("user service: create user: %w", err)
	}

	metrics.Registrations.WithLabelValues("success").Inc()
	recordAudit(s.audit, ctx, AuditEntry{
		UserID:   &user.ID,
		Action:   "user.create",
		Resource: user.ID,
		Result:   "success",
		Metadata: map[string]any{
			"email":    user.Email,
			"nickname": user.Nickname,
		},
	})

	return user, nil
}

// Register provisions a new account. It shares the Create contract and exists
// for callers that speak in registration terms.
func (s *UserService) Register(ctx context.Context, input schemas.CreateUser) (*models.User, error) {
	return s.Create(ctx, input)
}

// GetByID loads a user by identifier.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getBy(ctx, "id = ?", strings.TrimSpace(id))
}

// GetByNickname loads a user by nickname.
func (s *UserService) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	return s.getBy(ctx, "nickname = ?", strings.TrimSpace(nickname))
}

// GetByEmail loads a user by email, matching case-insensitively.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getBy(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (s *UserService) getBy(ctx context.Context, query string, value string) (*models.User, error) {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).Take(&user, query, value).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: get user: %w", err)
	}
	return &user, nil
}

// Update persists the supplied non-nil attributes for an existing user.
func (s *UserService) Update(ctx context.Context, id string, input schemas.UpdateUser) (*models.User, error) {
	ctx = ensureContext(ctx)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Take(&user, "id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}

	updates := map[string]any{}
	if input.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Nickname != nil {
		updates["nickname"] = strings.TrimSpace(*input.Nickname)
	}
	if input.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.ProfilePictureURL != nil {
		updates["profile_picture_url"] = strings.TrimSpace(*input.ProfilePictureURL)
	}
	if input.LinkedinProfileURL != nil {
		updates["linkedin_profile_url"] = strings.TrimSpace(*input.LinkedinProfileURL)
	}
	if input.GithubProfileURL != nil {
		updates["github_profile_url"] = strings.TrimSpace(*input.GithubProfileURL)
	}

	if err := s.db.WithContext(ctx).Model(&user).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrDuplicateUser
		}
		return nil, fmt.Errorf("user service: update user: %w", err)
	}

	if err := s.db.WithContext(ctx).Take(&user, "id = ?", user.ID).Error; err != nil {
		return nil, fmt.Errorf("user service: reload user: %w", err)
	}

	recordAudit(s.audit, ctx, AuditEntry{
		UserID:   &user.ID,
		Action:   "user.update",
		Resource: user.ID,
		Result:   "success",
		Metadata: map[string]any{"fields": updatedFields(updates)},
	})

	return &user, nil
}

// Delete permanently removes a user record.
func (s *UserService) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", strings.TrimSpace(id))
	if result.Error != nil {
		return fmt.Errorf("user service: delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	recordAudit(s.audit, ctx, AuditEntry{
		Action:   "user.delete",
		Resource: strings.TrimSpace(id),
		Result:   "success",
	})

	return nil
}

// List returns users ordered deterministically by creation time (id as a
// tiebreak) so consecutive pages never overlap.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]models.User, int64, error) {
	ctx = ensureContext(ctx)

	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > maxListPageSize {
		limit = defaultListPageSize
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("user service: count users: %w", err)
	}

	var users []models.User
	if err := s.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Offset(skip).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("user service: list users: %w", err)
	}

	return users, total, nil
}

// Login verifies credentials against the lockout state machine. A locked
// account rejects every attempt, including correct passwords, until it is
// explicitly unlocked. A successful login resets the failed-attempt counter.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(email) == "" || password == "" {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).Take(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("user service: query user: %w", err)
	}

	if user.IsLocked {
		metrics.LoginAttempts.WithLabelValues("locked").Inc()
		recordAudit(s.audit, ctx, AuditEntry{
			UserID:   &user.ID,
			Action:   "user.login",
			Resource: user.ID,
			Result:   "locked",
		})
		return nil, apperrors.ErrAccountLocked
	}

	if !crypto.VerifyPassword(user.Password, password) {
		return nil, s.recordFailedLogin(ctx, &user)
	}

	if err := s.db.WithContext(ctx).Model(&user).
		Update("failed_login_attempts", 0).Error; err != nil {
		return nil, fmt.Errorf("user service: reset failed attempts: %w", err)
	}
	user.FailedLoginAttempts = 0

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	recordAudit(s.audit, ctx, AuditEntry{
		UserID:   &user.ID,
		Action:   "user.login",
		Resource: user.ID,
		Result:   "success",
	})

	return &user, nil
}

// recordFailedLogin increments the failed-attempt counter atomically and
// locks the account once the counter reaches the threshold.
func (s *UserService) recordFailedLogin(ctx context.Context, user *models.User) error {
	var locked bool

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ?", user.ID).
			UpdateColumn("failed_login_attempts", gorm.Expr("failed_login_attempts + ?", 1)).Error; err != nil {
			return fmt.Errorf("increment failed attempts: %w", err)
		}

		var fresh models.User
		if err := tx.Select("failed_login_attempts", "is_locked").
			Take(&fresh, "id = ?", user.ID).Error; err != nil {
			return fmt.Errorf("reload attempt counter: %w", err)
		}

		if fresh.FailedLoginAttempts >= s.threshold && !fresh.IsLocked {
			if err := tx.Model(&models.User{}).
				Where("id = ?", user.ID).
				Update("is_locked", true).Error; err != nil {
				return fmt.Errorf("lock account: %w", err)
			}
			locked = true
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("user service: record failed login: %w", err)
	}

	if locked {
		metrics.AccountLockouts.Inc()
		metrics.LoginAttempts.WithLabelValues("locked").Inc()
		recordAudit(s.audit, ctx, AuditEntry{
			UserID:   &user.ID,
			Action:   "user.locked",
			Resource: user.ID,
			Result:   "success",
			Metadata: map[string]any{"threshold": s.threshold},
		})
		return apperrors.ErrAccountLocked
	}

	metrics.LoginAttempts.WithLabelValues("failure").Inc()
	recordAudit(s.audit, ctx, AuditEntry{
		UserID:   &user.ID,
		Action:   "user.login",
		Resource: user.ID,
		Result:   "failure",
	})
	return apperrors.ErrInvalidCredentials
}

// IsAccountLocked reports the current lock state for the given email.
func (s *UserService) IsAccountLocked(ctx context.Context, email string) (bool, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return user.IsLocked, nil
}

// ResetPassword rehashes and stores a new password for the user. The lockout
// state is deliberately untouched; unlocking is a separate operation.
func (s *UserService) ResetPassword(ctx context.Context, id, newPassword string) error {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(newPassword) == "" {
		return apperrors.NewValidation("new password is required")
	}

	hashed, err := crypto.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("user service: hash new password: %w", err)
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", strings.TrimSpace(id)).
		Update("password", hashed)
	if result.Error != nil {
		return fmt.Errorf("user service: reset password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	recordAudit(s.audit, ctx, AuditEntry{
		Action:   "user.password_reset",
		Resource: strings.TrimSpace(id),
		Result:   "success",
	})

	return nil
}

// VerifyEmail marks the account verified when the supplied token matches the
// stored verification token. A mismatch mutates nothing.
func (s *UserService) VerifyEmail(ctx context.Context, id, token string) error {
	ctx = ensureContext(ctx)

	var user models.User
	err := s.db.WithContext(ctx).Take(&user, "id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("user service: load user: %w", err)
	}

	token = strings.TrimSpace(token)
	if token == "" || token != user.VerificationToken {
		return ErrVerificationMismatch
	}

	if err := s.db.WithContext(ctx).Model(&user).
		Update("is_verified", true).Error; err != nil {
		return fmt.Errorf("user service: mark verified: %w", err)
	}

	recordAudit(s.audit, ctx, AuditEntry{
		UserID:   &user.ID,
		Action:   "user.verified",
		Resource: user.ID,
		Result:   "success",
	})

	return nil
}

// UnlockAccount clears the failed-attempt counter and the lock flag.
func (s *UserService) UnlockAccount(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", strings.TrimSpace(id)).
		Updates(map[string]any{
			"failed_login_attempts": 0,
			"is_locked":             false,
		})
	if result.Error != nil {
		return fmt.Errorf("user service: unlock account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	recordAudit(s.audit, ctx, AuditEntry{
		Action:   "user.unlocked",
		Resource: strings.TrimSpace(id),
		Result:   "success",
	})

	return nil
}

// resolveNickname returns the supplied nickname or generates a random one.
func resolveNickname(nickname *string) (string, error) {
	if nickname != nil {
		return strings.TrimSpace(*nickname), nil
	}

	suffix, err := crypto.GenerateToken(6)
	if err != nil {
		return "", fmt.Errorf("user service: generate nickname: %w", err)
	}
	return "user-" + strings.ToLower(suffix), nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}

func updatedFields(updates map[string]any) []string {
	fields := make([]string, 0, len(updates))
	for field := range updates {
		fields = append(fields, field)
	}
	return fields
}
