package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/userhubio/userhub/internal/models"
	apperrors "github.com/userhubio/userhub/pkg/errors"
)

func strPtr(s string) *string { return &s }

func validCreateUser() CreateUser {
	return CreateUser{
		Email:              "test@example.com",
		Password:           "StrongP@ss123",
		Nickname:           strPtr("valid_user"),
		FirstName:          strPtr("Test"),
		LastName:           strPtr("User"),
		Bio:                strPtr("Just testing."),
		ProfilePictureURL:  strPtr("https://example.com/pic.jpg"),
		LinkedinProfileURL: strPtr("https://linkedin.com/in/testuser"),
		GithubProfileURL:   strPtr("https://github.com/testuser"),
	}
}

func TestCreateUserValid(t *testing.T) {
	require.NoError(t, validCreateUser().Validate())
}

func TestCreateUserInvalidEmail(t *testing.T) {
	payload := validCreateUser()
	payload.Email = "invalid-email"

	err := payload.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, apperrors.ErrValidation))
	require.Contains(t, err.Error(), "valid email address")
}

func TestNicknameValid(t *testing.T) {
	for _, nickname := range []string{"valid_user", "user123", "u_nder-score"} {
		payload := validCreateUser()
		payload.Nickname = strPtr(nickname)
		require.NoError(t, payload.Validate(), "nickname %q", nickname)
	}
}

func TestNicknameInvalid(t *testing.T) {
	for _, nickname := range []string{"invalid user", "no$", "", "12"} {
		payload := validCreateUser()
		payload.Nickname = strPtr(nickname)
		require.Error(t, payload.Validate(), "nickname %q", nickname)
	}
}

func TestNicknameOmitted(t *testing.T) {
	payload := validCreateUser()
	payload.Nickname = nil
	require.NoError(t, payload.Validate())
}

func TestURLValid(t *testing.T) {
	for _, url := range []string{"http://valid.com", "https://site.org"} {
		payload := validCreateUser()
		payload.ProfilePictureURL = strPtr(url)
		require.NoError(t, payload.Validate(), "url %q", url)
	}

	payload := validCreateUser()
	payload.ProfilePictureURL = nil
	require.NoError(t, payload.Validate())
}

func TestURLInvalid(t *testing.T) {
	for _, url := range []string{"ftp://bad.com", "https//missingcolon.com", "invalid"} {
		payload := validCreateUser()
		payload.ProfilePictureURL = strPtr(url)

		err := payload.Validate()
		require.Error(t, err, "url %q", url)
		require.Contains(t, err.Error(), "Invalid URL format")
	}
}

func TestPasswordComplexity(t *testing.T) {
	cases := []struct {
		name     string
		password string
		message  string
	}{
		{"missing lowercase", "PASSWORD123!", "lowercase letter"},
		{"missing uppercase", "password123!", "uppercase letter"},
		{"missing special", "Weak1", "special character"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload := validCreateUser()
			payload.Password = tc.password

			err := payload.Validate()
			require.Error(t, err)
			require.True(t, errors.Is(err, apperrors.ErrValidation))
			require.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestPasswordRequired(t *testing.T) {
	payload := validCreateUser()
	payload.Password = ""

	err := payload.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "password is required")
}

func TestUpdateUserRequiresOneField(t *testing.T) {
	err := UpdateUser{}.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, apperrors.ErrValidation))
	require.Contains(t, err.Error(), "at least one non-null field")
}

func TestUpdateUserSingleFieldSucceeds(t *testing.T) {
	require.NoError(t, UpdateUser{Bio: strPtr("Updated bio")}.Validate())
}

func TestUpdateUserRejectsMalformedEmail(t *testing.T) {
	err := UpdateUser{Email: strPtr("invalidemail")}.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "valid email address")
}

func TestLoginRequestValidation(t *testing.T) {
	require.NoError(t, LoginRequest{Email: "user@example.com", Password: "123456"}.Validate())

	err := LoginRequest{}.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "email is required")
	require.Contains(t, err.Error(), "password is required")
}

func TestNewUserResponseDefaults(t *testing.T) {
	user := &models.User{
		ID:       "id-1",
		Email:    "resp@example.com",
		Nickname: "responder",
	}

	resp := NewUserResponse(user)
	require.Equal(t, models.RoleAuthenticated, resp.Role)
	require.False(t, resp.IsProfessional)
	require.Equal(t, "resp@example.com", resp.Email)
}

func TestNewUserListResponse(t *testing.T) {
	users := []models.User{
		{ID: "a", Email: "a@example.com", Nickname: "user-a", Role: models.RoleAuthenticated},
		{ID: "b", Email: "b@example.com", Nickname: "user-b", Role: models.RoleManager},
	}

	envelope := NewUserListResponse(users, 42, 2, 10)
	require.Len(t, envelope.Items, 2)
	require.EqualValues(t, 42, envelope.Total)
	require.Equal(t, 2, envelope.Page)
	require.Equal(t, 10, envelope.Size)
	require.Equal(t, models.RoleManager, envelope.Items[1].Role)
}
