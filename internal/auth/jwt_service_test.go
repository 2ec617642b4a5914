package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/userhubio/userhub/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    "11111111-2222-3333-4444-555555555555",
		Email: "claims@example.com",
		Role:  models.RoleManager,
	}
}

func TestJWTServiceRoundTrip(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{
		Secret: "test-secret",
		Issuer: "userhub",
	})
	require.NoError(t, err)

	user := testUser()

	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.Email, claims.Email)
	require.Equal(t, models.RoleManager, claims.Role)
	require.Equal(t, "userhub", claims.Issuer)
	require.Equal(t, user.ID, claims.Subject)
}

func TestJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.Error(t, err)
}

func TestJWTServiceRequiresUser(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "s"})
	require.NoError(t, err)

	_, err = svc.GenerateAccessToken(nil)
	require.Error(t, err)

	_, err = svc.GenerateAccessToken(&models.User{})
	require.Error(t, err)
}

func TestJWTServiceDefaultsInvalidRole(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "s"})
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(&models.User{ID: "u-1", Role: "NOT_A_ROLE"})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, models.RoleAuthenticated, claims.Role)
}

func TestJWTServiceExpiry(t *testing.T) {
	current := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	svc, err := NewJWTService(JWTConfig{
		Secret:         "test-secret",
		AccessTokenTTL: time.Minute,
		Clock:          func() time.Time { return current },
	})
	require.NoError(t, err)

	token, err := svc.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(token)
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)

	_, err = svc.ValidateAccessToken(token)
	require.Error(t, err)
}

func TestJWTServiceRejectsWrongIssuer(t *testing.T) {
	issuerA, err := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "a"})
	require.NoError(t, err)
	issuerB, err := NewJWTService(JWTConfig{Secret: "test-secret", Issuer: "b"})
	require.NoError(t, err)

	token, err := issuerA.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = issuerB.ValidateAccessToken(token)
	require.Error(t, err)
}

func TestJWTServiceRejectsTamperedSecret(t *testing.T) {
	signer, err := NewJWTService(JWTConfig{Secret: "secret-one"})
	require.NoError(t, err)
	verifier, err := NewJWTService(JWTConfig{Secret: "secret-two"})
	require.NoError(t, err)

	token, err := signer.GenerateAccessToken(testUser())
	require.NoError(t, err)

	_, err = verifier.ValidateAccessToken(token)
	require.Error(t, err)
}
