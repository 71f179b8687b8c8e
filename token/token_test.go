package token

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dariomolina/intranet-auth/apperr"
	"github.com/dariomolina/intranet-auth/models"
)

const testSecret = "test_secret_key"

func testUser() *models.User {
	roleID := uint(3)
	return &models.User{
		ID:     7,
		Email:  "luis@example.com",
		RoleID: &roleID,
		Role: &models.Role{
			ID:   roleID,
			Name: "supervisor",
			Permissions: []models.Permission{
				{Name: "users:view", Module: "users", Action: "view"},
				{Name: "tickets:manage", Module: "tickets", Action: "manage"},
			},
		},
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour, 24*time.Hour)

	signed, err := issuer.Issue(testUser())
	require.NoError(t, err)

	snap, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.EqualValues(t, 7, snap.UserID)
	assert.Equal(t, "luis@example.com", snap.Email)
	assert.Equal(t, "supervisor", snap.Role)
	assert.Equal(t, []string{"users:view", "tickets:manage"}, snap.Permissions)
}

func TestIssueRolelessUser(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour, 24*time.Hour)

	signed, err := issuer.Issue(&models.User{ID: 9, Email: "nobody@example.com"})
	require.NoError(t, err)

	snap, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "", snap.Role)
	assert.Empty(t, snap.Permissions)
	assert.NotNil(t, snap.Permissions)
}

func TestVerifyDefaultsMissingPermissions(t *testing.T) {
	// Tokens minted before the permissions claim existed.
	claims := jwt.MapClaims{
		"sub":   float64(4),
		"email": "old@example.com",
		"role":  "empleado",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	issuer := NewIssuer(testSecret, time.Hour, 24*time.Hour)
	snap, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.EqualValues(t, 4, snap.UserID)
	assert.Equal(t, "empleado", snap.Role)
	assert.Equal(t, []string{}, snap.Permissions)
}

func TestVerifyExpiredToken(t *testing.T) {
	issuer := NewIssuer(testSecret, -time.Minute, 24*time.Hour)

	signed, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = issuer.Verify(signed)
	assert.True(t, apperr.IsStatus(err, http.StatusUnauthorized))
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour, 24*time.Hour)
	signed, err := issuer.Issue(testUser())
	require.NoError(t, err)

	other := NewIssuer("different_secret", time.Hour, 24*time.Hour)
	_, err = other.Verify(signed)
	assert.True(t, apperr.IsStatus(err, http.StatusUnauthorized))
}

func TestVerifyGarbage(t *testing.T) {
	issuer := NewIssuer(testSecret, time.Hour, 24*time.Hour)

	_, err := issuer.Verify("not.a.token")
	assert.True(t, apperr.IsStatus(err, http.StatusUnauthorized))
}

func TestSubjectIDShapes(t *testing.T) {
	for _, sub := range []interface{}{float64(12), "12", uint(12), int(12)} {
		id, err := subjectID(jwt.MapClaims{"sub": sub})
		require.NoError(t, err)
		assert.EqualValues(t, 12, id)
	}

	_, err := subjectID(jwt.MapClaims{"sub": true})
	assert.Error(t, err)
	_, err = subjectID(jwt.MapClaims{})
	assert.Error(t, err)
}
