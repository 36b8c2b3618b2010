package middleware

import (
	"testing"
	"time"

	"github.com/Taylan474/winter-service-manager-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	user := &models.User{ID: 7, Username: "mmuster", Role: models.RoleWorker}
	token, err := GenerateToken(user, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "mmuster", claims.Username)
	assert.Equal(t, models.RoleWorker, claims.Role)
}

func TestValidateToken_RejectsWrongSecret(t *testing.T) {
	SetJWTSecret("secret-one")
	user := &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}
	token, err := GenerateToken(user, time.Hour)
	require.NoError(t, err)

	SetJWTSecret("secret-two")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_RejectsExpired(t *testing.T) {
	SetJWTSecret("test-secret")
	user := &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin}
	token, err := GenerateToken(user, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_RejectsGarbage(t *testing.T) {
	SetJWTSecret("test-secret")
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}
