package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	id := uuid.New()

	token, err := GenerateToken(testSecret, id, "customer", PrincipalUser, time.Hour)
	require.NoError(t, err)

	identity, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, id, identity.ID)
	assert.Equal(t, "customer", identity.Role)
	assert.Equal(t, PrincipalUser, identity.Principal)
}

func TestTokenCarriesPrincipal(t *testing.T) {
	token, err := GenerateToken(testSecret, uuid.New(), "admin", PrincipalAdmin, time.Hour)
	require.NoError(t, err)

	identity, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, PrincipalAdmin, identity.Principal, "admin and customer principal spaces must stay distinct")
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken(testSecret, uuid.New(), "customer", PrincipalUser, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.Error(t, err, "expired token must fail verification")
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := GenerateToken(testSecret, uuid.New(), "customer", PrincipalUser, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err, "token signed with a different secret must fail")
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}
