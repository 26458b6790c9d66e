package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAPIKey(t *testing.T) {
	u := &User{}

	rawKey, err := u.IssueAPIKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rawKey, "vlr_"))
	assert.Equal(t, HashAPIKey(rawKey), u.APIKeyHash)
	assert.Len(t, u.APIKeyHash, 64)
	assert.Equal(t, rawKey[:8], u.APIKeyPrefix)
	assert.NotNil(t, u.APIKeyCreatedAt)
	assert.Nil(t, u.APIKeyLastUsedAt)

	// Re-issuing rotates the key.
	secondKey, err := u.IssueAPIKey()
	require.NoError(t, err)
	assert.NotEqual(t, rawKey, secondKey)
	assert.Equal(t, HashAPIKey(secondKey), u.APIKeyHash)
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: ROLE_ADMIN}).IsAdmin())
	assert.False(t, (&User{Role: ROLE_USER}).IsAdmin())
}

func TestSubscriptionCreditsRemaining(t *testing.T) {
	sub := &Subscription{CreditsTotal: 3, CreditsUsed: 1}
	assert.Equal(t, 2, sub.CreditsRemaining())

	sub.CreditsUsed = 5
	assert.Equal(t, 0, sub.CreditsRemaining(), "overdraw must clamp to zero")

	var nilSub *Subscription
	assert.Equal(t, 0, nilSub.CreditsRemaining())
	assert.False(t, nilSub.IsActive())
}
