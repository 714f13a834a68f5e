package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAPIKey(t *testing.T) {
	us := &UserSettings{UserID: 7}
	assert.False(t, us.HasActiveAPIKey())

	raw, err := us.IssueAPIKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(raw, "ryv_"))
	assert.True(t, us.HasActiveAPIKey())
	assert.Equal(t, HashAPIKey(raw), us.APIKeyHash)
	assert.Equal(t, raw[:16], us.APIKeyPrefix)
	assert.NotNil(t, us.APIKeyCreatedAt)
	assert.Nil(t, us.APIKeyRevokedAt)
	assert.NotContains(t, us.APIKeyHash, raw, "raw secret must never be stored")
}

func TestRevokeAPIKey(t *testing.T) {
	us := &UserSettings{UserID: 7}
	_, err := us.IssueAPIKey()
	require.NoError(t, err)

	us.RevokeAPIKey()

	assert.False(t, us.HasActiveAPIKey())
	assert.Empty(t, us.APIKeyHash)
	assert.Empty(t, us.APIKeyPrefix)
	assert.NotNil(t, us.APIKeyRevokedAt)
}

func TestHashAPIKeyTrimsWhitespace(t *testing.T) {
	assert.Equal(t, HashAPIKey("ryv_abc"), HashAPIKey("  ryv_abc \n"))
}

func TestIssueAPIKeyRotates(t *testing.T) {
	us := &UserSettings{UserID: 7}
	first, err := us.IssueAPIKey()
	require.NoError(t, err)
	second, err := us.IssueAPIKey()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, HashAPIKey(second), us.APIKeyHash)
}
