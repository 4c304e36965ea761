package admin

import (
	"strings"
	"testing"
	"time"

	"reporteventas-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewCredential(t *testing.T) {
	keyID, secret, hash, err := newCredential()
	require.NoError(t, err)

	_, err = uuid.Parse(keyID)
	assert.NoError(t, err)
	assert.Len(t, secret, secretBytes*2)
	assert.False(t, strings.Contains(secret, "."))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)))

	otherID, otherSecret, _, err := newCredential()
	require.NoError(t, err)
	assert.NotEqual(t, keyID, otherID)
	assert.NotEqual(t, secret, otherSecret)
}

func TestNewAPIKeyResponse(t *testing.T) {
	used := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	resp := newAPIKeyResponse(models.APIKey{ID: 1, KeyID: "k", Name: "Auditor", Active: true, LastUsedAt: &used, SecretHash: "x"})
	require.NotNil(t, resp.LastUsedAt)
	assert.Equal(t, "2024-05-01T08:00:00Z", *resp.LastUsedAt)

	resp = newAPIKeyResponse(models.APIKey{ID: 2})
	assert.Nil(t, resp.LastUsedAt)
}
