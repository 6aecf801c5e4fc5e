package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anurag-chiplunkar/chatline/internal/models"
)

func TestIsOnlineWithoutRecord(t *testing.T) {
	db := newTestDB(t)

	online, err := db.IsOnline(uuid.New())
	require.NoError(t, err)
	assert.False(t, online)
}

func TestSetPresenceUpsert(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")

	require.NoError(t, db.SetPresence(alice.ID, true))
	online, err := db.IsOnline(alice.ID)
	require.NoError(t, err)
	assert.True(t, online)

	require.NoError(t, db.SetPresence(alice.ID, false))
	online, err = db.IsOnline(alice.ID)
	require.NoError(t, err)
	assert.False(t, online)

	// Повторные записи не плодят строк.
	var count int64
	require.NoError(t, db.db.Model(&models.Presence{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
