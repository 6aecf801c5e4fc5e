package database

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anurag-chiplunkar/chatline/internal/models"
)

func TestCreateSessionIfAbsentIdempotent(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	first, err := db.CreateSessionIfAbsent(alice.ID, bob.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	// Повтор в обратном порядке аргументов возвращает тот же диалог.
	second, err := db.CreateSessionIfAbsent(bob.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.db.Model(&models.ChatSession{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateSessionIfAbsentCanonicalOrder(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	session, err := db.CreateSessionIfAbsent(alice.ID, bob.ID)
	require.NoError(t, err)

	a, b := models.NormalizePair(alice.ID, bob.ID)
	assert.Equal(t, a, session.UserAID)
	assert.Equal(t, b, session.UserBID)
	assert.True(t, session.HasParticipant(alice.ID))
	assert.True(t, session.HasParticipant(bob.ID))
	assert.Equal(t, bob.ID, session.Peer(alice.ID))
	assert.Equal(t, alice.ID, session.Peer(bob.ID))
}

func TestCreateSessionIfAbsentSameUser(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")

	session, err := db.CreateSessionIfAbsent(alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSameUserSession)
	assert.Nil(t, session)
}

func TestFindSessionNotFound(t *testing.T) {
	db := newTestDB(t)

	session, err := db.FindSession(uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestGetUserSessionsFreshFirst(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	withBob, err := db.CreateSessionIfAbsent(alice.ID, bob.ID)
	require.NoError(t, err)
	withCarol, err := db.CreateSessionIfAbsent(alice.ID, carol.ID)
	require.NoError(t, err)

	// Сообщение трогает updated_at, диалог с Бобом поднимается наверх.
	_, err = db.AppendMessage(uuid.New(), withBob.ID, alice.ID, "hi")
	require.NoError(t, err)

	sessions, err := db.GetUserSessions(alice.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, withBob.ID, sessions[0].ID)
	assert.Equal(t, withCarol.ID, sessions[1].ID)
}

func TestFriendIDsOf(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	createUser(t, db, "carol")

	_, err := db.CreateSessionIfAbsent(alice.ID, bob.ID)
	require.NoError(t, err)

	friends, err := db.FriendIDsOf(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{bob.ID}, friends)
}

func TestListContactsExcludesFriendsAndSelf(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	carol := createUser(t, db, "carol")

	_, err := db.CreateSessionIfAbsent(alice.ID, bob.ID)
	require.NoError(t, err)

	contacts, err := db.ListContacts(alice.ID)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, carol.ID, contacts[0].ID)
}
