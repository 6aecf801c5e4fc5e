package database

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anurag-chiplunkar/chatline/internal/models"
)

// newTestDB поднимает схему на отдельной in-memory sqlite базе.
// Имя базы уникально на тест, чтобы схема не протекала между тестами.
func newTestDB(t *testing.T) *Database {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	return NewDatabase(db)
}

func createUser(t *testing.T, d *Database, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "test-hash",
	}
	require.NoError(t, d.SaveUser(user))
	return user
}
