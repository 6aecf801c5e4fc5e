package handlers

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anurag-chiplunkar/chatline/internal/database"
	"github.com/anurag-chiplunkar/chatline/internal/models"
	ws "github.com/anurag-chiplunkar/chatline/internal/websocket"
)

// Тестовое окружение канальных обработчиков: in-memory sqlite, живой хаб
// и клиенты без сетевого соединения (пампы не запускаются, кадры
// снимаются прямо с канала Send).

func newChatDB(t *testing.T) *database.Database {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return database.NewDatabase(db)
}

func addUser(t *testing.T, db *database.Database, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "test-hash",
	}
	require.NoError(t, db.SaveUser(user))
	return user
}

func joinGroup(t *testing.T, hub *ws.Hub, group string, user *models.User) *ws.Client {
	t.Helper()

	client := ws.NewClient(hub, nil, user.ID, user.Username, true)
	hub.Register(client)
	hub.Join(group, client)
	return client
}

func recvFrame(t *testing.T, client *ws.Client) ws.Frame {
	t.Helper()

	select {
	case data := <-client.Send:
		var frame ws.Frame
		require.NoError(t, json.Unmarshal(data, &frame))
		return frame
	default:
		t.Fatal("no frame in send queue")
		return ws.Frame{}
	}
}

func requireNoFrames(t *testing.T, client *ws.Client) {
	t.Helper()
	require.Empty(t, client.Send)
}
