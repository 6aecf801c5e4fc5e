package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ws "github.com/anurag-chiplunkar/chatline/internal/websocket"
	"github.com/anurag-chiplunkar/chatline/pkg/auth"
)

func newWSServer(t *testing.T) *httptest.Server {
	t.Helper()

	gin.SetMode(gin.TestMode)
	db := newChatDB(t)
	hub := ws.NewHub()
	jwtMgr := auth.NewJWTManager("test-secret", time.Hour)
	// Без токена запрос до Redis не доходит.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})

	handler := NewWebSocketHandler(db, hub, jwtMgr, rdb)

	router := gin.New()
	router.GET("/ws/chat/:session_id", handler.HandleRoomSocket)
	router.GET("/ws/personal/:user_id", handler.HandlePersonalSocket)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, path string) string {
	return strings.Replace(srv.URL, "http", "ws", 1) + path
}

func TestRoomSocketUnauthenticated(t *testing.T) {
	srv := newWSServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/chat/any"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Сначала кадр с ошибкой, затем закрытие кодом 4001.
	var frame ws.Frame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, ws.TypeErrorOccurred, frame.MsgType)
	assert.Equal(t, ws.ErrCodeUnauthenticated, frame.ErrorMessage)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, ws.CloseUnauthenticated), "expected close %d, got %v",
		ws.CloseUnauthenticated, err)
}

func TestPersonalSocketUnauthenticated(t *testing.T) {
	srv := newWSServer(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/personal/any"), nil)
	require.NoError(t, err)
	defer conn.Close()

	// Личный канал закрывается без кадра ошибки.
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, ws.CloseUnauthenticated), "expected close %d, got %v",
		ws.CloseUnauthenticated, err)
}
