package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/anurag-chiplunkar/chatline/internal/database"
	ws "github.com/anurag-chiplunkar/chatline/internal/websocket"
	"github.com/anurag-chiplunkar/chatline/pkg/auth"
)

// WebSocketHandler поднимает соединения комнат и личных каналов.
// Токен проверяется уже после апгрейда, чтобы неаутентифицированное
// соединение получило кадр ERROR_OCCURRED и закрытие кодом 4001,
// а не голый HTTP 401.
type WebSocketHandler struct {
	db         *database.Database
	hub        *ws.Hub
	jwtManager *auth.JWTManager
	redis      *redis.Client
	upgrader   websocket.Upgrader
}

func NewWebSocketHandler(db *database.Database, hub *ws.Hub, jwtMgr *auth.JWTManager, rdb *redis.Client) *WebSocketHandler {
	return &WebSocketHandler{
		db:         db,
		hub:        hub,
		jwtManager: jwtMgr,
		redis:      rdb,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: проверять origin в prod
				return true
			},
		},
	}
}

// authenticate достает токен из query или заголовка, проверяет черный
// список в Redis и подпись. Возвращает claims либо (nil, false).
func (h *WebSocketHandler) authenticate(c *gin.Context) (*auth.Claims, bool) {
	token := c.Query("token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			token = parts[1]
		}
	}
	if token == "" {
		return nil, false
	}

	exists, err := h.redis.Exists(context.Background(), "blacklist:"+token).Result()
	if err != nil || exists > 0 {
		return nil, false
	}

	claims, err := h.jwtManager.Verify(token)
	if err != nil {
		return nil, false
	}

	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, false
	}

	return claims, true
}

// HandleRoomSocket — соединение с комнатой диалога: /ws/chat/:session_id
func (h *WebSocketHandler) HandleRoomSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	claims, ok := h.authenticate(c)
	if !ok {
		// Кадр с ошибкой должен быть виден до закрытия.
		client := ws.NewClient(h.hub, conn, uuid.Nil, "", false)
		client.Reject(&ws.Frame{
			MsgType:      ws.TypeErrorOccurred,
			ErrorMessage: ws.ErrCodeUnauthenticated,
		})
		return
	}

	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		conn.Close()
		return
	}

	session, err := h.db.GetSession(sessionID)
	if err != nil {
		conn.Close()
		return
	}

	userID, _ := uuid.Parse(claims.Subject)
	client := ws.NewClient(h.hub, conn, userID, claims.Username, true)

	h.hub.Register(client)
	h.hub.Join(ws.RoomGroup(session.ID.String()), client)

	handler := NewRoomChannel(h.db, h.hub, session)

	go client.WritePump()
	go client.ReadPump(handler)
}

// HandlePersonalSocket — личный канал пользователя: /ws/personal/:user_id
func (h *WebSocketHandler) HandlePersonalSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	claims, ok := h.authenticate(c)
	if !ok {
		client := ws.NewClient(h.hub, conn, uuid.Nil, "", false)
		client.Reject(nil)
		return
	}

	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		conn.Close()
		return
	}

	userID, _ := uuid.Parse(claims.Subject)
	client := ws.NewClient(h.hub, conn, userID, claims.Username, true)

	h.hub.Register(client)
	h.hub.Join(ws.PersonalGroup(targetID.String()), client)

	handler := NewPersonalChannel(h.db, h.hub)

	go client.WritePump()
	go client.ReadPump(handler)
}
