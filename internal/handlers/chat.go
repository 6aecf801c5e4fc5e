package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/anurag-chiplunkar/chatline/internal/database"
	"github.com/anurag-chiplunkar/chatline/internal/handlers/dto"
	"github.com/anurag-chiplunkar/chatline/internal/middleware"
	ws "github.com/anurag-chiplunkar/chatline/internal/websocket"
)

type ChatHandler struct {
	db *database.Database
}

func NewChatHandler(db *database.Database) *ChatHandler {
	return &ChatHandler{db: db}
}

// CreateChat создает диалог с выбранным пользователем. Идемпотентен:
// повторный запрос возвращает уже существующий диалог.
func (h *ChatHandler) CreateChat(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	session, err := h.db.CreateSessionIfAbsent(userID, targetID)
	if err != nil {
		if errors.Is(err, database.ErrSameUserSession) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot create chat with yourself"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create chat"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        session.ID,
		"room_name": ws.RoomGroup(session.ID.String()),
	})
}

// ListChats — список диалогов: собеседник, счетчик непрочитанных,
// онлайн-статус. Свежие диалоги сверху.
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	sessions, err := h.db.GetUserSessions(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get chats"})
		return
	}

	chats := make([]dto.ChatResponse, 0, len(sessions))
	for _, session := range sessions {
		peer := session.UserA
		if peer.ID == userID {
			peer = session.UserB
		}

		unread, err := h.db.CountUnreadInSession(session.ID, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count unread"})
			return
		}

		online, err := h.db.IsOnline(peer.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get presence"})
			return
		}

		chats = append(chats, dto.ChatResponse{
			ID:          session.ID,
			UserName:    peer.Username,
			UserID:      peer.ID,
			RoomName:    ws.RoomGroup(session.ID.String()),
			UnreadCount: unread,
			IsOnline:    online,
			UpdatedAt:   session.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, chats)
}

// GetChatMessages — история диалога, только для его участников.
func (h *ChatHandler) GetChatMessages(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	session, err := h.db.GetSession(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "chat not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get chat"})
		return
	}

	if !session.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a chat participant"})
		return
	}

	messages, err := h.db.ListMessages(sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get messages"})
		return
	}

	responses := make([]dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		// Скрытые для этой стороны сообщения в выдачу не попадают.
		if m.SenderID == userID && m.SenderCleared {
			continue
		}
		if m.SenderID != userID && m.ReceiverCleared {
			continue
		}

		responses = append(responses, dto.MessageResponse{
			ID:        m.ID,
			SessionID: m.SessionID,
			Sender:    m.Sender.Username,
			Body:      m.Body,
			ReadBy:    m.ReadBy,
			CreatedAt: m.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, responses)
}

// ListContacts — пользователи, с которыми еще нет диалога.
func (h *ChatHandler) ListContacts(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	users, err := h.db.ListContacts(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get contacts"})
		return
	}

	contacts := make([]dto.ContactResponse, 0, len(users))
	for _, u := range users {
		contacts = append(contacts, dto.ContactResponse{ID: u.ID, Username: u.Username})
	}

	c.JSON(http.StatusOK, contacts)
}

// GetUnread — общий счетчик непрочитанных по всем диалогам.
func (h *ChatHandler) GetUnread(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	count, err := h.db.CountUnreadForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count unread"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"overall_unread_msg": count})
}

// ClearMessage скрывает сообщение у одной из сторон, без физического удаления.
func (h *ChatHandler) ClearMessage(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	messageID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}

	var req dto.ClearMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.db.GetMessage(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get message"})
		return
	}

	session, err := h.db.GetSession(message.SessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get chat"})
		return
	}
	if !session.HasParticipant(userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a chat participant"})
		return
	}

	if req.Side == "sender" {
		err = h.db.ClearMessageForSender(messageID)
	} else {
		err = h.db.ClearMessageForReceiver(messageID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear message"})
		return
	}

	c.Status(http.StatusOK)
}
