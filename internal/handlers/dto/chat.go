package dto

import (
	"github.com/google/uuid"
	"time"
)

// CreateChatRequest — запрос на создание диалога со вторым пользователем
type CreateChatRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// ChatResponse — диалог в списке чатов
type ChatResponse struct {
	ID          uuid.UUID `json:"id"`
	UserName    string    `json:"user_name"`
	UserID      uuid.UUID `json:"user_id"`
	RoomName    string    `json:"room_name"`
	UnreadCount int64     `json:"un_read_msg_count"`
	IsOnline    bool      `json:"status"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MessageResponse — сообщение в истории диалога
type MessageResponse struct {
	ID        uuid.UUID       `json:"msg_id"`
	SessionID uuid.UUID       `json:"session_id"`
	Sender    string          `json:"user"`
	Body      string          `json:"message"`
	ReadBy    map[string]bool `json:"read_by"`
	CreatedAt time.Time       `json:"timestamp"`
}

// ContactResponse — пользователь, с которым еще нет диалога
type ContactResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// ClearMessageRequest — мягкое скрытие сообщения одной из сторон
type ClearMessageRequest struct {
	Side string `json:"side" binding:"required,oneof=sender receiver"`
}
