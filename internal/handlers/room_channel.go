package handlers

import (
	"time"
	"unicode/utf8"

	"github.com/anurag-chiplunkar/chatline/internal/database"
	"github.com/anurag-chiplunkar/chatline/internal/models"
	ws "github.com/anurag-chiplunkar/chatline/internal/websocket"
	"github.com/google/uuid"
)

// RoomChannel обрабатывает кадры одного соединения с комнатой диалога.
// Создается по экземпляру на соединение.
type RoomChannel struct {
	db      *database.Database
	hub     *ws.Hub
	session *models.ChatSession
	group   string
}

func NewRoomChannel(db *database.Database, hub *ws.Hub, session *models.ChatSession) *RoomChannel {
	return &RoomChannel{
		db:      db,
		hub:     hub,
		session: session,
		group:   ws.RoomGroup(session.ID.String()),
	}
}

func (h *RoomChannel) HandleFrame(client *ws.Client, frame *ws.Frame) error {
	switch frame.MsgType {
	case ws.TypeTextMessage:
		return h.handleTextMessage(client, frame)

	case ws.TypeMessageRead:
		return h.handleMessageRead(client, frame)

	case ws.TypeAllMessageRead:
		return h.handleAllMessageRead(client, frame)

	case ws.TypeIsTyping, ws.TypeNotTyping:
		// Транзитом в группу, без персистентности.
		h.hub.Publish(h.group, &ws.Frame{
			MsgType: frame.MsgType,
			User:    frame.User,
		})
		return nil

	default:
		// Неизвестный тип кадра игнорируется.
		return nil
	}
}

// handleTextMessage: проверка длины, рассылка в комнату (включая самого
// отправителя), запись в базу и пересчитанный счетчик непрочитанных
// в личную группу получателя.
func (h *RoomChannel) handleTextMessage(client *ws.Client, frame *ws.Frame) error {
	now := time.Now()

	if utf8.RuneCountInString(frame.Message) > models.MaxBodyLength {
		// Слишком длинное сообщение: ошибка только отправителю,
		// без записи и без рассылки.
		return client.SendFrame(&ws.Frame{
			MsgType:      ws.TypeErrorOccurred,
			ErrorMessage: ws.ErrCodeMessageOutOfLength,
			Message:      frame.Message,
			User:         frame.User,
			Timestamp:    now.Format(time.RFC3339),
		})
	}

	msgID := uuid.New()

	h.hub.Publish(h.group, &ws.Frame{
		MsgType:   ws.TypeTextMessage,
		Message:   frame.Message,
		User:      frame.User,
		MsgID:     msgID.String(),
		Timestamp: now.Format(time.RFC3339),
	})

	if _, err := h.db.AppendMessage(msgID, h.session.ID, client.UserID, frame.Message); err != nil {
		return err
	}

	// Счетчик пересчитывается из базы уже после надежной записи.
	recipient := h.session.Peer(client.UserID)
	count, err := h.db.CountUnreadForUser(recipient)
	if err != nil {
		return err
	}

	h.hub.Publish(ws.PersonalGroup(recipient.String()), &ws.Frame{
		MsgType:          ws.TypeMessageCounter,
		UserID:           client.UserID.String(),
		OverallUnreadMsg: &count,
	})

	return nil
}

func (h *RoomChannel) handleMessageRead(client *ws.Client, frame *ws.Frame) error {
	msgID, err := uuid.Parse(frame.MsgID)
	if err != nil {
		return client.SendFrame(&ws.Frame{
			MsgType:      ws.TypeErrorOccurred,
			ErrorMessage: ws.ErrCodeInvalidMessage,
			User:         frame.User,
		})
	}

	// Исчезнувшее сообщение — no-op внутри MarkMessageRead,
	// дубль read-события не становится ошибкой.
	if err := h.db.MarkMessageRead(msgID, frame.User); err != nil {
		return err
	}

	h.hub.Publish(h.group, &ws.Frame{
		MsgType: ws.TypeMessageRead,
		MsgID:   frame.MsgID,
		User:    frame.User,
	})
	return nil
}

func (h *RoomChannel) handleAllMessageRead(client *ws.Client, frame *ws.Frame) error {
	h.hub.Publish(h.group, &ws.Frame{
		MsgType: ws.TypeAllMessageRead,
		User:    frame.User,
	})

	return h.db.MarkAllRead(h.session.ID, frame.User)
}

// HandleDisconnect: комната не трогает presence, группы соединение
// покидает в Hub.Unregister.
func (h *RoomChannel) HandleDisconnect(client *ws.Client) {}
