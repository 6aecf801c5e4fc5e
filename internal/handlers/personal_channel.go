package handlers

import (
	"log"

	"github.com/anurag-chiplunkar/chatline/internal/database"
	ws "github.com/anurag-chiplunkar/chatline/internal/websocket"
)

// PersonalChannel обрабатывает личный канал пользователя: presence
// и push счетчика непрочитанных. По экземпляру на соединение.
type PersonalChannel struct {
	db  *database.Database
	hub *ws.Hub
}

func NewPersonalChannel(db *database.Database, hub *ws.Hub) *PersonalChannel {
	return &PersonalChannel{db: db, hub: hub}
}

func (h *PersonalChannel) HandleFrame(client *ws.Client, frame *ws.Frame) error {
	switch frame.MsgType {
	case ws.TypeWentOnline:
		return h.setPresence(client, true)

	case ws.TypeWentOffline:
		return h.setPresence(client, false)

	default:
		return nil
	}
}

// setPresence пишет статус в базу и рассылает событие в личные группы
// всех друзей. Идентичность берется из соединения, а не из кадра.
func (h *PersonalChannel) setPresence(client *ws.Client, online bool) error {
	if err := h.db.SetPresence(client.UserID, online); err != nil {
		return err
	}

	msgType := ws.TypeWentOffline
	if online {
		msgType = ws.TypeWentOnline
	}

	friends, err := h.db.FriendIDsOf(client.UserID)
	if err != nil {
		return err
	}

	for _, friendID := range friends {
		h.hub.Publish(ws.PersonalGroup(friendID.String()), &ws.Frame{
			MsgType:  msgType,
			UserName: client.Username,
		})
	}
	return nil
}

// HandleDisconnect: закрытие личного канала равнозначно явному WENT_OFFLINE.
func (h *PersonalChannel) HandleDisconnect(client *ws.Client) {
	if !client.Authenticated {
		return
	}
	if err := h.setPresence(client, false); err != nil {
		log.Printf("failed to set user %s offline: %v", client.UserID, err)
	}
}
