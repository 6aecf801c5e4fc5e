package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер входящего кадра
	maxMessageSize = 4096
)

// FrameHandler обрабатывает кадры одного канала (комнаты или личного).
// HandleFrame вызывается строго последовательно: следующий входящий кадр
// соединения не читается, пока не завершится обработка текущего.
type FrameHandler interface {
	HandleFrame(client *Client, frame *Frame) error
	HandleDisconnect(client *Client)
}

// Client — одно активное WebSocket-соединение.
type Client struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Username      string
	Authenticated bool

	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub

	groups map[string]bool
	mu     sync.RWMutex
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, username string, authenticated bool) *Client {
	return &Client{
		ID:            uuid.New(),
		UserID:        userID,
		Username:      username,
		Authenticated: authenticated,
		Conn:          conn,
		Send:          make(chan []byte, 256),
		Hub:           hub,
		groups:        make(map[string]bool),
	}
}

// ReadPump читает кадры соединения и передает их обработчику.
// На выходе сначала отрабатывает HandleDisconnect, затем соединение
// синхронно покидает все свои группы.
func (c *Client) ReadPump(handler FrameHandler) {
	defer func() {
		handler.HandleDisconnect(c)
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var frame Frame
		err := c.Conn.ReadJSON(&frame)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error: %v", err)
			}
			break
		}

		if err := handler.HandleFrame(c, &frame); err != nil {
			// Сбой персистентности валит только текущую операцию,
			// соединение продолжает жить.
			log.Printf("error handling %s frame: %v", frame.MsgType, err)
		}
	}
}

// WritePump пишет кадры из канала Send в соединение.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendFrame кладет кадр в очередь отправки этого соединения.
func (c *Client) SendFrame(frame *Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	select {
	case c.Send <- data:
		return nil
	default:
		return ErrClientQueueFull
	}
}

// Reject синхронно отправляет кадр (если есть) и закрывает соединение
// кодом CloseUnauthenticated. Используется до запуска пампов, поэтому
// пишет в Conn напрямую: порядок "кадр, потом close" гарантирован.
func (c *Client) Reject(frame *Frame) {
	if frame != nil {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		c.Conn.WriteJSON(frame)
	}

	deadline := time.Now().Add(writeWait)
	msg := websocket.FormatCloseMessage(CloseUnauthenticated, string(ErrCodeUnauthenticated))
	c.Conn.WriteControl(websocket.CloseMessage, msg, deadline)
	c.Conn.Close()
}
