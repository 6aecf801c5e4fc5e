package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub разводит события по именованным группам соединений.
// Группа создается при первом Join и исчезает, когда пустеет;
// никакого персистентного состояния у хаба нет.
type Hub struct {
	// Группы: имя -> множество соединений
	groups map[string]map[*Client]bool

	// Все активные соединения
	clients map[*Client]bool

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		groups:  make(map[string]map[*Client]bool),
		clients: make(map[*Client]bool),
	}
}

// Register добавляет соединение в хаб.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	log.Printf("client registered: %s (user %s)", client.ID, client.UserID)
}

// Unregister синхронно выводит соединение из всех его групп и закрывает
// канал отправки. После возврата хаб больше не доставит этому соединению
// ни одного кадра.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.clients[client] {
		return
	}

	for group := range client.groups {
		h.leaveUnsafe(client, group)
	}

	delete(h.clients, client)
	close(client.Send)
	log.Printf("client unregistered: %s (user %s)", client.ID, client.UserID)
}

// Join добавляет соединение в именованную группу.
func (h *Hub) Join(group string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.groups[group]; !ok {
		h.groups[group] = make(map[*Client]bool)
	}
	h.groups[group][client] = true

	client.mu.Lock()
	client.groups[group] = true
	client.mu.Unlock()
}

// Leave убирает соединение из группы; пустая группа удаляется.
func (h *Hub) Leave(group string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveUnsafe(client, group)
}

func (h *Hub) leaveUnsafe(client *Client, group string) {
	members, ok := h.groups[group]
	if !ok {
		return
	}

	delete(members, client)
	if len(members) == 0 {
		delete(h.groups, group)
	}

	client.mu.Lock()
	delete(client.groups, group)
	client.mu.Unlock()
}

// Publish доставляет кадр каждому участнику группы, включая самого
// отправителя, если он в ней состоит. Публикация в пустую группу — no-op:
// офлайн-участник пропускает живые события, его догоняет счетчик
// непрочитанных из базы.
func (h *Hub) Publish(group string, frame *Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		log.Printf("failed to marshal frame for group %s: %v", group, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.groups[group] {
		select {
		case client.Send <- data:
		default:
			log.Printf("client %s send channel full, frame dropped", client.ID)
		}
	}
}

// GroupSize возвращает число соединений в группе.
func (h *Hub) GroupSize(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}
