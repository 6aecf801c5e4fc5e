package websocket

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Клиенты без сетевого соединения: пампы не запускаются,
// кадры читаются прямо из канала Send.
func newTestClient(hub *Hub, username string) *Client {
	return NewClient(hub, nil, uuid.New(), username, true)
}

func recvFrame(t *testing.T, client *Client) Frame {
	t.Helper()

	select {
	case data := <-client.Send:
		var frame Frame
		require.NoError(t, json.Unmarshal(data, &frame))
		return frame
	default:
		t.Fatal("no frame in send queue")
		return Frame{}
	}
}

func TestPublishDeliversToAllMembers(t *testing.T) {
	hub := NewHub()
	alice := newTestClient(hub, "alice")
	bob := newTestClient(hub, "bob")

	hub.Register(alice)
	hub.Register(bob)
	hub.Join("room:1", alice)
	hub.Join("room:1", bob)

	hub.Publish("room:1", &Frame{MsgType: TypeTextMessage, Message: "hi", User: "alice"})

	// Отправитель состоит в группе и тоже получает кадр.
	for _, client := range []*Client{alice, bob} {
		frame := recvFrame(t, client)
		assert.Equal(t, TypeTextMessage, frame.MsgType)
		assert.Equal(t, "hi", frame.Message)
		assert.Equal(t, "alice", frame.User)
	}
}

func TestPublishEmptyGroupIsNoop(t *testing.T) {
	hub := NewHub()

	hub.Publish("room:nobody", &Frame{MsgType: TypeTextMessage, Message: "hi"})
	assert.Equal(t, 0, hub.GroupSize("room:nobody"))
}

func TestPublishDoesNotCrossGroups(t *testing.T) {
	hub := NewHub()
	alice := newTestClient(hub, "alice")
	bob := newTestClient(hub, "bob")

	hub.Register(alice)
	hub.Register(bob)
	hub.Join("room:1", alice)
	hub.Join("room:2", bob)

	hub.Publish("room:1", &Frame{MsgType: TypeIsTyping, User: "alice"})

	assert.Len(t, alice.Send, 1)
	assert.Empty(t, bob.Send)
}

func TestPublishPreservesOrder(t *testing.T) {
	hub := NewHub()
	alice := newTestClient(hub, "alice")
	hub.Register(alice)
	hub.Join("room:1", alice)

	for i := 0; i < 10; i++ {
		hub.Publish("room:1", &Frame{MsgType: TypeTextMessage, Message: fmt.Sprintf("msg-%d", i)})
	}

	for i := 0; i < 10; i++ {
		frame := recvFrame(t, alice)
		assert.Equal(t, fmt.Sprintf("msg-%d", i), frame.Message)
	}
}

func TestPublishDropsWhenQueueFull(t *testing.T) {
	hub := NewHub()
	alice := newTestClient(hub, "alice")
	hub.Register(alice)
	hub.Join("room:1", alice)

	for i := 0; i < cap(alice.Send); i++ {
		alice.Send <- []byte("{}")
	}

	// Переполненная очередь не блокирует публикацию, кадр теряется.
	hub.Publish("room:1", &Frame{MsgType: TypeTextMessage, Message: "dropped"})
	assert.Len(t, alice.Send, cap(alice.Send))
}

func TestLeaveRemovesEmptyGroup(t *testing.T) {
	hub := NewHub()
	alice := newTestClient(hub, "alice")
	hub.Register(alice)
	hub.Join("room:1", alice)
	require.Equal(t, 1, hub.GroupSize("room:1"))

	hub.Leave("room:1", alice)

	assert.Equal(t, 0, hub.GroupSize("room:1"))
	hub.mu.RLock()
	_, exists := hub.groups["room:1"]
	hub.mu.RUnlock()
	assert.False(t, exists)
}

func TestUnregisterLeavesGroupsAndClosesSend(t *testing.T) {
	hub := NewHub()
	alice := newTestClient(hub, "alice")
	hub.Register(alice)
	hub.Join("room:1", alice)
	hub.Join("personal:a", alice)

	hub.Unregister(alice)

	assert.Equal(t, 0, hub.GroupSize("room:1"))
	assert.Equal(t, 0, hub.GroupSize("personal:a"))

	_, open := <-alice.Send
	assert.False(t, open)

	// Повторный Unregister безопасен.
	hub.Unregister(alice)
}

func TestSendFrameQueueFull(t *testing.T) {
	hub := NewHub()
	alice := newTestClient(hub, "alice")

	for i := 0; i < cap(alice.Send); i++ {
		alice.Send <- []byte("{}")
	}

	err := alice.SendFrame(&Frame{MsgType: TypeErrorOccurred})
	assert.ErrorIs(t, err, ErrClientQueueFull)
}

func TestZeroCounterSerialized(t *testing.T) {
	count := int64(0)
	data, err := json.Marshal(&Frame{MsgType: TypeMessageCounter, OverallUnreadMsg: &count})
	require.NoError(t, err)

	// Нулевой счетчик должен дойти до клиента, omitempty его не съедает.
	assert.Contains(t, string(data), `"overall_unread_msg":0`)
}
