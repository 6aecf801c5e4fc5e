package models

import (
	"github.com/google/uuid"
	"time"
)

// MaxBodyLength — максимальная длина текста сообщения (в рунах).
const MaxBodyLength = 10

// ReadFlags — отметки о прочтении по имени получателя.
type ReadFlags map[string]bool

// ChatMessage — одно сообщение внутри ChatSession. ID генерируется
// на стороне отправителя в момент отправки, не последовательный.
type ChatMessage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index:idx_session_msg"`
	SenderID  uuid.UUID `gorm:"type:uuid;not null;index:idx_session_msg"`
	Body      string    `gorm:"not null"`

	// Read дублирует флаг получателя отдельной колонкой, чтобы счетчик
	// непрочитанных считался обычным WHERE, а не по JSON.
	Read   bool      `gorm:"not null;default:false"`
	ReadBy ReadFlags `gorm:"serializer:json"`

	// Мягкое скрытие для каждой из сторон, сообщения физически не удаляются.
	SenderCleared   bool `gorm:"not null;default:false"`
	ReceiverCleared bool `gorm:"not null;default:false"`

	CreatedAt time.Time

	// Связи
	Session ChatSession `gorm:"foreignKey:SessionID"`
	Sender  User        `gorm:"foreignKey:SenderID"`
}

// MarkReadBy переводит отметку получателя в true. Переход односторонний:
// прочитанное сообщение не становится непрочитанным снова.
func (m *ChatMessage) MarkReadBy(username string) bool {
	if m.Read && m.ReadBy[username] {
		return false
	}
	if m.ReadBy == nil {
		m.ReadBy = ReadFlags{}
	}
	m.ReadBy[username] = true
	m.Read = true
	return true
}
