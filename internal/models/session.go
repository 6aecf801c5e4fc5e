package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatSession — диалог 1:1 между двумя разными пользователями.
// Пара хранится в каноническом порядке (UserAID < UserBID), поэтому
// уникальный индекс закрывает оба порядка аргументов.
type ChatSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserAID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_session_pair"`
	UserBID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_session_pair"`
	UpdatedAt time.Time `gorm:"index"`

	// Связи
	UserA User `gorm:"foreignKey:UserAID"`
	UserB User `gorm:"foreignKey:UserBID"`
}

func (s *ChatSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// NormalizePair приводит пару к каноническому порядку.
func NormalizePair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}

// Peer возвращает второго участника диалога.
func (s *ChatSession) Peer(userID uuid.UUID) uuid.UUID {
	if s.UserAID == userID {
		return s.UserBID
	}
	return s.UserAID
}

// HasParticipant проверяет, что пользователь состоит в диалоге.
func (s *ChatSession) HasParticipant(userID uuid.UUID) bool {
	return s.UserAID == userID || s.UserBID == userID
}
