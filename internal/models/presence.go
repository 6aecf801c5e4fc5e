package models

import (
	"github.com/google/uuid"
	"time"
)

// Presence — онлайн-статус пользователя, одна запись на пользователя.
// Обновление по принципу last-writer-wins, без подсчета соединений.
type Presence struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	IsOnline  bool      `gorm:"not null;default:false"`
	UpdatedAt time.Time
}
