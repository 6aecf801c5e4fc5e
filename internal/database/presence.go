package database

import (
	"errors"
	"time"

	"github.com/anurag-chiplunkar/chatline/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetPresence выставляет онлайн-статус. Последняя запись побеждает.
func (d *Database) SetPresence(userID uuid.UUID, online bool) error {
	presence := models.Presence{
		UserID:    userID,
		IsOnline:  online,
		UpdatedAt: time.Now(),
	}
	return d.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"is_online", "updated_at"}),
	}).Create(&presence).Error
}

// IsOnline возвращает текущий статус; пользователь без записи — офлайн.
func (d *Database) IsOnline(userID uuid.UUID) (bool, error) {
	var presence models.Presence
	err := d.db.First(&presence, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return presence.IsOnline, nil
}
