package database

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/anurag-chiplunkar/chatline/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppendMessage сохраняет сообщение с заранее сгенерированным id и помечает
// его непрочитанным для получателя. Валидация выполняется здесь же, до
// записи: невалидное сообщение не попадает в базу. Обновляет updated_at
// диалога в той же транзакции.
func (d *Database) AppendMessage(id, sessionID, senderID uuid.UUID, body string) (*models.ChatMessage, error) {
	if utf8.RuneCountInString(body) > models.MaxBodyLength {
		return nil, ErrMessageTooLong
	}

	session, err := d.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasParticipant(senderID) {
		return nil, ErrNotParticipant
	}

	recipient := session.UserA
	if recipient.ID == senderID {
		recipient = session.UserB
	}

	message := models.ChatMessage{
		ID:        id,
		SessionID: sessionID,
		SenderID:  senderID,
		Body:      body,
		Read:      false,
		ReadBy:    models.ReadFlags{recipient.Username: false},
		CreatedAt: time.Now(),
	}

	err = d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(&models.ChatSession{}).
			Where("id = ?", sessionID).
			Update("updated_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}

	return &message, nil
}

func (d *Database) GetMessage(id uuid.UUID) (*models.ChatMessage, error) {
	var message models.ChatMessage
	if err := d.db.First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// MarkMessageRead помечает сообщение прочитанным. Идемпотентна; если
// сообщения нет — тихий no-op, чтобы дубль read-события не превращался
// в ошибку.
func (d *Database) MarkMessageRead(messageID uuid.UUID, readerUsername string) error {
	var message models.ChatMessage
	err := d.db.First(&message, "id = ?", messageID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if !message.MarkReadBy(readerUsername) {
		return nil
	}

	return d.db.Model(&message).Select("Read", "ReadBy").Updates(&message).Error
}

// MarkAllRead помечает прочитанными все непрочитанные сообщения диалога,
// отправленные не самим читателем.
func (d *Database) MarkAllRead(sessionID uuid.UUID, readerUsername string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		var messages []models.ChatMessage
		err := tx.
			Joins("JOIN users ON users.id = chat_messages.sender_id").
			Where("chat_messages.session_id = ? AND chat_messages.read = ? AND users.username <> ?",
				sessionID, false, readerUsername).
			Find(&messages).Error
		if err != nil {
			return err
		}

		for i := range messages {
			if !messages[i].MarkReadBy(readerUsername) {
				continue
			}
			err := tx.Model(&messages[i]).Select("Read", "ReadBy").Updates(&messages[i]).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// CountUnreadForUser считает непрочитанные сообщения по всем диалогам
// пользователя. Всегда пересчитывается из базы, нигде не инкрементится.
func (d *Database) CountUnreadForUser(userID uuid.UUID) (int64, error) {
	var count int64
	err := d.db.Model(&models.ChatMessage{}).
		Joins("JOIN chat_sessions ON chat_sessions.id = chat_messages.session_id").
		Where("chat_sessions.user_a_id = ? OR chat_sessions.user_b_id = ?", userID, userID).
		Where("chat_messages.sender_id <> ?", userID).
		Where("chat_messages.read = ?", false).
		Count(&count).Error
	return count, err
}

// CountUnreadInSession — то же, но в рамках одного диалога (для списка чатов).
func (d *Database) CountUnreadInSession(sessionID, userID uuid.UUID) (int64, error) {
	var count int64
	err := d.db.Model(&models.ChatMessage{}).
		Where("session_id = ? AND sender_id <> ? AND read = ?", sessionID, userID, false).
		Count(&count).Error
	return count, err
}

// ListMessages возвращает историю диалога, старые сообщения первыми.
func (d *Database) ListMessages(sessionID uuid.UUID) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := d.db.
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Preload("Sender").
		Find(&messages).Error
	return messages, err
}

// ClearMessageForSender скрывает сообщение у отправителя.
func (d *Database) ClearMessageForSender(messageID uuid.UUID) error {
	return d.db.Model(&models.ChatMessage{}).
		Where("id = ?", messageID).
		Update("sender_cleared", true).Error
}

// ClearMessageForReceiver скрывает сообщение у получателя.
func (d *Database) ClearMessageForReceiver(messageID uuid.UUID) error {
	return d.db.Model(&models.ChatMessage{}).
		Where("id = ?", messageID).
		Update("receiver_cleared", true).Error
}
