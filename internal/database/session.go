package database

import (
	"errors"

	"github.com/anurag-chiplunkar/chatline/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateSessionIfAbsent создает диалог между двумя пользователями, если его
// еще нет. Идемпотентна: повторный вызов (в любом порядке аргументов)
// возвращает существующий диалог. Гонка двух одновременных вызовов
// разрешается уникальным индексом: проигравший просто перечитывает строку.
func (d *Database) CreateSessionIfAbsent(userA, userB uuid.UUID) (*models.ChatSession, error) {
	if userA == userB {
		return nil, ErrSameUserSession
	}

	a, b := models.NormalizePair(userA, userB)

	session := models.ChatSession{UserAID: a, UserBID: b}
	res := d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&session)
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		// Конфликт: строку успел создать кто-то другой.
		return d.FindSession(userA, userB)
	}

	return &session, nil
}

// FindSession ищет диалог, порядок аргументов не важен.
// Возвращает (nil, nil), если диалога нет.
func (d *Database) FindSession(userA, userB uuid.UUID) (*models.ChatSession, error) {
	a, b := models.NormalizePair(userA, userB)

	var session models.ChatSession
	err := d.db.First(&session, "user_a_id = ? AND user_b_id = ?", a, b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (d *Database) GetSession(id uuid.UUID) (*models.ChatSession, error) {
	var session models.ChatSession
	if err := d.db.Preload("UserA").Preload("UserB").First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// GetUserSessions возвращает диалоги пользователя, свежие сверху.
func (d *Database) GetUserSessions(userID uuid.UUID) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := d.db.
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("updated_at DESC").
		Preload("UserA").
		Preload("UserB").
		Find(&sessions).Error
	return sessions, err
}

// FriendIDsOf возвращает id второго участника для каждого диалога
// пользователя. Используется для рассылки presence-событий.
func (d *Database) FriendIDsOf(userID uuid.UUID) ([]uuid.UUID, error) {
	var sessions []models.ChatSession
	if err := d.db.Where("user_a_id = ? OR user_b_id = ?", userID, userID).Find(&sessions).Error; err != nil {
		return nil, err
	}

	friends := make([]uuid.UUID, 0, len(sessions))
	for _, s := range sessions {
		friends = append(friends, s.Peer(userID))
	}
	return friends, nil
}

// ListContacts возвращает пользователей, с которыми диалога еще нет.
func (d *Database) ListContacts(userID uuid.UUID) ([]models.User, error) {
	friends, err := d.FriendIDsOf(userID)
	if err != nil {
		return nil, err
	}

	exclude := append(friends, userID)

	var users []models.User
	err = d.db.Where("id NOT IN ?", exclude).Order("username ASC").Find(&users).Error
	return users, err
}
