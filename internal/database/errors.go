package database

import "errors"

var (
	// ErrSameUserSession — попытка создать диалог пользователя с самим собой.
	ErrSameUserSession = errors.New("chat session requires two distinct users")
	// ErrNotParticipant — отправитель не состоит в диалоге.
	ErrNotParticipant = errors.New("sender is not a session participant")
	// ErrMessageTooLong — текст длиннее models.MaxBodyLength.
	ErrMessageTooLong = errors.New("message body exceeds max length")
)
