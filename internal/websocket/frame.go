package websocket

// MessageType определяет типы кадров протокола
type MessageType string

const (
	// Кадры комнаты
	TypeTextMessage    MessageType = "TEXT_MESSAGE"
	TypeMessageRead    MessageType = "MESSAGE_READ"
	TypeAllMessageRead MessageType = "ALL_MESSAGE_READ"
	TypeIsTyping       MessageType = "IS_TYPING"
	TypeNotTyping      MessageType = "NOT_TYPING"

	// Кадры личного канала
	TypeWentOnline     MessageType = "WENT_ONLINE"
	TypeWentOffline    MessageType = "WENT_OFFLINE"
	TypeMessageCounter MessageType = "MESSAGE_COUNTER"

	// Ошибки
	TypeErrorOccurred MessageType = "ERROR_OCCURRED"
)

// ErrorCode — значение error_message в кадре ERROR_OCCURRED
type ErrorCode string

const (
	ErrCodeMessageOutOfLength ErrorCode = "MESSAGE_OUT_OF_LENGTH"
	ErrCodeUnauthenticated    ErrorCode = "UN_AUTHENTICATED"
	ErrCodeInvalidMessage     ErrorCode = "INVALID_MESSAGE"
)

// CloseUnauthenticated — зарезервированный код закрытия при провале аутентификации.
const CloseUnauthenticated = 4001

// Frame — плоский JSON-кадр. Неизвестные msg_type игнорируются на входе.
type Frame struct {
	MsgType      MessageType `json:"msg_type"`
	Message      string      `json:"message,omitempty"`
	User         string      `json:"user,omitempty"`
	UserID       string      `json:"user_id,omitempty"`
	UserName     string      `json:"user_name,omitempty"`
	MsgID        string      `json:"msg_id,omitempty"`
	Timestamp    string      `json:"timestamp,omitempty"`
	ErrorMessage ErrorCode   `json:"error_message,omitempty"`

	// Указатель, чтобы нулевой счетчик тоже сериализовался.
	OverallUnreadMsg *int64 `json:"overall_unread_msg,omitempty"`
}

// RoomGroup — имя группы комнаты для диалога.
func RoomGroup(sessionID string) string {
	return "room:" + sessionID
}

// PersonalGroup — имя личной группы пользователя.
func PersonalGroup(userID string) string {
	return "personal:" + userID
}
