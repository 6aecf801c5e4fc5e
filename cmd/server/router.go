package server

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/anurag-chiplunkar/chatline/internal/handlers"
	"github.com/anurag-chiplunkar/chatline/internal/middleware"
	"github.com/anurag-chiplunkar/chatline/pkg/auth"
)

func APIEndpoints(r *gin.Engine, authH *handlers.AuthHandler, chatH *handlers.ChatHandler,
	wsH *handlers.WebSocketHandler, jwtMgr *auth.JWTManager, rdb *redis.Client) {

	// Auth endpoints
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", authH.Logout)
	}

	// API endpoints
	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtMgr, rdb))
	{
		api.POST("/chats", chatH.CreateChat)
		api.GET("/chats", chatH.ListChats)
		api.GET("/chats/:id/messages", chatH.GetChatMessages)
		api.GET("/contacts", chatH.ListContacts)
		api.GET("/unread", chatH.GetUnread)
		api.POST("/messages/:id/clear", chatH.ClearMessage)
	}

	// WebSocket: токен проверяется внутри обработчика, чтобы отдать
	// кадр ошибки и код 4001 вместо HTTP-отказа.
	r.GET("/ws/chat/:session_id", wsH.HandleRoomSocket)
	r.GET("/ws/personal/:user_id", wsH.HandlePersonalSocket)
}
