package routes

import (
	"emberly_server/controllers"
	"emberly_server/services"

	"github.com/gorilla/mux"
)

// RegisterChatRoutes sets up routes for chat-related operations under /api/chat
func RegisterChatRoutes(r *mux.Router, chatService *services.ChatService) {
	controller := controllers.NewChatController(chatService)

	chatRouter := r.PathPrefix("/api/chat").Subrouter()
	chatRouter.HandleFunc("/conversation", controller.HandleGetOrCreateConversation).Methods("POST")
	chatRouter.HandleFunc("/conversations", controller.HandleListConversations).Methods("GET")
	chatRouter.HandleFunc("/messages", controller.HandleGetMessages).Methods("GET")
	chatRouter.HandleFunc("/message", controller.HandleSendMessage).Methods("POST")
	chatRouter.HandleFunc("/approve", controller.HandleApproveConversation).Methods("POST")
	chatRouter.HandleFunc("/messages/pin", controller.HandlePinMessage).Methods("POST")
	chatRouter.HandleFunc("/messages/unpin", controller.HandleUnpinMessage).Methods("POST")
	chatRouter.HandleFunc("/messages/mark-as-read", controller.HandleMarkRead).Methods("POST")
	chatRouter.HandleFunc("/messages/react", controller.HandleReactToMessage).Methods("PATCH")
	chatRouter.HandleFunc("/messages/edit", controller.HandleEditMessage).Methods("PATCH")
	chatRouter.HandleFunc("/messages/delete", controller.HandleDeleteMessage).Methods("POST")
}
