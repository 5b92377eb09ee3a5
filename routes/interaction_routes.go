package routes

import (
	"emberly_server/controllers"
	"emberly_server/services"

	"github.com/gorilla/mux"
)

// RegisterInteractionRoutes sets up routes for interaction-related operations under /api/interactions
func RegisterInteractionRoutes(r *mux.Router, interactionService *services.InteractionService) {
	controller := controllers.NewInteractionController(interactionService)

	interactionRouter := r.PathPrefix("/api/interactions").Subrouter()
	interactionRouter.HandleFunc("/like", controller.HandleLike).Methods("POST")
	interactionRouter.HandleFunc("/superlike", controller.HandleSuperlike).Methods("POST")
	interactionRouter.HandleFunc("/dislike", controller.HandleDislike).Methods("POST")
	interactionRouter.HandleFunc("/pass", controller.HandlePass).Methods("POST")
	interactionRouter.HandleFunc("/block", controller.HandleBlock).Methods("POST")
	interactionRouter.HandleFunc("/unblock", controller.HandleUnblock).Methods("POST")
	interactionRouter.HandleFunc("/follow", controller.HandleFollow).Methods("POST")
	interactionRouter.HandleFunc("/unfollow", controller.HandleUnfollow).Methods("POST")
	interactionRouter.HandleFunc("/potential-matches", controller.HandleGetPotentialMatches).Methods("GET")
	interactionRouter.HandleFunc("/history", controller.HandleGetInteractionHistory).Methods("GET")
	interactionRouter.HandleFunc("/stats", controller.HandleGetStats).Methods("GET")
	interactionRouter.HandleFunc("/analytics", controller.HandleGetAnalytics).Methods("GET")
	interactionRouter.HandleFunc("/reset-swipes", controller.HandleResetSwipeHistory).Methods("POST")
	interactionRouter.HandleFunc("/relationship", controller.HandleRelationship).Methods("GET")
}
