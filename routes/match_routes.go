package routes

import (
	"emberly_server/controllers"
	"emberly_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match-related operations under /api/matches
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService) {
	controller := controllers.NewMatchController(matchService)

	matchRouter := r.PathPrefix("/api/matches").Subrouter()
	matchRouter.HandleFunc("", controller.HandleGetMatches).Methods("GET")
	matchRouter.HandleFunc("/requests", controller.HandleGetMessageRequests).Methods("GET")
	matchRouter.HandleFunc("/remove", controller.HandleRemoveMatch).Methods("POST")
	matchRouter.HandleFunc("/reconcile", controller.HandleReconcile).Methods("POST")
}
