package controllers

import (
	"net/http"

	"emberly_server/services"
)

// MatchController struct
type MatchController struct {
	MatchService *services.MatchService
}

// NewMatchController initializes the controller
func NewMatchController(service *services.MatchService) *MatchController {
	return &MatchController{MatchService: service}
}

// HandleGetMatches - active matches for a user (sweep runs first)
func (c *MatchController) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	matches, err := c.MatchService.GetMatches(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// HandleGetMessageRequests - pending message requests for a user
func (c *MatchController) HandleGetMessageRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := c.MatchService.GetMessageRequests(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// HandleRemoveMatch - unfriend: deactivate both records, reset conversation
func (c *MatchController) HandleRemoveMatch(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID    string `json:"userId"`
		PartnerID string `json:"partnerId"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	if err := c.MatchService.RemoveMatch(r.Context(), request.UserID, request.PartnerID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Match removed"})
}

// HandleReconcile - run the repair sweep for a user on demand
func (c *MatchController) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	repaired, err := c.MatchService.ReconciliationSweep(r.Context(), request.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "repaired": repaired})
}
