package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"emberly_server/models"
	"emberly_server/services"
)

// InteractionController struct
type InteractionController struct {
	InteractionService *services.InteractionService
}

// NewInteractionController initializes the controller
func NewInteractionController(service *services.InteractionService) *InteractionController {
	return &InteractionController{InteractionService: service}
}

type pairRequest struct {
	ActorID  string            `json:"actorId"`
	TargetID string            `json:"targetId"`
	Context  string            `json:"context,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// swipe records the interaction and then explicitly checks for a match.
func (c *InteractionController) swipe(w http.ResponseWriter, r *http.Request, t models.InteractionType) {
	var request pairRequest
	if !decodeBody(w, r, &request) {
		return
	}

	rec, err := c.InteractionService.RecordInteraction(r.Context(), request.ActorID, request.TargetID, t, models.InteractionContext(request.Context), request.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}

	matched, err := c.InteractionService.CheckForMatch(r.Context(), rec)
	if err != nil {
		writeError(w, err)
		return
	}

	log.Printf("💖 %s -> %s (%s), matched=%v", request.ActorID, request.TargetID, t, matched)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "success",
		"interaction": rec,
		"matched":     matched,
	})
}

func (c *InteractionController) HandleLike(w http.ResponseWriter, r *http.Request) {
	c.swipe(w, r, models.InteractionLike)
}

func (c *InteractionController) HandleSuperlike(w http.ResponseWriter, r *http.Request) {
	c.swipe(w, r, models.InteractionSuperlike)
}

func (c *InteractionController) HandleDislike(w http.ResponseWriter, r *http.Request) {
	c.swipe(w, r, models.InteractionDislike)
}

func (c *InteractionController) HandlePass(w http.ResponseWriter, r *http.Request) {
	c.swipe(w, r, models.InteractionPass)
}

func (c *InteractionController) simpleAction(w http.ResponseWriter, r *http.Request, t models.InteractionType) {
	var request pairRequest
	if !decodeBody(w, r, &request) {
		return
	}

	rec, err := c.InteractionService.RecordInteraction(r.Context(), request.ActorID, request.TargetID, t, models.InteractionContext(request.Context), request.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "interaction": rec})
}

func (c *InteractionController) HandleBlock(w http.ResponseWriter, r *http.Request) {
	c.simpleAction(w, r, models.InteractionBlock)
}

func (c *InteractionController) HandleUnblock(w http.ResponseWriter, r *http.Request) {
	c.simpleAction(w, r, models.InteractionUnblock)
}

func (c *InteractionController) HandleFollow(w http.ResponseWriter, r *http.Request) {
	c.simpleAction(w, r, models.InteractionFollow)
}

func (c *InteractionController) HandleUnfollow(w http.ResponseWriter, r *http.Request) {
	c.simpleAction(w, r, models.InteractionUnfollow)
}

// HandleGetPotentialMatches - discovery candidates for swiping
func (c *InteractionController) HandleGetPotentialMatches(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	candidates, svcErr := c.InteractionService.GetPotentialMatches(r.Context(), userID, limit)
	if svcErr != nil {
		writeError(w, svcErr)
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}

// HandleGetInteractionHistory - ledger records with optional filters
func (c *InteractionController) HandleGetInteractionHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.InteractionFilter{
		Direction: q.Get("direction"),
		Type:      models.InteractionType(q.Get("type")),
		Context:   models.InteractionContext(q.Get("context")),
	}
	if since := q.Get("since"); since != "" {
		if ts, err := time.Parse(time.RFC3339, since); err == nil {
			filter.Since = ts
		}
	}
	if until := q.Get("until"); until != "" {
		if ts, err := time.Parse(time.RFC3339, until); err == nil {
			filter.Until = ts
		}
	}

	records, err := c.InteractionService.GetUserInteractions(r.Context(), q.Get("userId"), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleGetStats - aggregated ledger counts for a user
func (c *InteractionController) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.InteractionService.GetUserStats(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleGetAnalytics - windowed activity aggregation
func (c *InteractionController) HandleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			since = ts
		}
	}

	analytics, err := c.InteractionService.GetAnalytics(r.Context(), r.URL.Query().Get("userId"), since)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

// HandleResetSwipeHistory - deactivate matching-context swipes
func (c *InteractionController) HandleResetSwipeHistory(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	reset, err := c.InteractionService.ResetSwipeHistory(r.Context(), request.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "reset": reset})
}

// HandleRelationship - block state for an ordered pair
func (c *InteractionController) HandleRelationship(w http.ResponseWriter, r *http.Request) {
	status, err := c.InteractionService.Relationship(r.Context(), r.URL.Query().Get("actorId"), r.URL.Query().Get("targetId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
