package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"emberly_server/models"
)

// writeJSON sends v as a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the core error taxonomy to an HTTP response. Denial codes
// reach the client verbatim so it can render precise messaging.
func writeError(w http.ResponseWriter, err error) {
	status := models.HTTPStatus(err)
	body := map[string]string{"error": err.Error()}
	if appErr, ok := models.AsAppError(err); ok {
		body["code"] = appErr.Code
		if appErr.Reason != "" {
			body["reason"] = appErr.Reason
			body["error"] = models.ReasonMessage(appErr.Reason)
		}
		if appErr.Code == models.CodeStore {
			log.Printf("❌ Store failure: %v", err)
			body["error"] = "persistence failure"
		}
	}
	writeJSON(w, status, body)
}

// decodeBody parses a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return false
	}
	return true
}
