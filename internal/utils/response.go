package utils

import (
	"encoding/json"
	"net/http"
)

// M is the ad-hoc response payload; every endpoint answers with
// {success, message, description} plus endpoint-specific fields.
type M map[string]interface{}

func RespondJSON(w http.ResponseWriter, status int, body M) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// RespondError writes the envelope with success=false.
func RespondError(w http.ResponseWriter, status int, message, description string) {
	RespondJSON(w, status, M{
		"success":     false,
		"message":     message,
		"description": description,
	})
}
