// Helper functions for sending standardized JSON responses.

package gateway

import (
	"encoding/json"
	"net/http"
)

// RespondWithJSON writes a JSON response with the given status code and payload.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		// If marshaling fails, return an error response
		RespondWithDetail(w, http.StatusInternalServerError, "Failed to marshal response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithDetail writes an error response in the gateway's wire format,
// a JSON object with a "detail" message.
func RespondWithDetail(w http.ResponseWriter, code int, detail string) {
	RespondWithJSON(w, code, map[string]string{"detail": detail})
}
