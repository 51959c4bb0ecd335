package server

import (
	"encoding/json"
	"net/http"

	"legal-assistant/internal/models"
)

// Envelope is the uniform response wrapper: {"status": ..., "data": ...}.
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, data interface{}) error {
	return writeJSON(w, http.StatusOK, Envelope{Status: "success", Data: data})
}

// writeFailure reports an error with the full (empty) response schema as
// data, so clients always see every field.
func writeFailure(w http.ResponseWriter, status int, message string) error {
	return writeJSON(w, status, Envelope{
		Status:  "error",
		Message: message,
		Data:    models.EmptyLegalResponse(),
	})
}
