package models

import (
	"encoding/json"
	"net/http"
)

// MessageResponse is the bare envelope used for client input errors. It has no
// success field, which matches the shape existing clients already parse.
type MessageResponse struct {
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, MessageResponse{Message: message})
}

// WriteFailure writes the {success:false} envelope.
func WriteFailure(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, ChatResponse{Success: false, Message: message})
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
