package utils

import (
	"encoding/json"
	"net/http"
)

// Payload is the body of every message-only response, errors included.
type Payload struct {
	Message string `json:"message"`
}

// JSONResponse writes v as JSON with the given status.
func JSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message is shorthand for JSONResponse with a Payload.
func Message(w http.ResponseWriter, status int, message string) {
	JSONResponse(w, status, Payload{Message: message})
}
