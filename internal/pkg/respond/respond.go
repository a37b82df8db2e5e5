package respond

import (
	"encoding/json"
	"net/http"
)

// Every endpoint answers with the same envelope: {"success":true,"data":...}
// or {"success":true,"message":...} on the happy path and
// {"success":false,"message":...} on failure.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func Data(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, envelope{Success: true, Data: data})
}

func Message(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Success: true, Message: message})
}

func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Success: false, Message: message})
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
