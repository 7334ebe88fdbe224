// Package response writes the JSON bodies every estoque endpoint shares.
package response

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the shape of every failed response. Error and Message carry
// the same text; older clients read one, newer ones the other.
type ErrorBody struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Rule    string `json:"rule,omitempty"`
}

// MessageBody is {"message": ...}, the body of a successful delete.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// Error sends {"status","error","message"}.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Status: status, Error: message, Message: message})
}

// Invalid sends a 400 that names the offending field and rule.
func Invalid(w http.ResponseWriter, field, rule, message string) {
	JSON(w, http.StatusBadRequest, ErrorBody{
		Status:  http.StatusBadRequest,
		Error:   message,
		Message: message,
		Field:   field,
		Rule:    rule,
	})
}

// Message sends {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, MessageBody{Message: msg})
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// InternalError sends a 500 with a generic message.
func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "Erro interno do servidor")
}
