package web

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

//ResponseBody is the uniform machine-readable body for status and error responses
type ResponseBody struct {
	Timestamp string `json:"timestamp"`
	Status int `json:"status"`
	Error string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Path string `json:"path,omitempty"`
}

//WriteStatus renders a status code with a short message body
func WriteStatus(writer http.ResponseWriter, status int, message string) {
	WriteJSON(writer, status, ResponseBody{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status: status,
		Message: message,
	})
}

//WriteError renders a full error body including the request path
func WriteError(writer http.ResponseWriter, status int, errorText string, message string, path string) {
	WriteJSON(writer, status, ResponseBody{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status: status,
		Error: errorText,
		Message: message,
		Path: path,
	})
}

//WriteJSON renders an arbitrary payload with the provided status code
func WriteJSON(writer http.ResponseWriter, status int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if err := json.NewEncoder(writer).Encode(payload); err != nil {
		log.WithError(err).Error("could not encode returned payload")
	}
}
