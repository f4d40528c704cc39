package users

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/scott-ace-newton/messages-rw-redis/messages"
	"github.com/scott-ace-newton/messages-rw-redis/persistence"
	"github.com/scott-ace-newton/messages-rw-redis/web"
	log "github.com/sirupsen/logrus"
)

//UserWrapper wraps user lists in responses
type UserWrapper struct {
	Users []persistence.UserRecord `json:"users"`
}

type messageBody struct {
	Message string `json:"message"`
}

type UsersHandler struct {
	service Service
	messages messages.Service
}

func NewUsersHandler(service Service, messages messages.Service) UsersHandler {
	return UsersHandler{
		service: service,
		messages: messages,
	}
}

func (h *UsersHandler) RegisterHandlers(router *mux.Router) {
	log.Info("registering user handlers")
	router.Handle("/users", handlers.MethodHandler{
		"GET": http.HandlerFunc(h.ListUsers),
		"POST": http.HandlerFunc(h.AddUser),
	})
	router.Handle("/users/{user}", handlers.MethodHandler{
		"GET": http.HandlerFunc(h.GetUser),
	})
	router.Handle("/users/{user}/messages", handlers.MethodHandler{
		"GET": http.HandlerFunc(h.GetMessages),
		"POST": http.HandlerFunc(h.AddMessage),
	})
	router.Handle("/users/{user}/messages/{message}", handlers.MethodHandler{
		"GET": http.HandlerFunc(h.GetMessage),
		"PUT": http.HandlerFunc(h.EditMessage),
		"DELETE": http.HandlerFunc(h.DeleteMessage),
	})
	router.Handle("/__health", handlers.MethodHandler{
		"GET": http.HandlerFunc(h.IsHealthy),
	})
}

//ListUsers returns all known users. Passwords are never rendered.
func (h *UsersHandler) ListUsers(writer http.ResponseWriter, request *http.Request) {
	records, status := h.service.All()
	if status != persistence.OK {
		web.WriteStatus(writer, http.StatusInternalServerError, "could not process request")
		return
	}
	web.WriteJSON(writer, http.StatusOK, UserWrapper{Users: withoutPasswords(records)})
}

//AddUser creates a new user from the request body
func (h *UsersHandler) AddUser(writer http.ResponseWriter, request *http.Request) {
	var record persistence.UserRecord
	if err := json.NewDecoder(request.Body).Decode(&record); err != nil {
		log.WithError(err).Error("could not decode request body")
		web.WriteStatus(writer, http.StatusBadRequest, "Missing JSON body in request")
		return
	}

	var missing []string
	if record.User == "" {
		missing = append(missing, "user")
	}
	if record.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		web.WriteStatus(writer, http.StatusBadRequest, web.RequiredFieldsMessage(missing...))
		return
	}

	switch h.service.Create(record) {
	case persistence.CREATED:
		writer.Header().Set("Location", "/users/"+record.User)
		web.WriteStatus(writer, http.StatusCreated, "Created")
	case persistence.ALREADY_EXISTS:
		writer.Header().Set("Location", "/users/"+record.User)
		message := fmt.Sprintf("User with user name %s does already exist. Try another user name", record.User)
		web.WriteStatus(writer, http.StatusSeeOther, message)
	default:
		web.WriteStatus(writer, http.StatusInternalServerError, "could not add user to store")
	}
}

//GetUser returns a single user by name, without the password
func (h *UsersHandler) GetUser(writer http.ResponseWriter, request *http.Request) {
	name := mux.Vars(request)["user"]

	record, status := h.service.Describe(name)
	switch status {
	case persistence.OK:
		record.Password = ""
		web.WriteJSON(writer, http.StatusOK, record)
	case persistence.NOT_FOUND:
		message := fmt.Sprintf("user with id: %s could not be found.", name)
		web.WriteError(writer, http.StatusNotFound, "Not Found", message, request.URL.Path)
	case persistence.CORRUPT:
		message := fmt.Sprintf("user record for %s is corrupt", name)
		web.WriteError(writer, http.StatusInternalServerError, "Internal Server Error", message, request.URL.Path)
	default:
		web.WriteStatus(writer, http.StatusInternalServerError, "could not process request")
	}
}

//GetMessages returns all messages written by the user
func (h *UsersHandler) GetMessages(writer http.ResponseWriter, request *http.Request) {
	user := mux.Vars(request)["user"]

	records, status := h.messages.WrittenBy(user)
	if status != persistence.OK {
		web.WriteStatus(writer, http.StatusInternalServerError, "could not process request")
		return
	}
	web.WriteJSON(writer, http.StatusOK, messages.MessageWrapper{Messages: records})
}

//AddMessage creates a message for the user in the path
func (h *UsersHandler) AddMessage(writer http.ResponseWriter, request *http.Request) {
	user := mux.Vars(request)["user"]

	var body messageBody
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		log.WithError(err).Error("could not decode request body")
		web.WriteStatus(writer, http.StatusBadRequest, "Missing JSON body in request")
		return
	}
	if body.Message == "" {
		web.WriteStatus(writer, http.StatusBadRequest, web.RequiredFieldsMessage("message"))
		return
	}

	id, status := h.messages.Create(body.Message, user)
	switch status {
	case persistence.CREATED:
		writer.Header().Set("Location", request.URL.Path+"/"+id)
		web.WriteStatus(writer, http.StatusCreated, "Created")
	case persistence.USER_NOT_FOUND:
		message := fmt.Sprintf("user %s was not found. Message will not be created", user)
		web.WriteError(writer, http.StatusNotFound, "Not Found", message, request.URL.Path)
	default:
		web.WriteStatus(writer, http.StatusInternalServerError, "could not add message to store")
	}
}

//GetMessage returns a single message for the user in the path
func (h *UsersHandler) GetMessage(writer http.ResponseWriter, request *http.Request) {
	vars := mux.Vars(request)
	user := vars["user"]
	id := vars["message"]

	record, status := h.messages.Describe(id)
	switch status {
	case persistence.OK:
		web.WriteJSON(writer, http.StatusOK, record)
	case persistence.NOT_FOUND:
		message := fmt.Sprintf("Could not find message with id %s for user %s", id, user)
		web.WriteError(writer, http.StatusNotFound, "Not Found", message, request.URL.Path)
	case persistence.CORRUPT:
		message := fmt.Sprintf("message record with id %s is corrupt", id)
		web.WriteError(writer, http.StatusInternalServerError, "Internal Server Error", message, request.URL.Path)
	default:
		web.WriteStatus(writer, http.StatusInternalServerError, "could not process request")
	}
}

//EditMessage overwrites the body of an existing message
func (h *UsersHandler) EditMessage(writer http.ResponseWriter, request *http.Request) {
	id := mux.Vars(request)["message"]

	var body messageBody
	if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
		log.WithError(err).Error("could not decode request body")
		web.WriteStatus(writer, http.StatusBadRequest, "Missing JSON body in request")
		return
	}
	if body.Message == "" {
		web.WriteStatus(writer, http.StatusBadRequest, web.RequiredFieldsMessage("message"))
		return
	}

	switch h.messages.Update(id, body.Message) {
	case persistence.UPDATED:
		web.WriteStatus(writer, http.StatusOK, "Updated")
	case persistence.NOT_FOUND:
		message := fmt.Sprintf("Message with id %s could not be found and can not be updated.", id)
		web.WriteError(writer, http.StatusNotFound, "Not Found", message, request.URL.Path)
	default:
		web.WriteStatus(writer, http.StatusInternalServerError, "could not update message")
	}
}

//DeleteMessage removes a message for the user in the path
func (h *UsersHandler) DeleteMessage(writer http.ResponseWriter, request *http.Request) {
	vars := mux.Vars(request)
	user := vars["user"]
	id := vars["message"]

	switch h.messages.Delete(id, user) {
	case persistence.DELETED:
		web.WriteStatus(writer, http.StatusOK, "Deleted")
	case persistence.NOT_FOUND:
		message := fmt.Sprintf("Could not find item with id: %s for user %s", id, user)
		web.WriteStatus(writer, http.StatusNotFound, message)
	default:
		web.WriteStatus(writer, http.StatusInternalServerError, "could not process delete request")
	}
}

//IsHealthy reports whether the backing store is reachable
func (h *UsersHandler) IsHealthy(writer http.ResponseWriter, request *http.Request) {
	if h.service.Healthy() {
		web.WriteStatus(writer, http.StatusOK, "app is healthy")
		return
	}
	web.WriteStatus(writer, http.StatusServiceUnavailable, "app is unhealthy")
}

func withoutPasswords(records []persistence.UserRecord) []persistence.UserRecord {
	sanitized := make([]persistence.UserRecord, 0, len(records))
	for _, record := range records {
		record.Password = ""
		sanitized = append(sanitized, record)
	}
	return sanitized
}
