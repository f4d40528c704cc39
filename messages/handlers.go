package messages

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/scott-ace-newton/messages-rw-redis/persistence"
	"github.com/scott-ace-newton/messages-rw-redis/web"
	log "github.com/sirupsen/logrus"
)

//MessageWrapper wraps message lists in responses
type MessageWrapper struct {
	Messages []persistence.MessageRecord `json:"messages"`
}

type messageBody struct {
	Message string `json:"message"`
}

type MessagesHandler struct {
	service Service
}

func NewMessagesHandler(service Service) MessagesHandler {
	return MessagesHandler{service: service}
}

func (h *MessagesHandler) RegisterHandlers(router *mux.Router) {
	log.Info("registering message handlers")
	router.Handle("/messages", handlers.MethodHandler{
		"GET": http.HandlerFunc(h.GetMessages),
		"POST": http.HandlerFunc(h.AddMessage),
	})
	router.Handle("/messages/{message}", handlers.MethodHandler{
		"GET": http.HandlerFunc(h.GetMessage),
		"PUT": http.HandlerFunc(h.EditMessage),
		"DELETE": http.HandlerFunc(h.DeleteMessage),
	})
}

//GetMessages returns all known messages, or only those written by the user
//named in the optional user query parameter
func (h *MessagesHandler) GetMessages(writer http.ResponseWriter, request *http.Request) {
	var records []persistence.MessageRecord
	var status persistence.Status

	if user := request.URL.Query().Get("user"); user != "" {
		records, status = h.service.WrittenBy(user)
	} else {
		records, status = h.service.All()
	}

	if status != persistence.OK {
		web.WriteStatus(writer, http.StatusInternalServerError, "could not process request")
		return
	}
	web.WriteJSON(writer, http.StatusOK, MessageWrapper{Messages: records})
}

//AddMessage creates a message for the user named in the user query parameter
func (h *MessagesHandler) AddMessage(writer http.ResponseWriter, request *http.Request) {
	user := request.URL.Query().Get("user")
	if user == "" {
		web.WriteStatus(writer, http.StatusBadRequest, web.RequiredFieldsMessage("user"))
		return
	}

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

	id, status := h.service.Create(body.Message, user)
	switch status {
	case persistence.CREATED:
		writer.Header().Set("Location", "/messages/"+id)
		web.WriteStatus(writer, http.StatusCreated, "Created")
	case persistence.USER_NOT_FOUND:
		message := fmt.Sprintf("user %s was not found. Message will not be created", user)
		web.WriteError(writer, http.StatusNotAcceptable, "Not Acceptable", message, request.URL.Path)
	default:
		web.WriteStatus(writer, http.StatusInternalServerError, "could not add message to store")
	}
}

//GetMessage returns a single message by id
func (h *MessagesHandler) GetMessage(writer http.ResponseWriter, request *http.Request) {
	id := mux.Vars(request)["message"]

	record, status := h.service.Describe(id)
	switch status {
	case persistence.OK:
		web.WriteJSON(writer, http.StatusOK, record)
	case persistence.NOT_FOUND:
		message := fmt.Sprintf("Could not find message with id %s", id)
		web.WriteError(writer, http.StatusNotFound, "Not Found", message, request.URL.Path)
	case persistence.CORRUPT:
		message := fmt.Sprintf("message record with id %s is corrupt", id)
		web.WriteError(writer, http.StatusInternalServerError, "Internal Server Error", message, request.URL.Path)
	default:
		web.WriteStatus(writer, http.StatusInternalServerError, "could not process request")
	}
}

//EditMessage overwrites the body of an existing message
func (h *MessagesHandler) EditMessage(writer http.ResponseWriter, request *http.Request) {
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

	switch h.service.Update(id, body.Message) {
	case persistence.UPDATED:
		web.WriteStatus(writer, http.StatusOK, "Updated")
	case persistence.NOT_FOUND:
		message := fmt.Sprintf("Message with id %s could not be found and can not be updated.", id)
		web.WriteError(writer, http.StatusNotFound, "Not Found", message, request.URL.Path)
	default:
		web.WriteStatus(writer, http.StatusInternalServerError, "could not update message")
	}
}

//DeleteMessage removes a message for the user named in the user query parameter
func (h *MessagesHandler) DeleteMessage(writer http.ResponseWriter, request *http.Request) {
	id := mux.Vars(request)["message"]
	user := request.URL.Query().Get("user")
	if user == "" {
		web.WriteStatus(writer, http.StatusBadRequest, web.RequiredFieldsMessage("user"))
		return
	}

	switch h.service.Delete(id, user) {
	case persistence.DELETED:
		web.WriteStatus(writer, http.StatusOK, "Deleted")
	case persistence.NOT_FOUND:
		message := fmt.Sprintf("Could not find item with id: %s for user %s", id, user)
		web.WriteStatus(writer, http.StatusNotFound, message)
	default:
		web.WriteStatus(writer, http.StatusInternalServerError, "could not process delete request")
	}
}
