package discovery

import (
	_ "embed"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:embed discovery.json
var discoveryJSON []byte

//Handler serves the discovery document on the service root
type Handler struct{}

func (h Handler) RegisterHandlers(router *mux.Router) {
	router.Handle("/", handlers.MethodHandler{
		"GET": http.HandlerFunc(h.Discovery),
	})
}

func (h Handler) Discovery(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Content-Type", "application/json")
	if _, err := writer.Write(discoveryJSON); err != nil {
		log.WithError(err).Error("could not write discovery document")
	}
}
