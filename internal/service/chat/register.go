package chat

import (
	"github.com/gorilla/mux"

	"github.com/kindredapp/kindred-backend/internal/app"
)

// Registrar ties the chat service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the chat service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the chat routes to the router
func (r *Registrar) Register(router *mux.Router) {
	service := NewChatService(r.appCtx)

	sub := router.PathPrefix("/api/chat").Subrouter()
	sub.HandleFunc("/send", service.HandleSend).Methods("POST")
	sub.HandleFunc("/history", service.HandleHistory).Methods("GET")
}
