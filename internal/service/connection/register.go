package connection

import (
	"github.com/gorilla/mux"

	"github.com/kindredapp/kindred-backend/internal/app"
)

// Registrar ties the connection service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the connection service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the connection routes to the router
func (r *Registrar) Register(router *mux.Router) {
	service := NewConnectionService(r.appCtx)

	sub := router.PathPrefix("/api/connections").Subrouter()
	sub.HandleFunc("/connect", service.HandleConnect).Methods("POST")
	sub.HandleFunc("/manage", service.HandleManage).Methods("POST")
	sub.HandleFunc("/state", service.HandleState).Methods("GET")
}
