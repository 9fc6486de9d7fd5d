package explore

import (
	"github.com/gorilla/mux"

	"github.com/kindredapp/kindred-backend/internal/app"
)

// Registrar ties the explore service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the explore service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the explore routes to the router
func (r *Registrar) Register(router *mux.Router) {
	service := NewExploreService(r.appCtx)

	sub := router.PathPrefix("/api/explore").Subrouter()
	sub.HandleFunc("/adjectives", service.HandleGetAdjectives).Methods("POST")
	sub.HandleFunc("/select", service.HandleSelect).Methods("POST")
	sub.HandleFunc("/match-state", service.HandleMatchState).Methods("GET")
	sub.HandleFunc("/matches", service.HandleListMatches).Methods("GET")
	sub.HandleFunc("/matches/count", service.HandleCountMatches).Methods("GET")
}
