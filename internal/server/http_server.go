package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	socketio "github.com/googollee/go-socket.io"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/kindredapp/kindred-backend/internal/config"
	"github.com/kindredapp/kindred-backend/internal/logger"
)

// StartHTTPServer boots the HTTP server, registers all provided services and
// mounts the socket.io endpoint when a real-time server is supplied.
func StartHTTPServer(cfg *config.Config, sock *socketio.Server, registrars ...Registrar) error {
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}).Methods("GET")

	// register all services
	for _, reg := range registrars {
		reg.Register(r)
	}

	if sock != nil {
		r.Handle("/socket.io/", sock)
		go func() {
			if err := sock.Serve(); err != nil {
				logger.Error("socket.io server stopped", "err", err)
			}
		}()
		defer sock.Close()
	}

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	return http.ListenAndServe(addr, handler)
}
