package connection

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kindredapp/kindred-backend/internal/db"
	svcErr "github.com/kindredapp/kindred-backend/internal/errors"
	"github.com/kindredapp/kindred-backend/internal/server"
)

// HandleConnect serves POST /api/connections/connect (connect after match).
func (s *Service) HandleConnect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ViewerID uint64 `json:"viewerId"`
		TargetID uint64 `json:"targetId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.RespondError(w, svcErr.Validation("invalid request body"))
		return
	}
	if req.ViewerID == 0 || req.TargetID == 0 {
		server.RespondError(w, svcErr.Validation("viewerId and targetId are required"))
		return
	}

	conn, err := s.ConnectAfterMatch(r.Context(), req.ViewerID, req.TargetID)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	server.RespondOK(w, "connected", map[string]any{
		"connectionState": connectionPayload(conn),
	})
}

// HandleManage serves POST /api/connections/manage.
func (s *Service) HandleManage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ViewerID uint64 `json:"viewerId"`
		TargetID uint64 `json:"targetId"`
		Action   string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.RespondError(w, svcErr.Validation("invalid request body"))
		return
	}
	if req.ViewerID == 0 || req.TargetID == 0 {
		server.RespondError(w, svcErr.Validation("viewerId and targetId are required"))
		return
	}

	conn, message, err := s.Manage(r.Context(), req.ViewerID, req.TargetID, req.Action)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	server.RespondOK(w, message, map[string]any{
		"connectionState": connectionPayload(conn),
	})
}

// HandleState serves GET /api/connections/state.
func (s *Service) HandleState(w http.ResponseWriter, r *http.Request) {
	viewerID, err := queryID(r, "viewerId")
	if err != nil {
		server.RespondError(w, err)
		return
	}
	targetID, err := queryID(r, "targetId")
	if err != nil {
		server.RespondError(w, err)
		return
	}

	conn, err := s.State(r.Context(), viewerID, targetID)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	server.RespondOK(w, "connection state retrieved", map[string]any{
		"connectionState": connectionPayload(conn),
	})
}

// connectionPayload renders a connection row; nil renders as null ("none").
func connectionPayload(c *db.Connection) any {
	if c == nil {
		return nil
	}
	return map[string]any{
		"status":      c.Status,
		"requestedBy": c.RequestedBy,
		"since":       c.UpdatedAt.UnixMilli(),
	}
}

func queryID(r *http.Request, name string) (uint64, error) {
	id, err := strconv.ParseUint(r.URL.Query().Get(name), 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.Validation(name + " must be a valid user id")
	}
	return id, nil
}
