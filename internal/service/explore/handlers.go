package explore

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kindredapp/kindred-backend/internal/db"
	svcErr "github.com/kindredapp/kindred-backend/internal/errors"
	"github.com/kindredapp/kindred-backend/internal/server"
)

// HandleGetAdjectives serves POST /api/explore/adjectives.
func (s *Service) HandleGetAdjectives(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ViewerID     uint64 `json:"viewerId"`
		TargetID     uint64 `json:"targetId"`
		SessionToken string `json:"sessionToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.RespondError(w, svcErr.Validation("invalid request body"))
		return
	}
	if req.ViewerID == 0 || req.TargetID == 0 {
		server.RespondError(w, svcErr.Validation("viewerId and targetId are required"))
		return
	}

	result, err := s.GetAdjectives(r.Context(), req.ViewerID, req.TargetID, req.SessionToken)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	server.RespondOK(w, "adjectives retrieved", map[string]any{
		"adjectives":         result.Adjectives,
		"sessionToken":       result.SessionToken,
		"hasTargetSelection": result.HasTargetSelection,
		"hasViewerSelection": result.HasViewerSelection,
	})
}

// HandleSelect serves POST /api/explore/select.
func (s *Service) HandleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ViewerID  uint64 `json:"viewerId"`
		TargetID  uint64 `json:"targetId"`
		Adjective string `json:"adjective"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.RespondError(w, svcErr.Validation("invalid request body"))
		return
	}
	if req.ViewerID == 0 || req.TargetID == 0 {
		server.RespondError(w, svcErr.Validation("viewerId and targetId are required"))
		return
	}

	result, err := s.SelectAdjective(r.Context(), req.ViewerID, req.TargetID, req.Adjective)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	extra := map[string]any{
		"matched":  result.Matched,
		"isUpdate": result.IsUpdate,
	}
	if result.IsUpdate {
		extra["previousAdjective"] = result.PreviousAdjective
	}
	if result.Match != nil {
		extra["matchData"] = matchPayload(result.Match)
	}

	message := "adjective selected"
	if result.Matched {
		message = "it's a match"
	}
	server.RespondOK(w, message, extra)
}

// HandleMatchState serves GET /api/explore/match-state.
func (s *Service) HandleMatchState(w http.ResponseWriter, r *http.Request) {
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

	match, err := s.GetMatchState(r.Context(), viewerID, targetID)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	var state any
	if match != nil {
		state = matchPayload(match)
	}
	server.RespondOK(w, "match state retrieved", map[string]any{"matchState": state})
}

// HandleListMatches serves GET /api/explore/matches.
func (s *Service) HandleListMatches(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		server.RespondError(w, err)
		return
	}

	var token *string
	if t := r.URL.Query().Get("paginationToken"); t != "" {
		token = &t
	}

	matches, next, err := s.ListMatches(r.Context(), userID, token)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	payload := make([]map[string]any, 0, len(matches))
	for i := range matches {
		m := matchPayload(&matches[i])
		m["userLowId"] = matches[i].UserLowID
		m["userHighId"] = matches[i].UserHighID
		payload = append(payload, m)
	}

	extra := map[string]any{"matches": payload}
	if next != nil {
		extra["nextPaginationToken"] = *next
	}
	server.RespondOK(w, "matches retrieved", extra)
}

// HandleCountMatches serves GET /api/explore/matches/count.
func (s *Service) HandleCountMatches(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		server.RespondError(w, err)
		return
	}

	count, err := s.CountMatches(r.Context(), userID)
	if err != nil {
		server.RespondError(w, err)
		return
	}
	server.RespondOK(w, "match count retrieved", map[string]any{"count": count})
}

func matchPayload(m *db.Match) map[string]any {
	return map[string]any{
		"mutualAdjective":   m.MutualAdjective,
		"iceBreakingPrompt": m.IceBreakingPrompt,
		"isConnected":       m.IsConnected,
		"matchTimestamp":    m.MatchedAt.UnixMilli(),
	}
}

func queryID(r *http.Request, name string) (uint64, error) {
	id, err := strconv.ParseUint(r.URL.Query().Get(name), 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.Validation(name + " must be a valid user id")
	}
	return id, nil
}
