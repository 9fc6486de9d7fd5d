package chat

import (
	"encoding/json"
	"net/http"
	"strconv"

	svcErr "github.com/kindredapp/kindred-backend/internal/errors"
	"github.com/kindredapp/kindred-backend/internal/server"
)

// HandleSend serves POST /api/chat/send.
func (s *Service) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SenderID   uint64 `json:"senderId"`
		ReceiverID uint64 `json:"receiverId"`
		Content    string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.RespondError(w, svcErr.Validation("invalid request body"))
		return
	}
	if req.SenderID == 0 || req.ReceiverID == 0 {
		server.RespondError(w, svcErr.Validation("senderId and receiverId are required"))
		return
	}

	msg, err := s.Send(r.Context(), req.SenderID, req.ReceiverID, req.Content)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	server.RespondOK(w, "message sent", map[string]any{
		"messageId": msg.ID,
		"sentAt":    msg.CreatedAt.UnixMilli(),
	})
}

// HandleHistory serves GET /api/chat/history.
func (s *Service) HandleHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := queryID(r, "userId")
	if err != nil {
		server.RespondError(w, err)
		return
	}
	peerID, err := queryID(r, "peerId")
	if err != nil {
		server.RespondError(w, err)
		return
	}

	var token *string
	if t := r.URL.Query().Get("paginationToken"); t != "" {
		token = &t
	}

	messages, next, err := s.History(r.Context(), userID, peerID, token)
	if err != nil {
		server.RespondError(w, err)
		return
	}

	payload := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		payload = append(payload, map[string]any{
			"messageId":  m.ID,
			"senderId":   m.SenderID,
			"receiverId": m.ReceiverID,
			"content":    m.Content,
			"sentAt":     m.CreatedAt.UnixMilli(),
		})
	}

	extra := map[string]any{"messages": payload}
	if next != nil {
		extra["nextPaginationToken"] = *next
	}
	server.RespondOK(w, "history retrieved", extra)
}

func queryID(r *http.Request, name string) (uint64, error) {
	id, err := strconv.ParseUint(r.URL.Query().Get(name), 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.Validation(name + " must be a valid user id")
	}
	return id, nil
}
