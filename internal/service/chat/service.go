package chat

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/kindredapp/kindred-backend/internal/app"
	"github.com/kindredapp/kindred-backend/internal/db"
	svcErr "github.com/kindredapp/kindred-backend/internal/errors"
	"github.com/kindredapp/kindred-backend/internal/repository"
)

const (
	historyPageSize  = 50
	maxMessageLength = 2000
)

// Service implements direct chat between connected users. Sending is gated
// on the pair holding a Connection with status "connected".
type Service struct {
	appCtx      *app.AppContext
	userRepo    *repository.UserRepository
	connRepo    *repository.ConnectionRepository
	messageRepo *repository.MessageRepository
}

// NewChatService creates a new chat service with dependencies from AppContext.
func NewChatService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		userRepo:    repository.NewUserRepository(appCtx.DB),
		connRepo:    repository.NewConnectionRepository(appCtx.DB),
		messageRepo: repository.NewMessageRepository(appCtx.DB),
	}
}

// Send persists a message and pushes it to the receiver in real time
// (best-effort; an offline receiver sees it on next history fetch).
func (s *Service) Send(ctx context.Context, senderID, receiverID uint64, content string) (*db.Message, error) {
	s.appCtx.Logger.Debug("Send called", "sender", senderID, "receiver", receiverID)

	if senderID == receiverID {
		return nil, svcErr.Validation("cannot message yourself")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, svcErr.Validation("message content is required")
	}
	if len(content) > maxMessageLength {
		return nil, svcErr.Validation("message content is too long")
	}

	if _, _, err := s.userRepo.GetPair(ctx, senderID, receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcErr.NotFound("user not found")
		}
		return nil, svcErr.Map(err)
	}

	connected, err := s.connRepo.IsConnected(ctx, senderID, receiverID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if !connected {
		return nil, svcErr.PreconditionFailed("users must be connected to chat")
	}

	msg := &db.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, svcErr.Map(err)
	}

	s.appCtx.Notifier.EmitToUser(receiverID, "newMessage", map[string]any{
		"messageId": msg.ID,
		"senderId":  senderID,
		"content":   msg.Content,
		"sentAt":    msg.CreatedAt.UnixMilli(),
	})

	return msg, nil
}

// History returns the conversation between two users, newest first,
// cursor-paginated.
func (s *Service) History(
	ctx context.Context,
	userID, peerID uint64,
	paginationToken *string,
) ([]db.Message, *string, error) {
	messages, next, err := s.messageRepo.ListBetween(ctx, userID, peerID, paginationToken, historyPageSize)
	if err != nil {
		return nil, nil, svcErr.Map(err)
	}
	return messages, next, nil
}
