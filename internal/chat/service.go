package chat

import (
	"context"
	"errors"
	"time"

	"group-chat-service/internal/models"
)

var ErrInvalidMessage = errors.New("invalid chat message")

// Service owns the group message log.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save stamps the message with a server-side timestamp and appends it to
// the group's log. The persisted form, including the assigned id, is
// returned.
func (s *Service) Save(ctx context.Context, groupID uint, req *models.SendMessageRequest) (*models.ChatMessage, error) {
	if req == nil || req.Content == "" {
		return nil, ErrInvalidMessage
	}

	msg := &models.ChatMessage{
		GroupID:    groupID,
		SenderID:   req.SenderID,
		SenderName: req.SenderName,
		Content:    req.Content,
		Timestamp:  time.Now(),
	}

	if err := s.repo.Save(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetByGroup returns the group's message history, oldest first.
func (s *Service) GetByGroup(ctx context.Context, groupID uint) ([]models.ChatMessage, error) {
	return s.repo.FindByGroupOrderByTimestampAsc(ctx, groupID)
}
