package chat

import (
	"context"

	"group-chat-service/internal/models"

	"gorm.io/gorm"
)

// Repository is the durable append-only log of chat messages.
type Repository interface {
	Save(ctx context.Context, msg *models.ChatMessage) error
	FindByGroupOrderByTimestampAsc(ctx context.Context, groupID uint) ([]models.ChatMessage, error)
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Save(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *gormRepository) FindByGroupOrderByTimestampAsc(ctx context.Context, groupID uint) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("timestamp asc").
		Find(&messages).Error
	return messages, err
}
