package poll

import (
	"context"
	"errors"

	"group-chat-service/internal/models"

	"gorm.io/gorm"
)

// Repository persists poll aggregates. Save assigns identities on first
// save; AddVotes appends votes in a single transaction.
type Repository interface {
	Save(ctx context.Context, poll *models.Poll) error
	FindByID(ctx context.Context, id uint) (*models.Poll, error)
	FindByGroupID(ctx context.Context, groupID uint) ([]models.Poll, error)
	AddVotes(ctx context.Context, votes []models.PollVote) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Save(ctx context.Context, poll *models.Poll) error {
	return r.db.WithContext(ctx).Create(poll).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id uint) (*models.Poll, error) {
	var poll models.Poll
	err := r.db.WithContext(ctx).
		Preload("Options.Votes").
		First(&poll, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}
	return &poll, nil
}

func (r *gormRepository) FindByGroupID(ctx context.Context, groupID uint) ([]models.Poll, error) {
	var polls []models.Poll
	err := r.db.WithContext(ctx).
		Preload("Options.Votes").
		Where("group_id = ?", groupID).
		Order("id").
		Find(&polls).Error
	return polls, err
}

func (r *gormRepository) AddVotes(ctx context.Context, votes []models.PollVote) error {
	if len(votes) == 0 {
		return nil
	}
	// Single Create so the whole batch commits or rolls back together.
	return r.db.WithContext(ctx).Create(&votes).Error
}
