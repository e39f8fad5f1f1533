package chat

import (
	"context"
	"sort"
	"sync"

	"group-chat-service/internal/models"
)

// MemoryRepository is an in-process Repository for tests and local
// development.
type MemoryRepository struct {
	mu       sync.Mutex
	messages []models.ChatMessage
	nextID   uint
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (r *MemoryRepository) Save(_ context.Context, msg *models.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if msg.ID == 0 {
		msg.ID = r.nextID
		r.nextID++
	}
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *MemoryRepository) FindByGroupOrderByTimestampAsc(_ context.Context, groupID uint) ([]models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]models.ChatMessage, 0)
	for _, msg := range r.messages {
		if msg.GroupID == groupID {
			result = append(result, msg)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}
