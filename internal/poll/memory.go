package poll

import (
	"context"
	"sync"

	"group-chat-service/internal/models"
)

// MemoryRepository is an in-process Repository used by tests and local
// development. It mirrors the transactional behavior of the GORM
// repository: AddVotes applies the whole batch or nothing.
type MemoryRepository struct {
	mu         sync.Mutex
	polls      map[uint]*models.Poll
	nextPollID uint
	nextOptID  uint
	nextVoteID uint
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		polls:      make(map[uint]*models.Poll),
		nextPollID: 1,
		nextOptID:  1,
		nextVoteID: 1,
	}
}

func (r *MemoryRepository) Save(_ context.Context, poll *models.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if poll.ID == 0 {
		poll.ID = r.nextPollID
		r.nextPollID++
	}
	for i := range poll.Options {
		if poll.Options[i].ID == 0 {
			poll.Options[i].ID = r.nextOptID
			r.nextOptID++
		}
		poll.Options[i].PollID = poll.ID
	}
	r.polls[poll.ID] = clonePoll(poll)
	return nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id uint) (*models.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	poll, ok := r.polls[id]
	if !ok {
		return nil, ErrPollNotFound
	}
	return clonePoll(poll), nil
}

func (r *MemoryRepository) FindByGroupID(_ context.Context, groupID uint) ([]models.Poll, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	polls := make([]models.Poll, 0)
	for id := uint(1); id < r.nextPollID; id++ {
		if poll, ok := r.polls[id]; ok && poll.GroupID == groupID {
			polls = append(polls, *clonePoll(poll))
		}
	}
	return polls, nil
}

func (r *MemoryRepository) AddVotes(_ context.Context, votes []models.PollVote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range votes {
		poll, ok := r.polls[votes[i].PollID]
		if !ok {
			return ErrPollNotFound
		}
		for j := range poll.Options {
			if poll.Options[j].ID == votes[i].OptionID {
				votes[i].ID = r.nextVoteID
				r.nextVoteID++
				poll.Options[j].Votes = append(poll.Options[j].Votes, votes[i])
				break
			}
		}
	}
	return nil
}

func clonePoll(p *models.Poll) *models.Poll {
	cp := *p
	cp.Options = make([]models.PollOption, len(p.Options))
	for i, opt := range p.Options {
		cp.Options[i] = opt
		cp.Options[i].Votes = append([]models.PollVote(nil), opt.Votes...)
	}
	return &cp
}
