package poll

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"group-chat-service/internal/models"

	"github.com/samber/lo"
)

var (
	ErrInvalidPoll  = errors.New("invalid poll data")
	ErrPollNotFound = errors.New("poll not found")
	ErrAlreadyVoted = errors.New("user already voted on this poll")
)

// Service is the single point of mutation for poll aggregates. All vote
// recording for one poll id is serialized through a per-poll lock, so the
// check-then-record sequence in Vote is linearizable per poll.
type Service struct {
	repo Repository

	// One mutex per poll id, created on first use. Entries are never
	// reclaimed; the table is bounded by the number of live polls.
	locks sync.Map
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) pollLock(pollID uint) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(pollID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Create allocates a new poll with zero votes on every option. A missing
// options list is allowed and yields a poll with zero options.
func (s *Service) Create(ctx context.Context, req *models.CreatePollRequest) (*models.PollView, error) {
	if req == nil || req.Question == "" {
		return nil, ErrInvalidPoll
	}

	poll := &models.Poll{
		GroupID:       req.GroupID,
		Question:      req.Question,
		AllowMultiple: req.AllowMultiple,
		Anonymous:     req.Anonymous,
		CreatedBy:     req.CreatorID,
		CreatorName:   req.CreatorName,
		CreatedAt:     time.Now(),
		Options: lo.Map(req.Options, func(opt models.PollOptionRequest, _ int) models.PollOption {
			return models.PollOption{Text: opt.Text}
		}),
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}

	slog.Info("Poll created", "pollID", poll.ID, "groupID", poll.GroupID, "options", len(poll.Options))
	return Snapshot(poll), nil
}

// Vote records the user's votes for the requested options and returns the
// updated snapshot. The entire request is applied atomically: either all
// qualifying votes are persisted together or none are.
//
// Option ids that do not belong to the poll are silently ignored. A user
// who already voted on a single-choice poll is rejected with
// ErrAlreadyVoted and the tallies are left untouched. On multi-choice
// polls a repeated (user, option) pair is skipped rather than recorded
// twice.
func (s *Service) Vote(ctx context.Context, req *models.VoteRequest) (*models.PollView, error) {
	if req == nil {
		return nil, ErrInvalidPoll
	}

	mu := s.pollLock(req.PollID)
	mu.Lock()
	defer mu.Unlock()

	poll, err := s.repo.FindByID(ctx, req.PollID)
	if err != nil {
		return nil, err
	}

	alreadyVoted := false
	for _, opt := range poll.Options {
		for _, vote := range opt.Votes {
			if vote.UserID == req.UserID {
				alreadyVoted = true
			}
		}
	}

	if alreadyVoted && !poll.AllowMultiple {
		return nil, ErrAlreadyVoted
	}

	var newVotes []models.PollVote
	for i := range poll.Options {
		opt := &poll.Options[i]
		if !slices.Contains(req.OptionIDs, opt.ID) {
			continue
		}
		if hasVoteFrom(opt, req.UserID) {
			continue
		}
		newVotes = append(newVotes, models.PollVote{
			PollID:   poll.ID,
			OptionID: opt.ID,
			UserID:   req.UserID,
		})
	}

	if err := s.repo.AddVotes(ctx, newVotes); err != nil {
		return nil, err
	}

	for _, vote := range newVotes {
		for i := range poll.Options {
			if poll.Options[i].ID == vote.OptionID {
				poll.Options[i].Votes = append(poll.Options[i].Votes, vote)
			}
		}
	}

	slog.Debug("Votes recorded", "pollID", poll.ID, "userID", req.UserID, "recorded", len(newVotes))
	return Snapshot(poll), nil
}

// GetByID returns the poll's current snapshot.
func (s *Service) GetByID(ctx context.Context, pollID uint) (*models.PollView, error) {
	poll, err := s.repo.FindByID(ctx, pollID)
	if err != nil {
		return nil, err
	}
	return Snapshot(poll), nil
}

// GetByGroup returns snapshots of every poll in the group, oldest first.
func (s *Service) GetByGroup(ctx context.Context, groupID uint) ([]*models.PollView, error) {
	polls, err := s.repo.FindByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return lo.Map(polls, func(p models.Poll, _ int) *models.PollView {
		return Snapshot(&p)
	}), nil
}

// Snapshot is a pure projection of the poll's current state. TotalVotes
// is recomputed from the per-option voter lists, never stored.
func Snapshot(poll *models.Poll) *models.PollView {
	total := 0
	options := lo.Map(poll.Options, func(opt models.PollOption, _ int) models.PollOptionView {
		total += len(opt.Votes)
		return models.PollOptionView{
			ID:   opt.ID,
			Text: opt.Text,
			Votes: lo.Map(opt.Votes, func(v models.PollVote, _ int) uint {
				return v.UserID
			}),
		}
	})

	return &models.PollView{
		ID:            poll.ID,
		GroupID:       poll.GroupID,
		Question:      poll.Question,
		Options:       options,
		AllowMultiple: poll.AllowMultiple,
		Anonymous:     poll.Anonymous,
		CreatedBy:     poll.CreatedBy,
		CreatorName:   poll.CreatorName,
		CreatedAt:     poll.CreatedAt,
		TotalVotes:    total,
	}
}

func hasVoteFrom(opt *models.PollOption, userID uint) bool {
	for _, vote := range opt.Votes {
		if vote.UserID == userID {
			return true
		}
	}
	return false
}
