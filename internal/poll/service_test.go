package poll

import (
	"context"
	"errors"
	"sync"
	"testing"

	"group-chat-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewMemoryRepository())
}

func createPoll(t *testing.T, s *Service, groupID uint, question string, options []string, allowMultiple bool) *models.PollView {
	t.Helper()
	opts := make([]models.PollOptionRequest, 0, len(options))
	for _, text := range options {
		opts = append(opts, models.PollOptionRequest{Text: text})
	}
	view, err := s.Create(context.Background(), &models.CreatePollRequest{
		GroupID:       groupID,
		Question:      question,
		Options:       opts,
		AllowMultiple: allowMultiple,
		CreatorID:     1,
		CreatorName:   "alice",
	})
	require.NoError(t, err)
	return view
}

func TestCreatePoll(t *testing.T) {
	s := newTestService(t)

	view := createPoll(t, s, 7, "Lunch?", []string{"Pizza", "Sushi"}, false)

	assert.NotZero(t, view.ID)
	assert.Equal(t, uint(7), view.GroupID)
	assert.Equal(t, "Lunch?", view.Question)
	require.Len(t, view.Options, 2)
	assert.Equal(t, "Pizza", view.Options[0].Text)
	assert.Equal(t, "Sushi", view.Options[1].Text)
	assert.Empty(t, view.Options[0].Votes)
	assert.Empty(t, view.Options[1].Votes)
	assert.Equal(t, 0, view.TotalVotes)
	assert.False(t, view.CreatedAt.IsZero())
}

func TestCreatePollInvalidInput(t *testing.T) {
	s := newTestService(t)

	_, err := s.Create(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidPoll)

	_, err = s.Create(context.Background(), &models.CreatePollRequest{GroupID: 1})
	assert.ErrorIs(t, err, ErrInvalidPoll)
}

func TestCreatePollMissingOptionsYieldsEmptyPoll(t *testing.T) {
	s := newTestService(t)

	view, err := s.Create(context.Background(), &models.CreatePollRequest{
		GroupID:  1,
		Question: "No options?",
	})
	require.NoError(t, err)
	assert.Empty(t, view.Options)
	assert.Equal(t, 0, view.TotalVotes)
}

func TestVoteSingleChoice(t *testing.T) {
	s := newTestService(t)
	created := createPoll(t, s, 7, "Lunch?", []string{"Pizza", "Sushi"}, false)
	pizza := created.Options[0].ID

	view, err := s.Vote(context.Background(), &models.VoteRequest{
		PollID:    created.ID,
		UserID:    10,
		OptionIDs: []uint{pizza},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{10}, view.Options[0].Votes)
	assert.Empty(t, view.Options[1].Votes)
	assert.Equal(t, 1, view.TotalVotes)
}

func TestVoteUnknownPoll(t *testing.T) {
	s := newTestService(t)

	_, err := s.Vote(context.Background(), &models.VoteRequest{PollID: 999, UserID: 1})
	assert.ErrorIs(t, err, ErrPollNotFound)
}

func TestSingleChoiceRevoteRejectedWithoutPartialEffect(t *testing.T) {
	s := newTestService(t)
	created := createPoll(t, s, 7, "Lunch?", []string{"Pizza", "Sushi"}, false)
	pizza, sushi := created.Options[0].ID, created.Options[1].ID

	_, err := s.Vote(context.Background(), &models.VoteRequest{
		PollID:    created.ID,
		UserID:    10,
		OptionIDs: []uint{pizza},
	})
	require.NoError(t, err)

	_, err = s.Vote(context.Background(), &models.VoteRequest{
		PollID:    created.ID,
		UserID:    10,
		OptionIDs: []uint{sushi},
	})
	assert.ErrorIs(t, err, ErrAlreadyVoted)

	// Tallies unchanged: Pizza still holds the user's vote, Sushi has none.
	view, err := s.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{10}, view.Options[0].Votes)
	assert.Empty(t, view.Options[1].Votes)
	assert.Equal(t, 1, view.TotalVotes)
}

func TestMultipleChoiceAdditivity(t *testing.T) {
	s := newTestService(t)
	created := createPoll(t, s, 7, "Toppings?", []string{"Olives", "Onions"}, true)
	a, b := created.Options[0].ID, created.Options[1].ID

	view, err := s.Vote(context.Background(), &models.VoteRequest{
		PollID:    created.ID,
		UserID:    10,
		OptionIDs: []uint{a, b},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{10}, view.Options[0].Votes)
	assert.Equal(t, []uint{10}, view.Options[1].Votes)
	assert.Equal(t, 2, view.TotalVotes)
}

func TestMultipleChoiceDuplicateOptionVoteSkipped(t *testing.T) {
	s := newTestService(t)
	created := createPoll(t, s, 7, "Toppings?", []string{"Olives", "Onions"}, true)
	a := created.Options[0].ID

	_, err := s.Vote(context.Background(), &models.VoteRequest{
		PollID:    created.ID,
		UserID:    10,
		OptionIDs: []uint{a},
	})
	require.NoError(t, err)

	// Voting the same option again records nothing new.
	view, err := s.Vote(context.Background(), &models.VoteRequest{
		PollID:    created.ID,
		UserID:    10,
		OptionIDs: []uint{a},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{10}, view.Options[0].Votes)
	assert.Equal(t, 1, view.TotalVotes)
}

func TestVoteUnknownOptionIgnored(t *testing.T) {
	s := newTestService(t)
	created := createPoll(t, s, 7, "Lunch?", []string{"Pizza"}, false)

	view, err := s.Vote(context.Background(), &models.VoteRequest{
		PollID:    created.ID,
		UserID:    10,
		OptionIDs: []uint{9999},
	})
	require.NoError(t, err)
	assert.Empty(t, view.Options[0].Votes)
	assert.Equal(t, 0, view.TotalVotes)
}

func TestConcurrentSingleChoiceVotes(t *testing.T) {
	s := newTestService(t)
	created := createPoll(t, s, 7, "Lunch?", []string{"Pizza", "Sushi"}, false)
	pizza := created.Options[0].ID

	const voters = 50
	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			// Each user races to vote twice; exactly one attempt may win.
			for j := 0; j < 2; j++ {
				_, err := s.Vote(context.Background(), &models.VoteRequest{
					PollID:    created.ID,
					UserID:    userID,
					OptionIDs: []uint{pizza},
				})
				if err != nil && !errors.Is(err, ErrAlreadyVoted) {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}(uint(i + 1))
	}
	wg.Wait()

	view, err := s.GetByID(context.Background(), created.ID)
	require.NoError(t, err)

	seen := make(map[uint]int)
	for _, opt := range view.Options {
		for _, userID := range opt.Votes {
			seen[userID]++
		}
	}
	for userID, count := range seen {
		assert.Equalf(t, 1, count, "user %d holds %d votes", userID, count)
	}
	assert.Equal(t, voters, view.TotalVotes)
}

func TestGetByGroup(t *testing.T) {
	s := newTestService(t)
	createPoll(t, s, 1, "First?", []string{"A"}, false)
	createPoll(t, s, 1, "Second?", []string{"B"}, false)
	createPoll(t, s, 2, "Other group?", []string{"C"}, false)

	views, err := s.GetByGroup(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "First?", views[0].Question)
	assert.Equal(t, "Second?", views[1].Question)

	empty, err := s.GetByGroup(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetByIDUnknown(t *testing.T) {
	s := newTestService(t)

	_, err := s.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrPollNotFound)
}

func TestLunchScenario(t *testing.T) {
	s := newTestService(t)
	created := createPoll(t, s, 7, "Lunch?", []string{"Pizza", "Sushi"}, false)
	pizza, sushi := created.Options[0].ID, created.Options[1].ID

	_, err := s.Vote(context.Background(), &models.VoteRequest{
		PollID: created.ID, UserID: 1, OptionIDs: []uint{pizza},
	})
	require.NoError(t, err)

	view, err := s.Vote(context.Background(), &models.VoteRequest{
		PollID: created.ID, UserID: 2, OptionIDs: []uint{pizza},
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, view.Options[0].Votes)
	assert.Empty(t, view.Options[1].Votes)
	assert.Equal(t, 2, view.TotalVotes)

	_, err = s.Vote(context.Background(), &models.VoteRequest{
		PollID: created.ID, UserID: 1, OptionIDs: []uint{sushi},
	})
	assert.ErrorIs(t, err, ErrAlreadyVoted)

	view, err = s.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.TotalVotes)
}

func TestSnapshotExposesVotersOnAnonymousPolls(t *testing.T) {
	s := newTestService(t)
	view, err := s.Create(context.Background(), &models.CreatePollRequest{
		GroupID:   7,
		Question:  "Secret ballot?",
		Options:   []models.PollOptionRequest{{Text: "Yes"}},
		Anonymous: true,
	})
	require.NoError(t, err)

	updated, err := s.Vote(context.Background(), &models.VoteRequest{
		PollID: view.ID, UserID: 10, OptionIDs: []uint{view.Options[0].ID},
	})
	require.NoError(t, err)

	// Voter identities are currently exposed regardless of the anonymous
	// flag; the projection mirrors the stored votes one to one.
	assert.True(t, updated.Anonymous)
	assert.Equal(t, []uint{10}, updated.Options[0].Votes)
}
