package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"globetrotter/internal/domain"
)

// UserStore is an in-memory implementation of the user, score and
// leaderboard repositories.
type UserStore struct {
	mu         sync.RWMutex
	users      map[string]*domain.User
	byUsername map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:      make(map[string]*domain.User),
		byUsername: make(map[string]string),
	}
}

func (s *UserStore) CreateUser(_ context.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(u.Username)
	if _, taken := s.byUsername[key]; taken {
		return domain.ErrUsernameTaken
	}
	stored := u
	s.users[u.ID] = &stored
	s.byUsername[key] = u.ID
	return nil
}

func (s *UserStore) GetUser(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return *u, nil
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *UserStore) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUsername[strings.ToLower(username)]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return *s.users[id], nil
}

// RecordAnswer applies delta under the store lock so concurrent answers from
// the same user are never lost.
func (s *UserStore) RecordAnswer(_ context.Context, userID string, delta domain.ScoreDelta, at time.Time) (domain.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return domain.Score{}, domain.ErrUserNotFound
	}
	u.Score = u.Score.Apply(delta)
	u.LastPlayed = at
	return u.Score, nil
}

func (s *UserStore) Leaderboard(_ context.Context, sortType domain.SortType, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	entries := make([]domain.LeaderboardEntry, 0, len(s.users))
	for _, u := range s.users {
		entries = append(entries, domain.EntryFor(*u))
	}
	s.mu.RUnlock()

	RankEntries(entries, sortType)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// RankEntries orders entries by the metric of sortType, descending, with
// username ascending as the tie-breaker.
func RankEntries(entries []domain.LeaderboardEntry, sortType domain.SortType) {
	metric := func(e domain.LeaderboardEntry) int {
		switch sortType {
		case domain.SortMostCorrect:
			return e.CorrectAnswers
		case domain.SortMostWrong:
			return e.WrongAnswers
		default:
			return e.Score
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		mi, mj := metric(entries[i]), metric(entries[j])
		if mi != mj {
			return mi > mj
		}
		return entries[i].Username < entries[j].Username
	})
}
