package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"globetrotter/internal/domain"
)

// ChallengeStore is an in-memory implementation of app.ChallengeRepository.
// Expired challenges are hidden on every read and physically removed by Reap.
type ChallengeStore struct {
	mu         sync.RWMutex
	challenges map[string]*domain.Challenge
}

func NewChallengeStore() *ChallengeStore {
	return &ChallengeStore{
		challenges: make(map[string]*domain.Challenge),
	}
}

func (s *ChallengeStore) CreateChallenge(_ context.Context, c domain.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.challenges[c.ID]; exists {
		return domain.ErrConflict
	}
	stored := c
	s.challenges[c.ID] = &stored
	return nil
}

func (s *ChallengeStore) GetChallenge(_ context.Context, id string, now time.Time) (domain.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.challenges[id]
	if !ok || c.Expired(now) {
		return domain.Challenge{}, domain.ErrChallengeNotFound
	}
	return *c, nil
}

func (s *ChallengeStore) IncrementPlays(_ context.Context, id string, now time.Time) (domain.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[id]
	if !ok || c.Expired(now) {
		return domain.Challenge{}, domain.ErrChallengeNotFound
	}
	c.TimesPlayed++
	return *c, nil
}

func (s *ChallengeStore) ListActiveChallenges(_ context.Context, ownerID string, now time.Time) ([]domain.Challenge, error) {
	s.mu.RLock()
	out := make([]domain.Challenge, 0)
	for _, c := range s.challenges {
		if c.OwnerID == ownerID && !c.Expired(now) {
			out = append(out, *c)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Reap deletes every challenge expired at now and reports how many went.
func (s *ChallengeStore) Reap(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, c := range s.challenges {
		if c.Expired(now) {
			delete(s.challenges, id)
			removed++
		}
	}
	return removed
}
