package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"globetrotter/internal/domain"
)

// LeaderboardRepository ranks users by one metric, descending, ties broken by
// username ascending.
type LeaderboardRepository interface {
	Leaderboard(ctx context.Context, sort domain.SortType, limit int) ([]domain.LeaderboardEntry, error)
}

const DefaultLeaderboardLimit = 50

// LeaderboardService serves ranked views and a live top-scores feed.
type LeaderboardService struct {
	repo   LeaderboardRepository
	limit  int
	now    func() time.Time
	logger *slog.Logger

	dirty chan struct{}

	mu          sync.Mutex
	subscribers map[chan domain.Leaderboard]struct{}
}

func NewLeaderboardService(repo LeaderboardRepository, limit int, logger *slog.Logger) *LeaderboardService {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardService{
		repo:        repo,
		limit:       limit,
		now:         time.Now,
		logger:      logger,
		dirty:       make(chan struct{}, 1),
		subscribers: make(map[chan domain.Leaderboard]struct{}),
	}
}

func (s *LeaderboardService) GetTopScores(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return s.Ranked(ctx, domain.SortTopScores)
}

func (s *LeaderboardService) GetMostCorrect(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return s.Ranked(ctx, domain.SortMostCorrect)
}

func (s *LeaderboardService) GetMostWrong(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return s.Ranked(ctx, domain.SortMostWrong)
}

// Ranked returns users ordered by the given metric.
func (s *LeaderboardService) Ranked(ctx context.Context, sort domain.SortType) ([]domain.LeaderboardEntry, error) {
	if _, err := domain.ParseSortType(string(sort)); err != nil {
		return nil, err
	}
	entries, err := s.repo.Leaderboard(ctx, sort, s.limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries, nil
}

// ScoresChanged marks the live feed stale. It never blocks; bursts of score
// changes are coalesced into one refresh.
func (s *LeaderboardService) ScoresChanged(_ context.Context) {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

// Run refreshes the live feed whenever scores change, until ctx is done.
func (s *LeaderboardService) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.dirty:
			if !s.hasSubscribers() {
				continue
			}
			lb, err := s.snapshot(ctx)
			if err != nil {
				s.logger.Error("refresh leaderboard feed", "error", err)
				continue
			}
			s.broadcast(lb)
		}
	}
}

// Subscribe returns a channel that first receives the current top scores and
// then every refreshed snapshot. The caller must invoke cancel to avoid leaks.
func (s *LeaderboardService) Subscribe(ctx context.Context) (<-chan domain.Leaderboard, func(), error) {
	initial, err := s.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	ch := make(chan domain.Leaderboard, 8)
	ch <- initial

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel, nil
}

func (s *LeaderboardService) snapshot(ctx context.Context) (domain.Leaderboard, error) {
	entries, err := s.Ranked(ctx, domain.SortTopScores)
	if err != nil {
		return domain.Leaderboard{}, err
	}
	return domain.Leaderboard{Sort: domain.SortTopScores, Entries: entries, UpdatedAt: s.now()}, nil
}

func (s *LeaderboardService) hasSubscribers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers) > 0
}

func (s *LeaderboardService) broadcast(lb domain.Leaderboard) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- lb:
		default:
			// Slow subscriber: drop its oldest snapshot to make room.
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}
