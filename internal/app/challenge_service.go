package app

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"globetrotter/internal/domain"
)

// ChallengeRepository stores challenges. Implementations must never return an
// expired challenge, whether or not the backing store has removed it yet.
type ChallengeRepository interface {
	CreateChallenge(ctx context.Context, c domain.Challenge) error
	GetChallenge(ctx context.Context, id string, now time.Time) (domain.Challenge, error)
	// IncrementPlays atomically adds one play to a live challenge.
	IncrementPlays(ctx context.Context, id string, now time.Time) (domain.Challenge, error)
	ListActiveChallenges(ctx context.Context, ownerID string, now time.Time) ([]domain.Challenge, error)
}

// UserReader resolves users by id.
type UserReader interface {
	GetUser(ctx context.Context, id string) (domain.User, error)
}

// DefaultChallengeTTL is how long a shared challenge link stays valid.
const DefaultChallengeTTL = 7 * 24 * time.Hour

// ChallengeService manages the challenge lifecycle.
type ChallengeService struct {
	challenges ChallengeRepository
	users      UserReader
	ttl        time.Duration
	publicURL  string
	now        func() time.Time
	newID      func() string
}

func NewChallengeService(challenges ChallengeRepository, users UserReader, ttl time.Duration, publicURL string) *ChallengeService {
	return NewChallengeServiceWithClock(challenges, users, ttl, publicURL, time.Now)
}

// NewChallengeServiceWithClock is test-only for deterministic expiry.
func NewChallengeServiceWithClock(challenges ChallengeRepository, users UserReader, ttl time.Duration, publicURL string, now func() time.Time) *ChallengeService {
	if ttl <= 0 {
		ttl = DefaultChallengeTTL
	}
	return &ChallengeService{
		challenges: challenges,
		users:      users,
		ttl:        ttl,
		publicURL:  strings.TrimRight(publicURL, "/"),
		now:        now,
		newID:      uuid.NewString,
	}
}

// Create issues a new challenge owned by the caller.
func (s *ChallengeService) Create(ctx context.Context, who *domain.Identity) (domain.Challenge, error) {
	if who == nil {
		return domain.Challenge{}, domain.ErrUnauthorized
	}
	now := s.now().UTC()
	c := domain.Challenge{
		ID:        s.newID(),
		OwnerID:   who.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.challenges.CreateChallenge(ctx, c); err != nil {
		return domain.Challenge{}, err
	}
	return c, nil
}

// Resolve loads a live challenge with its owner's stats and counts one play.
// Every call counts, including repeated views by the same visitor.
func (s *ChallengeService) Resolve(ctx context.Context, token string) (domain.ResolvedChallenge, error) {
	if strings.TrimSpace(token) == "" {
		return domain.ResolvedChallenge{}, domain.ErrChallengeNotFound
	}
	now := s.now()

	c, err := s.challenges.GetChallenge(ctx, token, now)
	if err != nil {
		return domain.ResolvedChallenge{}, err
	}
	owner, err := s.users.GetUser(ctx, c.OwnerID)
	if err != nil {
		return domain.ResolvedChallenge{}, err
	}
	c, err = s.challenges.IncrementPlays(ctx, token, now)
	if err != nil {
		return domain.ResolvedChallenge{}, err
	}

	return domain.ResolvedChallenge{
		Challenge: c,
		Challenger: domain.ChallengerStats{
			Username:           owner.Username,
			Score:              owner.Score.Points,
			CorrectAnswers:     owner.Score.Correct,
			QuestionsAttempted: owner.Score.Total,
		},
	}, nil
}

// ListActive returns the caller's live challenges, newest first.
func (s *ChallengeService) ListActive(ctx context.Context, who *domain.Identity) ([]domain.Challenge, error) {
	if who == nil {
		return nil, domain.ErrUnauthorized
	}
	return s.challenges.ListActiveChallenges(ctx, who.UserID, s.now())
}

// ShareLink returns the public URL of a live challenge without counting a play.
func (s *ChallengeService) ShareLink(ctx context.Context, token string) (string, error) {
	c, err := s.challenges.GetChallenge(ctx, token, s.now())
	if err != nil {
		return "", err
	}
	return s.publicURL + "/challenge/" + c.ID, nil
}
