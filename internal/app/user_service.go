package app

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"globetrotter/internal/auth"
	"globetrotter/internal/domain"
)

// UserRepository persists accounts.
type UserRepository interface {
	UserReader
	CreateUser(ctx context.Context, u domain.User) error
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
}

// TokenIssuer signs and verifies bearer tokens.
type TokenIssuer interface {
	Issue(u domain.User) (string, time.Time, error)
	Verify(token string) (domain.Identity, error)
}

// TokenDenylist remembers logged-out token ids until they expire on their own.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Session is returned by signup and login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}

// UserService is the identity capability: accounts, tokens and profile stats.
type UserService struct {
	users      UserRepository
	challenges ChallengeRepository
	tokens     TokenIssuer
	denylist   TokenDenylist
	now        func() time.Time
}

func NewUserService(users UserRepository, challenges ChallengeRepository, tokens TokenIssuer, denylist TokenDenylist) *UserService {
	return &UserService{
		users:      users,
		challenges: challenges,
		tokens:     tokens,
		denylist:   denylist,
		now:        time.Now,
	}
}

func (s *UserService) Signup(ctx context.Context, username, password string) (Session, error) {
	name, err := domain.NormalizeUsername(username)
	if err != nil {
		return Session{}, err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return Session{}, err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return Session{}, err
	}

	now := s.now().UTC()
	u := domain.User{
		ID:           uuid.NewString(),
		Username:     name,
		PasswordHash: hash,
		CreatedAt:    now,
		LastPlayed:   now,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return Session{}, err
	}
	return s.issue(u)
}

func (s *UserService) Login(ctx context.Context, username, password string) (Session, error) {
	u, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, domain.ErrBadCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return Session{}, err
	}
	return s.issue(u)
}

// Logout revokes the caller's token until its natural expiry.
func (s *UserService) Logout(ctx context.Context, who *domain.Identity) error {
	if who == nil {
		return domain.ErrUnauthorized
	}
	if who.TokenID == "" {
		return nil
	}
	return s.denylist.Revoke(ctx, who.TokenID, who.Expires)
}

// Authenticate verifies a bearer token and rejects revoked ones.
func (s *UserService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	if id.TokenID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, id.TokenID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, domain.ErrUnauthorized
		}
	}
	return &id, nil
}

func (s *UserService) Profile(ctx context.Context, who *domain.Identity) (domain.User, error) {
	if who == nil {
		return domain.User{}, domain.ErrUnauthorized
	}
	return s.users.GetUser(ctx, who.UserID)
}

// Stats summarizes the caller's play history for the profile page.
func (s *UserService) Stats(ctx context.Context, who *domain.Identity) (domain.UserStats, error) {
	u, err := s.Profile(ctx, who)
	if err != nil {
		return domain.UserStats{}, err
	}
	active, err := s.challenges.ListActiveChallenges(ctx, who.UserID, s.now())
	if err != nil {
		return domain.UserStats{}, err
	}

	stats := domain.UserStats{
		QuestionsAttempted: u.Score.Total,
		CorrectAnswers:     u.Score.Correct,
		WrongAnswers:       u.Score.Incorrect,
		Points:             u.Score.Points,
		ActiveChallenges:   len(active),
	}
	if u.Score.Total > 0 {
		stats.AverageScore = int(math.Round(float64(u.Score.Correct) * 100 / float64(u.Score.Total)))
	}
	return stats, nil
}

func (s *UserService) issue(u domain.User) (Session, error) {
	token, expires, err := s.tokens.Issue(u)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: expires, User: u}, nil
}
