package app

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"globetrotter/internal/domain"
)

// DestinationRepository loads quiz content (from cache/backing store).
type DestinationRepository interface {
	ListDestinations(ctx context.Context) ([]domain.Destination, error)
	GetDestination(ctx context.Context, id string) (domain.Destination, error)
}

// ScoreRepository applies answer increments atomically and returns the new tally.
type ScoreRepository interface {
	RecordAnswer(ctx context.Context, userID string, delta domain.ScoreDelta, at time.Time) (domain.Score, error)
}

// ScoreListener is told after a user's score changed.
type ScoreListener interface {
	ScoresChanged(ctx context.Context)
}

// MatchMode controls how a submitted city is compared to the correct one.
type MatchMode string

const (
	MatchExact      MatchMode = "exact"
	MatchNormalized MatchMode = "normalized"
)

const (
	DefaultQuestionCount      = 10
	MaxQuestionCount          = 50
	DefaultOptionsPerQuestion = 4
)

type QuestionConfig struct {
	OptionsPerQuestion int
	MatchMode          MatchMode
}

// QuestionService serves questions and checks guesses.
type QuestionService struct {
	destinations DestinationRepository
	scores       ScoreRepository
	listener     ScoreListener
	cfg          QuestionConfig
	now          func() time.Time

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionService(destinations DestinationRepository, scores ScoreRepository, listener ScoreListener, cfg QuestionConfig) *QuestionService {
	return NewQuestionServiceWithRand(destinations, scores, listener, cfg, rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

// NewQuestionServiceWithRand is used by tests for deterministic sampling.
func NewQuestionServiceWithRand(destinations DestinationRepository, scores ScoreRepository, listener ScoreListener, cfg QuestionConfig, rnd *rand.Rand, now func() time.Time) *QuestionService {
	if cfg.OptionsPerQuestion <= 0 {
		cfg.OptionsPerQuestion = DefaultOptionsPerQuestion
	}
	if cfg.MatchMode == "" {
		cfg.MatchMode = MatchExact
	}
	return &QuestionService{
		destinations: destinations,
		scores:       scores,
		listener:     listener,
		cfg:          cfg,
		now:          now,
		rnd:          rnd,
	}
}

// GetQuestions samples count destinations. Zero means DefaultQuestionCount.
func (s *QuestionService) GetQuestions(ctx context.Context, count int) ([]domain.Question, error) {
	if count == 0 {
		count = DefaultQuestionCount
	}
	if count < 0 || count > MaxQuestionCount {
		return nil, domain.NewValidationError("count must be between 1 and 50")
	}

	pool, err := s.destinations.ListDestinations(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return BuildQuestions(s.rnd, pool, count, s.cfg.OptionsPerQuestion)
}

// CheckAnswer validates a guess, updates the caller's score and returns a fun
// fact about the destination regardless of the outcome.
func (s *QuestionService) CheckAnswer(ctx context.Context, who *domain.Identity, questionID, answer string) (domain.AnswerResult, error) {
	if who == nil {
		return domain.AnswerResult{}, domain.ErrUnauthorized
	}
	if strings.TrimSpace(questionID) == "" {
		return domain.AnswerResult{}, domain.NewValidationError("question id is required")
	}

	dest, err := s.destinations.GetDestination(ctx, questionID)
	if err != nil {
		return domain.AnswerResult{}, err
	}

	correct := s.matches(dest.City, answer)
	if _, err := s.scores.RecordAnswer(ctx, who.UserID, domain.DeltaFor(correct, dest.Difficulty), s.now()); err != nil {
		return domain.AnswerResult{}, err
	}
	if s.listener != nil {
		s.listener.ScoresChanged(ctx)
	}

	return domain.AnswerResult{Correct: correct, Fact: s.pickFact(dest.FunFacts)}, nil
}

func (s *QuestionService) matches(city, answer string) bool {
	if s.cfg.MatchMode == MatchNormalized {
		return strings.EqualFold(strings.TrimSpace(city), strings.TrimSpace(answer))
	}
	return city == answer
}

func (s *QuestionService) pickFact(facts []string) string {
	if len(facts) == 0 {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return facts[s.rnd.Intn(len(facts))]
}
