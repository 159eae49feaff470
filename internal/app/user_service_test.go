package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"globetrotter/internal/app"
	"globetrotter/internal/auth"
	"globetrotter/internal/domain"
	"globetrotter/internal/infra/memory"
)

func newUserService() (*app.UserService, *memory.UserStore, *memory.ChallengeStore) {
	users := memory.NewUserStore()
	challenges := memory.NewChallengeStore()
	svc := app.NewUserService(users, challenges, auth.NewIssuer("test-secret", time.Hour), memory.NewTokenDenylist())
	return svc, users, challenges
}

func TestSignupAndLogin(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	session, err := svc.Signup(ctx, "  alice ", "secret123")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if session.Token == "" || session.User.Username != "alice" || session.User.PasswordHash == "" {
		t.Fatalf("unexpected session %+v", session)
	}

	if _, err := svc.Signup(ctx, "ALICE", "secret123"); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}
	if _, err := svc.Signup(ctx, "al", "secret123"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected short username to be rejected, got %v", err)
	}
	if _, err := svc.Signup(ctx, "bob", "123"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected short password to be rejected, got %v", err)
	}

	if _, err := svc.Login(ctx, "alice", "wrong-password"); !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("expected bad credentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "secret123"); !errors.Is(err, domain.ErrBadCredentials) {
		t.Fatalf("expected bad credentials for unknown user, got %v", err)
	}
	login, err := svc.Login(ctx, "Alice", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	who, err := svc.Authenticate(ctx, login.Token)
	if err != nil || who.UserID != session.User.ID {
		t.Fatalf("authenticate = %+v, %v", who, err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	session, err := svc.Signup(ctx, "alice", "secret123")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	who, err := svc.Authenticate(ctx, session.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if err := svc.Logout(ctx, who); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, session.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}

	// A fresh login still works.
	again, _ := svc.Login(ctx, "alice", "secret123")
	if _, err := svc.Authenticate(ctx, again.Token); err != nil {
		t.Fatalf("new token rejected: %v", err)
	}
}

func TestStats(t *testing.T) {
	svc, users, challenges := newUserService()
	ctx := context.Background()

	session, _ := svc.Signup(ctx, "alice", "secret123")
	who := &domain.Identity{UserID: session.User.ID}

	stats, err := svc.Stats(ctx, who)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats != (domain.UserStats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}

	now := time.Now()
	for _, correct := range []bool{true, true, false} {
		users.RecordAnswer(ctx, who.UserID, domain.DeltaFor(correct, domain.DifficultyMedium), now)
	}
	challenges.CreateChallenge(ctx, domain.Challenge{ID: "c1", OwnerID: who.UserID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)})
	challenges.CreateChallenge(ctx, domain.Challenge{ID: "c2", OwnerID: who.UserID, CreatedAt: now, ExpiresAt: now.Add(-time.Second)})

	stats, _ = svc.Stats(ctx, who)
	want := domain.UserStats{
		QuestionsAttempted: 3,
		CorrectAnswers:     2,
		WrongAnswers:       1,
		AverageScore:       67,
		Points:             20,
		ActiveChallenges:   1,
	}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}

	if _, err := svc.Stats(ctx, nil); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
