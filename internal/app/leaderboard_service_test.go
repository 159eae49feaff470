package app_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"globetrotter/internal/app"
	"globetrotter/internal/domain"
	"globetrotter/internal/infra/memory"
)

func newBoard(t *testing.T) (*app.LeaderboardService, *memory.UserStore) {
	t.Helper()
	users := memory.NewUserStore()
	ctx := context.Background()
	for _, u := range []domain.User{{ID: "1", Username: "carol"}, {ID: "2", Username: "bob"}, {ID: "3", Username: "alice"}} {
		if err := users.CreateUser(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	return app.NewLeaderboardService(users, 10, slog.New(slog.NewTextHandler(io.Discard, nil))), users
}

func TestLeaderboardRanking(t *testing.T) {
	board, users := newBoard(t)
	ctx := context.Background()
	now := time.Now()
	users.RecordAnswer(ctx, "1", domain.DeltaFor(true, domain.DifficultyEasy), now)
	users.RecordAnswer(ctx, "2", domain.DeltaFor(true, domain.DifficultyHard), now)
	users.RecordAnswer(ctx, "3", domain.DeltaFor(true, domain.DifficultyEasy), now)
	users.RecordAnswer(ctx, "3", domain.DeltaFor(false, domain.DifficultyEasy), now)

	top, err := board.GetTopScores(ctx)
	if err != nil {
		t.Fatalf("top scores: %v", err)
	}
	if names(top) != "bob,alice,carol" {
		t.Fatalf("top scores order = %s", names(top))
	}

	wrong, _ := board.GetMostWrong(ctx)
	if names(wrong) != "alice,bob,carol" {
		t.Fatalf("most wrong order = %s", names(wrong))
	}

	if _, err := board.Ranked(ctx, "fastest"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLeaderboardSubscribe(t *testing.T) {
	board, users := newBoard(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go board.Run(ctx)

	updates, unsubscribe, err := board.Subscribe(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer unsubscribe()

	initial := <-updates
	if len(initial.Entries) != 3 || initial.Sort != domain.SortTopScores {
		t.Fatalf("unexpected initial snapshot %+v", initial)
	}

	users.RecordAnswer(ctx, "1", domain.DeltaFor(true, domain.DifficultyMedium), time.Now())
	board.ScoresChanged(ctx)

	select {
	case lb := <-updates:
		if lb.Entries[0].Username != "carol" || lb.Entries[0].Score != 10 {
			t.Fatalf("unexpected update %+v", lb.Entries[0])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for leaderboard update")
	}

	unsubscribe()
	if _, ok := <-updates; ok {
		t.Fatal("expected channel to be closed after unsubscribe")
	}
}

func names(entries []domain.LeaderboardEntry) string {
	out := ""
	for i, e := range entries {
		if i > 0 {
			out += ","
		}
		out += e.Username
	}
	return out
}
