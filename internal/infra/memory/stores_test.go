package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"globetrotter/internal/domain"
)

func TestUserStoreRejectsDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	if err := store.CreateUser(ctx, domain.User{ID: "u1", Username: "Alice"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := store.CreateUser(ctx, domain.User{ID: "u2", Username: "alice"})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected username taken, got %v", err)
	}
	u, err := store.GetUserByUsername(ctx, "ALICE")
	if err != nil || u.ID != "u1" {
		t.Fatalf("expected lookup to be case-insensitive, got %+v, %v", u, err)
	}
}

func TestUserStoreConcurrentAnswersAreNotLost(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()
	_ = store.CreateUser(ctx, domain.User{ID: "u1", Username: "alice"})

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(correct bool) {
			defer wg.Done()
			_, _ = store.RecordAnswer(ctx, "u1", domain.DeltaFor(correct, domain.DifficultyEasy), time.Now())
		}(i%2 == 0)
	}
	wg.Wait()

	u, _ := store.GetUser(ctx, "u1")
	want := domain.Score{Correct: 50, Incorrect: 50, Total: 100, Points: 250}
	if u.Score != want {
		t.Fatalf("expected %+v, got %+v", want, u.Score)
	}
}

func TestUserStoreLeaderboardOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()
	users := []domain.User{
		{ID: "1", Username: "carol", Score: domain.Score{Correct: 3, Incorrect: 1, Total: 4, Points: 30}},
		{ID: "2", Username: "bob", Score: domain.Score{Correct: 5, Incorrect: 5, Total: 10, Points: 30}},
		{ID: "3", Username: "dave", Score: domain.Score{Correct: 1, Incorrect: 9, Total: 10, Points: 5}},
	}
	for _, u := range users {
		_ = store.CreateUser(ctx, u)
	}

	top, _ := store.Leaderboard(ctx, domain.SortTopScores, 10)
	if top[0].Username != "bob" || top[1].Username != "carol" || top[2].Username != "dave" {
		t.Fatalf("unexpected top-scores order: %+v", top)
	}
	wrong, _ := store.Leaderboard(ctx, domain.SortMostWrong, 1)
	if len(wrong) != 1 || wrong[0].Username != "dave" {
		t.Fatalf("unexpected most-wrong result: %+v", wrong)
	}
	correct, _ := store.Leaderboard(ctx, domain.SortMostCorrect, 10)
	if correct[0].Username != "bob" {
		t.Fatalf("unexpected most-correct leader: %+v", correct[0])
	}
}

func TestChallengeStoreHidesExpired(t *testing.T) {
	ctx := context.Background()
	store := NewChallengeStore()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	_ = store.CreateChallenge(ctx, domain.Challenge{ID: "old", OwnerID: "u1", CreatedAt: now.Add(-8 * 24 * time.Hour), ExpiresAt: now.Add(-time.Hour)})
	_ = store.CreateChallenge(ctx, domain.Challenge{ID: "a", OwnerID: "u1", CreatedAt: now.Add(-time.Hour), ExpiresAt: now.Add(time.Hour)})
	_ = store.CreateChallenge(ctx, domain.Challenge{ID: "b", OwnerID: "u1", CreatedAt: now, ExpiresAt: now.Add(2 * time.Hour)})

	if _, err := store.GetChallenge(ctx, "old", now); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected expired challenge to be hidden, got %v", err)
	}
	if _, err := store.IncrementPlays(ctx, "old", now); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected increment on expired challenge to fail, got %v", err)
	}

	active, _ := store.ListActiveChallenges(ctx, "u1", now)
	if len(active) != 2 || active[0].ID != "b" || active[1].ID != "a" {
		t.Fatalf("expected [b a], got %+v", active)
	}

	if removed := store.Reap(now); removed != 1 {
		t.Fatalf("expected 1 reaped, got %d", removed)
	}
	if removed := store.Reap(now); removed != 0 {
		t.Fatalf("expected nothing left to reap, got %d", removed)
	}
	for _, id := range []string{"a", "b"} {
		if _, err := store.GetChallenge(ctx, id, now); err != nil {
			t.Fatalf("live challenge %s reaped: %v", id, err)
		}
	}
}

func TestChallengeStoreIncrementIsAtomic(t *testing.T) {
	ctx := context.Background()
	store := NewChallengeStore()
	now := time.Now()
	_ = store.CreateChallenge(ctx, domain.Challenge{ID: "c", OwnerID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.IncrementPlays(ctx, "c", now)
		}()
	}
	wg.Wait()

	c, _ := store.GetChallenge(ctx, "c", now)
	if c.TimesPlayed != 50 {
		t.Fatalf("expected 50 plays, got %d", c.TimesPlayed)
	}
}

func TestTokenDenylist(t *testing.T) {
	ctx := context.Background()
	list := NewTokenDenylist()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	list.clock = func() time.Time { return now }

	_ = list.Revoke(ctx, "jti-1", now.Add(time.Hour))
	if revoked, _ := list.IsRevoked(ctx, "jti-1"); !revoked {
		t.Fatalf("expected token to be revoked")
	}
	if revoked, _ := list.IsRevoked(ctx, "jti-2"); revoked {
		t.Fatalf("unexpected revocation")
	}

	now = now.Add(2 * time.Hour)
	if revoked, _ := list.IsRevoked(ctx, "jti-1"); revoked {
		t.Fatalf("expected entry to lapse with the token")
	}
}

func TestDestinationStoreImportUpsertsByCityAndCountry(t *testing.T) {
	ctx := context.Background()
	store := NewDestinationStore(SeedDestinations())
	before, _ := store.ListDestinations(ctx)

	n, err := store.ImportDestinations(ctx, []domain.Destination{
		{City: "paris", Country: "FRANCE", Clues: []string{"updated"}},
		{City: "Oslo", Country: "Norway"},
	}, false)
	if err != nil || n != 2 {
		t.Fatalf("import: %d, %v", n, err)
	}

	after, _ := store.ListDestinations(ctx)
	if len(after) != len(before)+1 {
		t.Fatalf("expected one new destination, got %d -> %d", len(before), len(after))
	}
	paris, _ := store.GetDestination(ctx, before[0].ID)
	if len(paris.Clues) != 1 || paris.Clues[0] != "updated" {
		t.Fatalf("expected Paris to be updated in place, got %+v", paris)
	}

	_, _ = store.ImportDestinations(ctx, []domain.Destination{{City: "Oslo", Country: "Norway"}}, true)
	replaced, _ := store.ListDestinations(ctx)
	if len(replaced) != 1 {
		t.Fatalf("expected replace to clear the catalog, got %d", len(replaced))
	}
}

func TestSeedDestinationsAreValid(t *testing.T) {
	report := domain.ValidateCatalog(SeedDestinations())
	if !report.Valid() {
		t.Fatalf("seed catalog invalid: %v", report.Errors)
	}
	if report.Total < 10 {
		t.Fatalf("seed must cover a default round, got %d", report.Total)
	}
}
