package domain

import (
	"errors"
	"testing"
	"time"
)

func TestValidateDestination(t *testing.T) {
	ok := sampleDestination("Paris", "France")
	if err := ValidateDestination(ok); err != nil {
		t.Fatalf("expected valid destination, got %v", err)
	}

	bad := Destination{City: "Nowhere", Continent: "Atlantis", Clues: []string{"one"}, Difficulty: "brutal"}
	err := ValidateDestination(bad)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	// country, continent, clues, facts, trivia, difficulty
	if len(verr.Problems) != 6 {
		t.Fatalf("expected 6 problems, got %d: %v", len(verr.Problems), verr.Problems)
	}
}

func TestValidateCatalogDuplicatesAreCaseInsensitive(t *testing.T) {
	report := ValidateCatalog([]Destination{
		sampleDestination("Paris", "France"),
		sampleDestination("paris", "FRANCE"),
		sampleDestination("Lyon", "France"),
	})
	if report.Valid() {
		t.Fatalf("expected duplicate to invalidate catalog")
	}
	if report.Duplicates != 1 {
		t.Fatalf("expected 1 duplicate, got %d", report.Duplicates)
	}
	if report.Total != 3 {
		t.Fatalf("expected total 3, got %d", report.Total)
	}
}

func TestValidateCatalogWarnings(t *testing.T) {
	d := sampleDestination("Rome", "Italy")
	d.Clues = []string{"All roads lead to Rome"}
	report := ValidateCatalog([]Destination{d})
	if !report.Valid() {
		t.Fatalf("expected no errors, got %v", report.Errors)
	}
	if len(report.Warnings) != 2 {
		t.Fatalf("expected short-clue and giveaway warnings, got %v", report.Warnings)
	}
}

func TestNormalizeUsername(t *testing.T) {
	name, err := NormalizeUsername("  alice ")
	if err != nil || name != "alice" {
		t.Fatalf("expected alice, got %q (%v)", name, err)
	}
	for _, raw := range []string{"ab", "  ab  ", "abcdefghijklmnopqrstu"} {
		if _, err := NormalizeUsername(raw); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected validation error for %q, got %v", raw, err)
		}
	}
}

func TestChallengeExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Challenge{CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if c.Expired(now) {
		t.Fatalf("fresh challenge reported expired")
	}
	if !c.Expired(now.Add(time.Hour)) {
		t.Fatalf("challenge at expiry instant should be expired")
	}
}

func TestScoreApply(t *testing.T) {
	s := Score{}.Apply(DeltaFor(true, DifficultyHard)).Apply(DeltaFor(false, DifficultyEasy))
	if s.Correct != 1 || s.Incorrect != 1 || s.Total != 2 || s.Points != 20 {
		t.Fatalf("unexpected score %+v", s)
	}
}

func TestParseSortType(t *testing.T) {
	if s, err := ParseSortType("most-wrong"); err != nil || s != SortMostWrong {
		t.Fatalf("expected most-wrong, got %q (%v)", s, err)
	}
	if _, err := ParseSortType("fastest"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func sampleDestination(city, country string) Destination {
	return Destination{
		City:       city,
		Country:    country,
		Continent:  ContinentEurope,
		Clues:      []string{"clue one", "clue two"},
		FunFacts:   []string{"fact one", "fact two"},
		Trivia:     []string{"trivia one", "trivia two"},
		Difficulty: DifficultyMedium,
	}
}
