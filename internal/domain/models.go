package domain

import (
	"time"
)

// Continent is one of the seven continents a destination can belong to.
type Continent string

const (
	ContinentAfrica       Continent = "Africa"
	ContinentAsia         Continent = "Asia"
	ContinentEurope       Continent = "Europe"
	ContinentNorthAmerica Continent = "North America"
	ContinentSouthAmerica Continent = "South America"
	ContinentOceania      Continent = "Oceania"
	ContinentAntarctica   Continent = "Antarctica"
)

// Valid reports whether c is a known continent.
func (c Continent) Valid() bool {
	switch c {
	case ContinentAfrica, ContinentAsia, ContinentEurope, ContinentNorthAmerica,
		ContinentSouthAmerica, ContinentOceania, ContinentAntarctica:
		return true
	}
	return false
}

// Difficulty grades how hard a destination is to guess.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Points is the score awarded for a correct guess at this difficulty.
// Unknown difficulties are treated as medium.
func (d Difficulty) Points() int {
	switch d {
	case DifficultyEasy:
		return 5
	case DifficultyHard:
		return 20
	default:
		return 10
	}
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Destination is one quiz entry. (City, Country) is unique across the store.
type Destination struct {
	ID          string       `json:"id,omitempty"`
	City        string       `json:"city"`
	Country     string       `json:"country"`
	Continent   Continent    `json:"continent"`
	Clues       []string     `json:"clues"`
	FunFacts    []string     `json:"fun_fact"`
	Trivia      []string     `json:"trivia"`
	Difficulty  Difficulty   `json:"difficulty,omitempty"`
	ImageURL    string       `json:"image_url,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	DateAdded   time.Time    `json:"date_added,omitempty"`
}

// Score is the cumulative answer tally of a user.
type Score struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Total     int `json:"total"`
	Points    int `json:"points"`
}

// ScoreDelta is applied atomically by user stores after an answer.
type ScoreDelta struct {
	Correct   int
	Incorrect int
	Points    int
}

// DeltaFor returns the increment for one answered question.
func DeltaFor(correct bool, difficulty Difficulty) ScoreDelta {
	if correct {
		return ScoreDelta{Correct: 1, Points: difficulty.Points()}
	}
	return ScoreDelta{Incorrect: 1}
}

// Apply returns s with d added; Total grows by one per answer in d.
func (s Score) Apply(d ScoreDelta) Score {
	s.Correct += d.Correct
	s.Incorrect += d.Incorrect
	s.Total += d.Correct + d.Incorrect
	s.Points += d.Points
	return s
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Score        Score     `json:"score"`
	CreatedAt    time.Time `json:"created_at"`
	LastPlayed   time.Time `json:"last_played"`
}

// Identity is the verified caller of an authenticated request.
type Identity struct {
	UserID   string
	Username string
	TokenID  string
	Expires  time.Time
}

// Challenge is a shareable, time-limited token that links a visitor to the
// challenger's stats.
type Challenge struct {
	ID          string    `json:"challenge_id"`
	OwnerID     string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	TimesPlayed int       `json:"times_played"`
}

// Expired reports whether the challenge is no longer usable at now.
func (c Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// ChallengerStats is the challenger's public scoreboard shown to visitors.
type ChallengerStats struct {
	Username           string `json:"username"`
	Score              int    `json:"score"`
	CorrectAnswers     int    `json:"correctAnswers"`
	QuestionsAttempted int    `json:"questionsAttempted"`
}

// ResolvedChallenge is a challenge joined with its owner's stats.
type ResolvedChallenge struct {
	Challenge
	Challenger ChallengerStats `json:"challenger"`
}

// SortType selects the leaderboard ranking metric.
type SortType string

const (
	SortTopScores   SortType = "top-scores"
	SortMostCorrect SortType = "most-correct"
	SortMostWrong   SortType = "most-wrong"
)

// ParseSortType validates a raw sort type from a request path.
func ParseSortType(raw string) (SortType, error) {
	switch s := SortType(raw); s {
	case SortTopScores, SortMostCorrect, SortMostWrong:
		return s, nil
	}
	return "", NewValidationError("unknown leaderboard sort type " + `"` + raw + `"`)
}

// LeaderboardEntry is a derived per-user view over the user's Score.
type LeaderboardEntry struct {
	Username           string `json:"username"`
	Score              int    `json:"score"`
	CorrectAnswers     int    `json:"correctAnswers"`
	WrongAnswers       int    `json:"wrongAnswers"`
	QuestionsAttempted int    `json:"questionsAttempted"`
}

// EntryFor derives the leaderboard row of u.
func EntryFor(u User) LeaderboardEntry {
	return LeaderboardEntry{
		Username:           u.Username,
		Score:              u.Score.Points,
		CorrectAnswers:     u.Score.Correct,
		WrongAnswers:       u.Score.Incorrect,
		QuestionsAttempted: u.Score.Total,
	}
}

// Leaderboard is a ranked snapshot published to live subscribers.
type Leaderboard struct {
	Sort      SortType           `json:"sort"`
	Entries   []LeaderboardEntry `json:"entries"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// Question is an MCQ built from one destination. ID is the destination id.
type Question struct {
	ID      string   `json:"id"`
	Clues   []string `json:"clues"`
	Options []string `json:"options"`
}

// AnswerResult summarizes the outcome of a guess.
type AnswerResult struct {
	Correct bool   `json:"correct"`
	Fact    string `json:"fact"`
}

// UserStats backs the profile page counters.
type UserStats struct {
	QuestionsAttempted int `json:"questionsAttempted"`
	CorrectAnswers     int `json:"correctAnswers"`
	WrongAnswers       int `json:"wrongAnswers"`
	AverageScore       int `json:"averageScore"`
	Points             int `json:"points"`
	ActiveChallenges   int `json:"activeChallenges"`
}
