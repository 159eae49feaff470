package app

import (
	"math/rand"

	"globetrotter/internal/domain"
)

// BuildQuestions samples count destinations from pool without replacement and
// turns each into a multiple-choice question. Options hold the correct city
// once plus up to optionCount-1 distinct distractor cities taken from other
// destinations, shuffled. rnd is the only source of randomness.
func BuildQuestions(rnd *rand.Rand, pool []domain.Destination, count, optionCount int) ([]domain.Question, error) {
	if count <= 0 {
		return nil, domain.NewValidationError("question count must be positive")
	}
	if optionCount < 1 {
		optionCount = 1
	}
	if len(pool) < count {
		return nil, domain.ErrInsufficientData
	}

	cities := distinctCities(pool)
	picks := rnd.Perm(len(pool))[:count]

	questions := make([]domain.Question, 0, count)
	for _, idx := range picks {
		dest := pool[idx]
		questions = append(questions, domain.Question{
			ID:      dest.ID,
			Clues:   append([]string(nil), dest.Clues...),
			Options: buildOptions(rnd, dest.City, cities, optionCount),
		})
	}
	return questions, nil
}

func buildOptions(rnd *rand.Rand, correct string, cities []string, optionCount int) []string {
	candidates := make([]string, 0, len(cities))
	for _, city := range cities {
		if city != correct {
			candidates = append(candidates, city)
		}
	}

	want := optionCount - 1
	if want > len(candidates) {
		want = len(candidates)
	}

	options := make([]string, 0, want+1)
	options = append(options, correct)
	for _, i := range rnd.Perm(len(candidates))[:want] {
		options = append(options, candidates[i])
	}
	rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// distinctCities keeps the first occurrence of every city name so that two
// destinations sharing a city never produce duplicate options.
func distinctCities(pool []domain.Destination) []string {
	seen := make(map[string]struct{}, len(pool))
	cities := make([]string, 0, len(pool))
	for _, d := range pool {
		if _, ok := seen[d.City]; ok {
			continue
		}
		seen[d.City] = struct{}{}
		cities = append(cities, d.City)
	}
	return cities
}
