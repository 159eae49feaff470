package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 20
	MinPasswordLen = 6

	minDestinationItems = 2
)

// NormalizeUsername trims surrounding whitespace and checks the length bounds.
func NormalizeUsername(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(name)
	if n < MinUsernameLen || n > MaxUsernameLen {
		return "", NewValidationError(fmt.Sprintf("username must be between %d and %d characters", MinUsernameLen, MaxUsernameLen))
	}
	return name, nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return NewValidationError(fmt.Sprintf("password must be at least %d characters", MinPasswordLen))
	}
	return nil
}

// ValidateDestination checks the structural invariants of a single record.
// Difficulty may be empty; callers default it to medium.
func ValidateDestination(d Destination) error {
	var problems []string
	if strings.TrimSpace(d.City) == "" {
		problems = append(problems, "city is required")
	}
	if strings.TrimSpace(d.Country) == "" {
		problems = append(problems, "country is required")
	}
	if !d.Continent.Valid() {
		problems = append(problems, fmt.Sprintf("invalid continent %q", d.Continent))
	}
	if len(d.Clues) < minDestinationItems {
		problems = append(problems, "at least two clues are required")
	}
	if len(d.FunFacts) < minDestinationItems {
		problems = append(problems, "at least two fun facts are required")
	}
	if len(d.Trivia) < minDestinationItems {
		problems = append(problems, "at least two trivia items are required")
	}
	if d.Difficulty != "" && !d.Difficulty.Valid() {
		problems = append(problems, fmt.Sprintf("invalid difficulty %q", d.Difficulty))
	}
	if len(problems) > 0 {
		return NewValidationError(problems...)
	}
	return nil
}

// CatalogReport is the outcome of validating a whole dataset before import.
type CatalogReport struct {
	Total      int
	Errors     []string
	Warnings   []string
	Duplicates int
}

func (r CatalogReport) Valid() bool {
	return len(r.Errors) == 0
}

// CatalogKey is the case-insensitive uniqueness key of a destination.
func CatalogKey(city, country string) string {
	return strings.ToLower(strings.TrimSpace(city)) + "," + strings.ToLower(strings.TrimSpace(country))
}

// ValidateCatalog validates every destination and the (city, country)
// uniqueness across the set. Missing fields and duplicates are errors; thin
// content and clues that give the answer away are warnings.
func ValidateCatalog(destinations []Destination) CatalogReport {
	report := CatalogReport{Total: len(destinations)}
	seen := make(map[string]struct{}, len(destinations))

	for i, d := range destinations {
		label := d.City
		if label == "" {
			label = "unnamed"
		}

		var missing []string
		if d.City == "" {
			missing = append(missing, "city")
		}
		if d.Country == "" {
			missing = append(missing, "country")
		}
		if d.Clues == nil {
			missing = append(missing, "clues")
		}
		if d.FunFacts == nil {
			missing = append(missing, "fun_fact")
		}
		if d.Trivia == nil {
			missing = append(missing, "trivia")
		}
		if len(missing) > 0 {
			report.Errors = append(report.Errors, fmt.Sprintf("destination %d (%s) is missing fields: %s", i, label, strings.Join(missing, ", ")))
		}
		if !d.Continent.Valid() {
			report.Errors = append(report.Errors, fmt.Sprintf("destination %d (%s) has invalid continent %q", i, label, d.Continent))
		}
		if d.Difficulty != "" && !d.Difficulty.Valid() {
			report.Errors = append(report.Errors, fmt.Sprintf("destination %d (%s) has invalid difficulty %q", i, label, d.Difficulty))
		}

		key := CatalogKey(d.City, d.Country)
		if _, dup := seen[key]; dup {
			report.Errors = append(report.Errors, fmt.Sprintf("duplicate city/country pair: %s, %s", d.City, d.Country))
			report.Duplicates++
		} else {
			seen[key] = struct{}{}
		}

		if d.Clues != nil && len(d.Clues) < minDestinationItems {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s, %s has fewer than 2 clues", d.City, d.Country))
		}
		if d.FunFacts != nil && len(d.FunFacts) < minDestinationItems {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s, %s has fewer than 2 fun facts", d.City, d.Country))
		}
		if d.Trivia != nil && len(d.Trivia) < minDestinationItems {
			report.Warnings = append(report.Warnings, fmt.Sprintf("%s, %s has fewer than 2 trivia items", d.City, d.Country))
		}
		if d.City != "" {
			city := strings.ToLower(d.City)
			for n, clue := range d.Clues {
				if strings.Contains(strings.ToLower(clue), city) {
					report.Warnings = append(report.Warnings, fmt.Sprintf("clue %d for %s contains the city name", n+1, d.City))
				}
			}
		}
	}
	return report
}
