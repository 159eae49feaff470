package mongo

import (
	"time"

	"globetrotter/internal/domain"
)

type coordinatesDoc struct {
	Lat float64 `bson:"lat"`
	Lng float64 `bson:"lng"`
}

type destinationDoc struct {
	ID          string          `bson:"_id"`
	City        string          `bson:"city"`
	Country     string          `bson:"country"`
	Continent   string          `bson:"continent"`
	Clues       []string        `bson:"clues"`
	FunFacts    []string        `bson:"fun_fact"`
	Trivia      []string        `bson:"trivia"`
	Difficulty  string          `bson:"difficulty"`
	ImageURL    string          `bson:"image_url,omitempty"`
	Coordinates *coordinatesDoc `bson:"coordinates,omitempty"`
	DateAdded   time.Time       `bson:"date_added"`
}

func toDestinationDoc(d domain.Destination) destinationDoc {
	doc := destinationDoc{
		ID:         d.ID,
		City:       d.City,
		Country:    d.Country,
		Continent:  string(d.Continent),
		Clues:      d.Clues,
		FunFacts:   d.FunFacts,
		Trivia:     d.Trivia,
		Difficulty: string(d.Difficulty),
		ImageURL:   d.ImageURL,
		DateAdded:  d.DateAdded,
	}
	if doc.Difficulty == "" {
		doc.Difficulty = string(domain.DifficultyMedium)
	}
	if d.Coordinates != nil {
		doc.Coordinates = &coordinatesDoc{Lat: d.Coordinates.Lat, Lng: d.Coordinates.Lng}
	}
	return doc
}

func (doc destinationDoc) toDomain() domain.Destination {
	d := domain.Destination{
		ID:         doc.ID,
		City:       doc.City,
		Country:    doc.Country,
		Continent:  domain.Continent(doc.Continent),
		Clues:      doc.Clues,
		FunFacts:   doc.FunFacts,
		Trivia:     doc.Trivia,
		Difficulty: domain.Difficulty(doc.Difficulty),
		ImageURL:   doc.ImageURL,
		DateAdded:  doc.DateAdded,
	}
	if doc.Coordinates != nil {
		d.Coordinates = &domain.Coordinates{Lat: doc.Coordinates.Lat, Lng: doc.Coordinates.Lng}
	}
	return d
}

type scoreDoc struct {
	Correct   int `bson:"correct"`
	Incorrect int `bson:"incorrect"`
	Total     int `bson:"total"`
	Points    int `bson:"points"`
}

type userDoc struct {
	ID           string    `bson:"_id"`
	Username     string    `bson:"username"`
	PasswordHash string    `bson:"password_hash"`
	Score        scoreDoc  `bson:"score"`
	CreatedAt    time.Time `bson:"created_at"`
	LastPlayed   time.Time `bson:"last_played"`
}

func toUserDoc(u domain.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Score:        scoreDoc(u.Score),
		CreatedAt:    u.CreatedAt,
		LastPlayed:   u.LastPlayed,
	}
}

func (doc userDoc) toDomain() domain.User {
	return domain.User{
		ID:           doc.ID,
		Username:     doc.Username,
		PasswordHash: doc.PasswordHash,
		Score:        domain.Score(doc.Score),
		CreatedAt:    doc.CreatedAt.UTC(),
		LastPlayed:   doc.LastPlayed.UTC(),
	}
}

type challengeDoc struct {
	ID          string    `bson:"_id"`
	Challenger  string    `bson:"challenger"`
	CreatedAt   time.Time `bson:"created_at"`
	ExpiresAt   time.Time `bson:"expires_at"`
	TimesPlayed int       `bson:"times_played"`
}

func toChallengeDoc(c domain.Challenge) challengeDoc {
	return challengeDoc{
		ID:          c.ID,
		Challenger:  c.OwnerID,
		CreatedAt:   c.CreatedAt,
		ExpiresAt:   c.ExpiresAt,
		TimesPlayed: c.TimesPlayed,
	}
}

func (doc challengeDoc) toDomain() domain.Challenge {
	return domain.Challenge{
		ID:          doc.ID,
		OwnerID:     doc.Challenger,
		CreatedAt:   doc.CreatedAt.UTC(),
		ExpiresAt:   doc.ExpiresAt.UTC(),
		TimesPlayed: doc.TimesPlayed,
	}
}
