package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"globetrotter/internal/domain"
)

// content is the JSONB payload of a destination row.
type content struct {
	Clues       []string            `json:"clues"`
	FunFacts    []string            `json:"fun_fact"`
	Trivia      []string            `json:"trivia"`
	ImageURL    string              `json:"image_url,omitempty"`
	Coordinates *domain.Coordinates `json:"coordinates,omitempty"`
}

// DestinationStore reads and imports destinations in Postgres.
type DestinationStore struct {
	pool *pgxpool.Pool
}

func NewDestinationStore(pool *pgxpool.Pool) *DestinationStore {
	return &DestinationStore{pool: pool}
}

const selectDestinations = `SELECT id, city, country, continent, difficulty, content, date_added FROM destinations`

func (s *DestinationStore) ListDestinations(ctx context.Context) ([]domain.Destination, error) {
	rows, err := s.pool.Query(ctx, selectDestinations+` ORDER BY date_added, id`)
	if err != nil {
		return nil, domain.Upstream("postgres list destinations", err)
	}
	defer rows.Close()

	var out []domain.Destination
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Upstream("postgres list destinations", err)
	}
	return out, nil
}

func (s *DestinationStore) GetDestination(ctx context.Context, id string) (domain.Destination, error) {
	d, err := scanDestination(s.pool.QueryRow(ctx, selectDestinations+` WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Destination{}, domain.ErrQuestionNotFound
	}
	return d, err
}

// ImportDestinations upserts by lower(city), lower(country) in one
// transaction. With replace set the table is emptied first.
func (s *DestinationStore) ImportDestinations(ctx context.Context, destinations []domain.Destination, replace bool) (int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, domain.Upstream("postgres begin import", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if replace {
		if _, err := tx.Exec(ctx, `DELETE FROM destinations`); err != nil {
			return 0, domain.Upstream("postgres clear destinations", err)
		}
	}

	now := time.Now().UTC()
	for _, d := range destinations {
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		if d.Difficulty == "" {
			d.Difficulty = domain.DifficultyMedium
		}
		if d.DateAdded.IsZero() {
			d.DateAdded = now
		}
		raw, err := json.Marshal(content{
			Clues:       d.Clues,
			FunFacts:    d.FunFacts,
			Trivia:      d.Trivia,
			ImageURL:    d.ImageURL,
			Coordinates: d.Coordinates,
		})
		if err != nil {
			return 0, fmt.Errorf("marshal destination %s: %w", d.City, err)
		}
		_, err = tx.Exec(ctx, `
INSERT INTO destinations (id, city, country, continent, difficulty, content, date_added)
VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)
ON CONFLICT ((lower(city)), (lower(country))) DO UPDATE SET
    continent = EXCLUDED.continent,
    difficulty = EXCLUDED.difficulty,
    content = EXCLUDED.content`,
			d.ID, strings.TrimSpace(d.City), strings.TrimSpace(d.Country), string(d.Continent), string(d.Difficulty), string(raw), d.DateAdded)
		if err != nil {
			return 0, domain.Upstream("postgres upsert destination", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, domain.Upstream("postgres commit import", err)
	}
	return len(destinations), nil
}

func scanDestination(row pgx.Row) (domain.Destination, error) {
	var (
		d                     domain.Destination
		continent, difficulty string
		raw                   []byte
	)
	if err := row.Scan(&d.ID, &d.City, &d.Country, &continent, &difficulty, &raw, &d.DateAdded); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Destination{}, err
		}
		return domain.Destination{}, domain.Upstream("postgres scan destination", err)
	}
	var c content
	if err := json.Unmarshal(raw, &c); err != nil {
		return domain.Destination{}, fmt.Errorf("unmarshal destination %s: %w", d.ID, err)
	}
	d.Continent = domain.Continent(continent)
	d.Difficulty = domain.Difficulty(difficulty)
	d.Clues, d.FunFacts, d.Trivia = c.Clues, c.FunFacts, c.Trivia
	d.ImageURL, d.Coordinates = c.ImageURL, c.Coordinates
	d.DateAdded = d.DateAdded.UTC()
	return d, nil
}

// Ping is used by the health checker.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}
