package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"globetrotter/internal/domain"
)

// DestinationStore is an in-memory destination catalog keyed by id, with the
// (city, country) pair kept unique. Useful for tests/demos.
type DestinationStore struct {
	mu    sync.RWMutex
	byID  map[string]domain.Destination
	byKey map[string]string
	order []string
}

func NewDestinationStore(seed []domain.Destination) *DestinationStore {
	s := &DestinationStore{
		byID:  make(map[string]domain.Destination),
		byKey: make(map[string]string),
	}
	for _, d := range seed {
		s.upsertLocked(d)
	}
	return s
}

func (s *DestinationStore) ListDestinations(_ context.Context) ([]domain.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Destination, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *DestinationStore) GetDestination(_ context.Context, id string) (domain.Destination, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.byID[id]; ok {
		return d, nil
	}
	return domain.Destination{}, domain.ErrQuestionNotFound
}

// ImportDestinations upserts by (city, country). With replace set the catalog
// is cleared first.
func (s *DestinationStore) ImportDestinations(_ context.Context, destinations []domain.Destination, replace bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if replace {
		s.byID = make(map[string]domain.Destination)
		s.byKey = make(map[string]string)
		s.order = nil
	}
	for _, d := range destinations {
		s.upsertLocked(d)
	}
	return len(destinations), nil
}

func (s *DestinationStore) upsertLocked(d domain.Destination) {
	key := domain.CatalogKey(d.City, d.Country)
	if existing, ok := s.byKey[key]; ok {
		d.ID = existing
		s.byID[existing] = d
		return
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	s.byID[d.ID] = d
	s.byKey[key] = d.ID
	s.order = append(s.order, d.ID)
}
