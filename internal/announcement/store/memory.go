package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"pawtrail/internal/announcement/models"
	dErrors "pawtrail/pkg/domain-errors"
)

// InMemoryStore keeps announcements in a mutex-guarded map. Handlers run
// concurrently; all reads and writes copy, so no caller ever holds a pointer
// into store internals.
type InMemoryStore struct {
	mu            sync.RWMutex
	announcements map[uuid.UUID]*models.Announcement
}

// NewInMemoryStore creates an empty in-memory announcement store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		announcements: make(map[uuid.UUID]*models.Announcement),
	}
}

func (s *InMemoryStore) Create(ctx context.Context, a *models.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.announcements[a.ID]; exists {
		return dErrors.New(dErrors.CodeConflict, "announcement already exists")
	}
	if a.MicrochipNumber != "" {
		for _, existing := range s.announcements {
			if existing.MicrochipNumber == a.MicrochipNumber {
				return dErrors.New(dErrors.CodeConflict, "an announcement with this microchip number already exists").
					WithField("microchipNumber")
			}
		}
	}
	s.announcements[a.ID] = a.Clone()
	return nil
}

func (s *InMemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.announcements[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "announcement not found")
	}
	return a.Clone(), nil
}

func (s *InMemoryStore) List(ctx context.Context, f Filter) ([]*models.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Announcement, 0, len(s.announcements))
	for _, a := range s.announcements {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, a.Clone())
	}
	// Newest first, stable across calls.
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) Update(ctx context.Context, a *models.Announcement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.announcements[a.ID]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "announcement not found")
	}
	s.announcements[a.ID] = a.Clone()
	return nil
}

func (s *InMemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.announcements[id]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "announcement not found")
	}
	delete(s.announcements, id)
	return nil
}
