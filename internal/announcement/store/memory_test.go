package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawtrail/internal/announcement/models"
	dErrors "pawtrail/pkg/domain-errors"
)

func newAnnouncement(t *testing.T) *models.Announcement {
	t.Helper()
	now := time.Now().UTC()
	return &models.Announcement{
		ID:             uuid.New(),
		Species:        "DOG",
		Sex:            models.SexMale,
		LastSeenDate:   now.AddDate(0, 0, -3),
		Phone:          "48123456789",
		Status:         models.StatusMissing,
		CredentialHash: "00112233:aabbccdd",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func TestCreateAndGet(t *testing.T) {
	s := NewInMemoryStore()
	a := newAnnouncement(t)

	require.NoError(t, s.Create(context.Background(), a))

	got, err := s.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "DOG", got.Species)
}

func TestGetUnknownIDIsNotFound(t *testing.T) {
	s := NewInMemoryStore()
	_, err := s.GetByID(context.Background(), uuid.New())
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestDuplicateMicrochipConflicts(t *testing.T) {
	s := NewInMemoryStore()
	first := newAnnouncement(t)
	first.MicrochipNumber = "978000000000001"
	require.NoError(t, s.Create(context.Background(), first))

	second := newAnnouncement(t)
	second.MicrochipNumber = "978000000000001"
	err := s.Create(context.Background(), second)
	assert.True(t, dErrors.Is(err, dErrors.CodeConflict))

	// Empty microchip numbers never collide.
	third := newAnnouncement(t)
	fourth := newAnnouncement(t)
	require.NoError(t, s.Create(context.Background(), third))
	require.NoError(t, s.Create(context.Background(), fourth))
}

func TestStoreReturnsCopies(t *testing.T) {
	s := NewInMemoryStore()
	a := newAnnouncement(t)
	require.NoError(t, s.Create(context.Background(), a))

	// Mutating what the caller handed in or got back must not leak inside.
	a.Species = "CAT"
	got, err := s.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "DOG", got.Species)

	got.Species = "PARROT"
	again, err := s.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "DOG", again.Species)
}

func TestListFiltersByStatus(t *testing.T) {
	s := NewInMemoryStore()
	missing := newAnnouncement(t)
	require.NoError(t, s.Create(context.Background(), missing))

	found := newAnnouncement(t)
	found.Status = models.StatusFound
	require.NoError(t, s.Create(context.Background(), found))

	all, err := s.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyFound, err := s.List(context.Background(), Filter{Status: models.StatusFound})
	require.NoError(t, err)
	require.Len(t, onlyFound, 1)
	assert.Equal(t, found.ID, onlyFound[0].ID)
}

func TestListOrdersNewestFirst(t *testing.T) {
	s := NewInMemoryStore()
	older := newAnnouncement(t)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := newAnnouncement(t)
	require.NoError(t, s.Create(context.Background(), older))
	require.NoError(t, s.Create(context.Background(), newer))

	got, err := s.List(context.Background(), Filter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
}

func TestUpdateAndDelete(t *testing.T) {
	s := NewInMemoryStore()
	a := newAnnouncement(t)
	require.NoError(t, s.Create(context.Background(), a))

	a.PhotoURL = "/photos/" + a.ID.String() + ".jpg"
	a.Status = models.StatusFound
	require.NoError(t, s.Update(context.Background(), a))

	got, err := s.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFound, got.Status)
	assert.NotEmpty(t, got.PhotoURL)

	require.NoError(t, s.Delete(context.Background(), a.ID))
	_, err = s.GetByID(context.Background(), a.ID)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))

	assert.True(t, dErrors.Is(s.Delete(context.Background(), a.ID), dErrors.CodeNotFound))
	assert.True(t, dErrors.Is(s.Update(context.Background(), a), dErrors.CodeNotFound))
}

func TestConcurrentAccessAcrossListings(t *testing.T) {
	s := NewInMemoryStore()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a := newAnnouncement(t)
			if err := s.Create(context.Background(), a); err != nil {
				t.Error(err)
				return
			}
			if _, err := s.GetByID(context.Background(), a.ID); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	all, err := s.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 50)
}
