//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"pawtrail/internal/announcement/models"
	"pawtrail/internal/announcement/store"
	dErrors "pawtrail/pkg/domain-errors"
	"pawtrail/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
	// Bootstrapping twice must be a no-op.
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "announcements")
	s.Require().NoError(err)
}

func newTestAnnouncement(microchip string) *models.Announcement {
	age := 4
	lat, lng := 52.0, 21.0
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Announcement{
		ID:              uuid.New(),
		Species:         "DOG",
		Breed:           "Beagle",
		Sex:             models.SexMale,
		Age:             &age,
		Description:     "last seen near the park",
		MicrochipNumber: microchip,
		LastSeenDate:    time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Latitude:        &lat,
		Longitude:       &lng,
		Email:           "owner@example.com",
		Phone:           "48123456789",
		Status:          models.StatusMissing,
		CredentialHash:  "00ff:aa11",
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (s *PostgresStoreSuite) TestCreateAndGetRoundTrip() {
	ctx := context.Background()
	a := newTestAnnouncement("985112003456789")
	s.Require().NoError(s.store.Create(ctx, a))

	got, err := s.store.GetByID(ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(a.ID, got.ID)
	s.Equal(a.Species, got.Species)
	s.Equal(a.Sex, got.Sex)
	s.Equal(*a.Age, *got.Age)
	s.Equal(a.MicrochipNumber, got.MicrochipNumber)
	s.Equal(a.LastSeenDate.Format(models.DateLayout), got.LastSeenDate.Format(models.DateLayout))
	s.Equal(*a.Latitude, *got.Latitude)
	s.Equal(*a.Longitude, *got.Longitude)
	s.Nil(got.RadiusKm)
	s.Equal(a.Email, got.Email)
	s.Equal(a.Phone, got.Phone)
	s.Equal(a.Status, got.Status)
	s.Equal(a.CredentialHash, got.CredentialHash)
}

func (s *PostgresStoreSuite) TestGetUnknownIDIsNotFound() {
	_, err := s.store.GetByID(context.Background(), uuid.New())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *PostgresStoreSuite) TestDuplicateMicrochipConflicts() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestAnnouncement("985112003456789")))

	err := s.store.Create(ctx, newTestAnnouncement("985112003456789"))
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *PostgresStoreSuite) TestEmptyMicrochipsNeverCollide() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestAnnouncement("")))
	s.Require().NoError(s.store.Create(ctx, newTestAnnouncement("")))
}

// TestConcurrentDuplicateMicrochip verifies that racing creations of the same
// microchip number result in exactly one success.
func (s *PostgresStoreSuite) TestConcurrentDuplicateMicrochip() {
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := s.store.Create(ctx, newTestAnnouncement("985112009999999"))
			if err == nil {
				successCount.Add(1)
			} else if dErrors.HasCode(err, dErrors.CodeConflict) {
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one create should succeed")
	s.Equal(int32(goroutines-1), conflictCount.Load(), "all others should conflict")
}

func (s *PostgresStoreSuite) TestListNewestFirstAndStatusFilter() {
	ctx := context.Background()

	older := newTestAnnouncement("")
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	s.Require().NoError(s.store.Create(ctx, older))

	newer := newTestAnnouncement("")
	newer.Status = models.StatusFound
	s.Require().NoError(s.store.Create(ctx, newer))

	all, err := s.store.List(ctx, store.Filter{})
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(newer.ID, all[0].ID)
	s.Equal(older.ID, all[1].ID)

	found, err := s.store.List(ctx, store.Filter{Status: models.StatusFound})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal(newer.ID, found[0].ID)
}

func (s *PostgresStoreSuite) TestUpdatePersistsPhotoURLAndStatus() {
	ctx := context.Background()
	a := newTestAnnouncement("")
	s.Require().NoError(s.store.Create(ctx, a))

	a.PhotoURL = "/photos/" + a.ID.String() + ".jpg"
	a.Status = models.StatusFound
	a.UpdatedAt = time.Now().UTC()
	s.Require().NoError(s.store.Update(ctx, a))

	got, err := s.store.GetByID(ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(a.PhotoURL, got.PhotoURL)
	s.Equal(models.StatusFound, got.Status)
}

func (s *PostgresStoreSuite) TestUpdateUnknownIDIsNotFound() {
	err := s.store.Update(context.Background(), newTestAnnouncement(""))
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *PostgresStoreSuite) TestDelete() {
	ctx := context.Background()
	a := newTestAnnouncement("")
	s.Require().NoError(s.store.Create(ctx, a))

	s.Require().NoError(s.store.Delete(ctx, a.ID))

	_, err := s.store.GetByID(ctx, a.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	err = s.store.Delete(ctx, a.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
