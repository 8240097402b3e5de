// Package service orchestrates announcement operations. It owns the order of
// the protection pipeline for mutating requests: validation before
// persistence, and for photo uploads lookup, credential verification,
// content sniffing and the atomic swap — in that order.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pawtrail/internal/announcement/models"
	"pawtrail/internal/announcement/store"
	"pawtrail/internal/platform/metrics"
	"pawtrail/internal/platform/secrets"
	dErrors "pawtrail/pkg/domain-errors"
	"pawtrail/pkg/requestcontext"
)

// PhotoStore persists the single photo file per listing.
type PhotoStore interface {
	Save(listingID, ext string, data []byte) (string, error)
	Remove(listingID string) error
}

// PhotoSniffer validates upload bytes and derives the storage extension.
// It is the size-then-magic-bytes check from the photo package.
type PhotoSniffer func(data []byte, maxBytes int64) (string, error)

// Service holds the injected collaborators. One instance per process;
// handlers invoke it concurrently.
type Service struct {
	store         store.Store
	photos        PhotoStore
	sniff         PhotoSniffer
	photoBaseURL  string
	maxPhotoBytes int64
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

func New(
	st store.Store,
	photos PhotoStore,
	sniff PhotoSniffer,
	photoBaseURL string,
	maxPhotoBytes int64,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Service {
	return &Service{
		store:         st,
		photos:        photos,
		sniff:         sniff,
		photoBaseURL:  photoBaseURL,
		maxPhotoBytes: maxPhotoBytes,
		metrics:       m,
		logger:        logger,
	}
}

// Create validates and persists a new announcement. The returned plaintext
// management password exists only in this return value: the store sees the
// derived hash, the log sees neither.
func (s *Service) Create(ctx context.Context, req *models.CreateAnnouncementRequest) (*models.Announcement, string, error) {
	req.Normalize()
	now := requestcontext.Now(ctx)
	if err := req.Validate(now); err != nil {
		return nil, "", err
	}

	password, err := secrets.Generate()
	if err != nil {
		return nil, "", fmt.Errorf("generate management password: %w", err)
	}
	hash, err := secrets.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash management password: %w", err)
	}

	lastSeen, err := time.Parse(models.DateLayout, req.LastSeenDate)
	if err != nil {
		// Validate already parsed this value.
		return nil, "", fmt.Errorf("parse last seen date: %w", err)
	}

	a := &models.Announcement{
		ID:              uuid.New(),
		Species:         req.Species,
		Breed:           req.Breed,
		Sex:             models.Sex(req.Sex),
		Age:             req.Age,
		Description:     req.Description,
		MicrochipNumber: req.MicrochipNumber,
		LastSeenDate:    lastSeen,
		Latitude:        req.LocationLatitude,
		Longitude:       req.LocationLongitude,
		City:            req.LocationCity,
		RadiusKm:        req.LocationRadiusKm,
		Email:           req.Email,
		Phone:           req.Phone,
		PhotoURL:        req.PhotoURL,
		Status:          models.Status(req.Status),
		CredentialHash:  hash,
		CreatedAt:       now.UTC(),
		UpdatedAt:       now.UTC(),
	}

	if err := s.store.Create(ctx, a); err != nil {
		return nil, "", err
	}

	s.metrics.AnnouncementsCreated.Inc()
	s.logger.InfoContext(ctx, "announcement created",
		"request_id", requestcontext.RequestID(ctx),
		"announcement_id", a.ID,
		"species", a.Species,
	)
	return a, password, nil
}

// Get returns one announcement. A malformed id is indistinguishable from an
// unknown one.
func (s *Service) Get(ctx context.Context, rawID string) (*models.Announcement, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

// List returns announcements, optionally filtered by status.
func (s *Service) List(ctx context.Context, f store.Filter) ([]*models.Announcement, error) {
	return s.store.List(ctx, f)
}

// UploadPhoto replaces a listing's photo. The ordering is part of the
// contract: resource lookup (404) precedes credential verification (403),
// which precedes any inspection of the upload bytes. readPhoto is invoked
// only after both checks pass, so a rejected caller never causes the body
// to be consumed and its failure modes (including an over-limit body)
// never shadow the auth outcome.
func (s *Service) UploadPhoto(ctx context.Context, rawID, secret string, readPhoto func() ([]byte, error)) error {
	a, err := s.authorize(ctx, rawID, secret)
	if err != nil {
		return err
	}

	data, err := readPhoto()
	if err != nil {
		return err
	}

	ext, err := s.sniff(data, s.maxPhotoBytes)
	if err != nil {
		if de := dErrors.From(err); de != nil {
			s.metrics.PhotosRejected.WithLabelValues(string(de.Code)).Inc()
		}
		return err
	}

	filename, err := s.photos.Save(a.ID.String(), ext, data)
	if err != nil {
		return fmt.Errorf("store photo: %w", err)
	}

	// The URL field changes only after the swap succeeded; a failure above
	// leaves the previous photo authoritative.
	a.PhotoURL = s.photoBaseURL + "/" + filename
	a.UpdatedAt = requestcontext.Now(ctx).UTC()
	if err := s.store.Update(ctx, a); err != nil {
		return err
	}

	s.metrics.PhotosUploaded.Inc()
	s.logger.InfoContext(ctx, "photo replaced",
		"request_id", requestcontext.RequestID(ctx),
		"announcement_id", a.ID,
		"photo_url", a.PhotoURL,
	)
	return nil
}

// UpdateStatus marks a listing FOUND (or MISSING again), guarded by the same
// per-resource credential as photo upload.
func (s *Service) UpdateStatus(ctx context.Context, rawID, secret string, req *models.UpdateStatusRequest) (*models.Announcement, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := s.authorize(ctx, rawID, secret)
	if err != nil {
		return nil, err
	}

	a.Status = models.Status(req.Status)
	a.UpdatedAt = requestcontext.Now(ctx).UTC()
	if err := s.store.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete is the privileged maintenance path: it removes the listing and its
// photo file. Callers reach it only through the admin-token middleware.
func (s *Service) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.photos.Remove(id.String()); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove photo for deleted announcement",
			"request_id", requestcontext.RequestID(ctx),
			"announcement_id", id,
			"error", err,
		)
	}
	s.logger.InfoContext(ctx, "announcement deleted",
		"request_id", requestcontext.RequestID(ctx),
		"announcement_id", id,
	)
	return nil
}

// authorize performs the lookup-then-verify sequence shared by the
// credentialed mutations.
func (s *Service) authorize(ctx context.Context, rawID, secret string) (*models.Announcement, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	a, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !secrets.Verify(secret, a.CredentialHash) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid management password")
	}
	return a, nil
}

func parseID(rawID string) (uuid.UUID, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeNotFound, "announcement not found")
	}
	return id, nil
}
