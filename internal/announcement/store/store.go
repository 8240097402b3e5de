// Package store persists announcements. Two implementations share one
// interface: an in-memory store backing tests and local development, and a
// PostgreSQL store for production.
package store

import (
	"context"

	"github.com/google/uuid"

	"pawtrail/internal/announcement/models"
)

// Filter narrows List results.
type Filter struct {
	// Status filters by listing status when non-empty.
	Status models.Status
}

// Store is the announcement repository. Implementations return domain errors
// for the conditions callers branch on: CodeNotFound for unknown ids and
// CodeConflict for a duplicate microchip number.
type Store interface {
	Create(ctx context.Context, a *models.Announcement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error)
	List(ctx context.Context, f Filter) ([]*models.Announcement, error)
	Update(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id uuid.UUID) error
}
