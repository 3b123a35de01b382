package booking

import (
	"context"
	"errors"
	"time"

	"cargoassist/models"
)

var (
	// ErrNotFound is returned when no booking exists for a reference.
	ErrNotFound = errors.New("booking not found")
	// ErrConflict is returned when a status transition is not allowed from
	// the booking's current status.
	ErrConflict = errors.New("booking status conflict")
)

// Repository is the booking store contract. Lookups are idempotent and
// UpdateStatus applies a transition atomically, checked against the current
// status, so concurrent sessions cannot corrupt a record.
type Repository interface {
	Create(ctx context.Context, b *models.Booking) error
	FindByBookingID(ctx context.Context, bookingID string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, from []models.BookingStatus, to models.BookingStatus) (*models.Booking, error)
	List(ctx context.Context, status models.BookingStatus, limit int64) ([]models.Booking, error)
	ArchiveCancelledBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
