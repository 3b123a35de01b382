package route

import (
	"context"
	"errors"

	"cargoassist/models"
)

// ErrNotFound is returned when no lane exists for an origin-destination pair.
var ErrNotFound = errors.New("route not found")

// Repository provides read-only access to route reference data.
type Repository interface {
	FindRoute(ctx context.Context, origin, destination string) (*models.Route, error)
	ListRoutes(ctx context.Context) ([]models.Route, error)
}
