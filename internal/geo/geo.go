// Package geo provides the one-shot device position reading taken when the
// user grants camera access. The reading is best effort: denial or absence
// never blocks the capture step.
package geo

import (
	"context"
	"errors"

	"cropproof/internal/domain"
)

// ErrUnavailable means no position could be read.
var ErrUnavailable = errors.New("geo: position unavailable")

// Locator reads the current device position once.
type Locator interface {
	Current(ctx context.Context) (domain.GeoPoint, error)
}

// Static always returns a fixed point. Used when the operator supplies
// coordinates by hand and in tests.
type Static struct {
	Point domain.GeoPoint
}

func (s Static) Current(ctx context.Context) (domain.GeoPoint, error) {
	return s.Point, nil
}

// None models a device without location access.
type None struct{}

func (None) Current(ctx context.Context) (domain.GeoPoint, error) {
	return domain.GeoPoint{}, ErrUnavailable
}
