package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"location-resolver/internal/geocode"
)

// ErrInvalidCoordinate is returned for a latitude or longitude outside its range.
var ErrInvalidCoordinate = errors.New("service: invalid coordinate")

// ReverseGeoCodeService contains the business logic for reverse geocoding
type ReverseGeoCodeService struct {
	provider ReverseProvider
}

// ReverseProvider is the upstream reverse lookup
type ReverseProvider interface {
	Reverse(ctx context.Context, lat, lng float64) ([]geocode.Result, error)
}

// NewReverseGeoCodeService creates a new reverse geo code service
func NewReverseGeoCodeService(provider ReverseProvider) *ReverseGeoCodeService {
	return &ReverseGeoCodeService{provider: provider}
}

// Reverse returns the addresses at the given coordinates. An empty slice means the
// provider knows no address there.
func (s *ReverseGeoCodeService) Reverse(ctx context.Context, lat, lng float64) ([]geocode.Result, error) {
	if !finite(lat) || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("%w: latitude %f", ErrInvalidCoordinate, lat)
	}
	if !finite(lng) || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("%w: longitude %f", ErrInvalidCoordinate, lng)
	}

	results, err := s.provider.Reverse(ctx, lat, lng)
	if err != nil {
		return nil, fmt.Errorf("service: failed to reverse geocode: %w", err)
	}

	return results, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
