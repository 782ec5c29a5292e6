package service

import (
	"context"
	"errors"
	"fmt"

	"location-resolver/internal/geocode"
)

// ErrEmptyQuery is returned when a forward search has nothing to look for.
var ErrEmptyQuery = errors.New("service: address cannot be empty")

// GeoCodeService contains the business logic for forward geocoding
type GeoCodeService struct {
	provider Searcher
}

// Searcher is the upstream forward lookup, either Google or the PostGIS place table
type Searcher interface {
	Search(ctx context.Context, query string) ([]geocode.Result, error)
}

// NewGeoCodeService creates a new geo code service
func NewGeoCodeService(provider Searcher) *GeoCodeService {
	return &GeoCodeService{provider: provider}
}

// Search finds addresses matching free text, used for manual entry suggestions
func (s *GeoCodeService) Search(ctx context.Context, query string) ([]geocode.Result, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	results, err := s.provider.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("service: failed to search addresses: %w", err)
	}

	return results, nil
}
