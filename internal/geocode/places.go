package geocode

import (
	"context"
	"strings"

	"location-resolver/internal/models"
)

// PlaceRepository is the PostGIS lookup behind PlaceProvider.
type PlaceRepository interface {
	FindNearestPlace(ctx context.Context, lat, lon float64) (*models.Place, error)
	SearchPlaces(ctx context.Context, query string) ([]models.Place, error)
}

// PlaceProvider answers geocoding requests from the local address table instead of an
// external API, shaping rows like provider results.
type PlaceProvider struct {
	repo PlaceRepository
}

// NewPlaceProvider creates a provider over repo.
func NewPlaceProvider(repo PlaceRepository) *PlaceProvider {
	return &PlaceProvider{repo: repo}
}

// Reverse returns the nearest place as a single result, or none.
func (p *PlaceProvider) Reverse(ctx context.Context, lat, lng float64) ([]Result, error) {
	place, err := p.repo.FindNearestPlace(ctx, lat, lng)
	if err != nil {
		return nil, err
	}
	if place == nil {
		return []Result{}, nil
	}
	return []Result{PlaceResult(*place)}, nil
}

// Search returns the full-text matches for query.
func (p *PlaceProvider) Search(ctx context.Context, query string) ([]Result, error) {
	places, err := p.repo.SearchPlaces(ctx, query)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(places))
	for _, place := range places {
		results = append(results, PlaceResult(place))
	}
	return results, nil
}

// PlaceResult converts a place row into a provider-shaped result.
func PlaceResult(p models.Place) Result {
	var comps []AddressComponent
	add := func(value string, types ...string) {
		if value != "" {
			comps = append(comps, AddressComponent{Types: types, LongName: value})
		}
	}
	add(p.BlockLot, TypeStreetNumber)
	add(p.Address2, TypeRoute)
	add(p.Address1, TypeSublocality, TypeSublocality1)
	add(p.Municipality, TypeLocality)
	add(p.Prefecture, TypeAdminAreaLevel)
	add(p.PostalCode, TypePostalCode)

	formatted := p.Prefecture + p.Municipality + p.Address1 + p.Address2 + p.BlockLot
	if p.PostalCode != "" {
		formatted = strings.TrimSpace("〒" + p.PostalCode + " " + formatted)
	}

	return Result{FormattedAddress: formatted, AddressComponents: comps}
}
