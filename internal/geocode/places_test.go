package geocode

import (
	"context"
	"testing"

	"location-resolver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPlaceRepository struct {
	mock.Mock
}

func (m *MockPlaceRepository) FindNearestPlace(ctx context.Context, lat, lon float64) (*models.Place, error) {
	args := m.Called(ctx, lat, lon)
	return args.Get(0).(*models.Place), args.Error(1)
}

func (m *MockPlaceRepository) SearchPlaces(ctx context.Context, query string) ([]models.Place, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]models.Place), args.Error(1)
}

var marunouchi = models.Place{
	ID:           1,
	Prefecture:   "東京都",
	Municipality: "千代田区",
	Address1:     "丸の内",
	Address2:     "一丁目",
	BlockLot:     "9",
	PostalCode:   "100-0005",
	Latitude:     35.681236,
	Longitude:    139.767125,
}

func TestPlaceResult(t *testing.T) {
	result := PlaceResult(marunouchi)

	assert.Equal(t, "〒100-0005 東京都千代田区丸の内一丁目9", result.FormattedAddress)
	assert.Equal(t, []AddressComponent{
		{Types: []string{TypeStreetNumber}, LongName: "9"},
		{Types: []string{TypeRoute}, LongName: "一丁目"},
		{Types: []string{TypeSublocality, TypeSublocality1}, LongName: "丸の内"},
		{Types: []string{TypeLocality}, LongName: "千代田区"},
		{Types: []string{TypeAdminAreaLevel}, LongName: "東京都"},
		{Types: []string{TypePostalCode}, LongName: "100-0005"},
	}, result.AddressComponents)
}

func TestPlaceProvider_Reverse(t *testing.T) {
	t.Run("nearest place", func(t *testing.T) {
		repo := new(MockPlaceRepository)
		repo.On("FindNearestPlace", mock.Anything, 35.68, 139.76).Return(&marunouchi, nil)

		results, err := NewPlaceProvider(repo).Reverse(context.Background(), 35.68, 139.76)
		require.NoError(t, err)
		assert.Equal(t, []Result{PlaceResult(marunouchi)}, results)
		repo.AssertExpectations(t)
	})

	t.Run("nothing nearby", func(t *testing.T) {
		repo := new(MockPlaceRepository)
		repo.On("FindNearestPlace", mock.Anything, 0.5, 0.5).Return((*models.Place)(nil), nil)

		results, err := NewPlaceProvider(repo).Reverse(context.Background(), 0.5, 0.5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockPlaceRepository)
		repo.On("FindNearestPlace", mock.Anything, 1.0, 1.0).Return((*models.Place)(nil), assert.AnError)

		_, err := NewPlaceProvider(repo).Reverse(context.Background(), 1, 1)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestPlaceProvider_Search(t *testing.T) {
	repo := new(MockPlaceRepository)
	repo.On("SearchPlaces", mock.Anything, "丸の内").Return([]models.Place{marunouchi}, nil)

	results, err := NewPlaceProvider(repo).Search(context.Background(), "丸の内")
	require.NoError(t, err)
	assert.Equal(t, []Result{PlaceResult(marunouchi)}, results)
}
