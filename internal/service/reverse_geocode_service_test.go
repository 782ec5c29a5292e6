package service

import (
	"context"
	"math"
	"testing"

	"location-resolver/internal/geocode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReverseProvider is a mock implementation of the ReverseProvider interface
type MockReverseProvider struct {
	mock.Mock
}

func (m *MockReverseProvider) Reverse(ctx context.Context, lat float64, lng float64) ([]geocode.Result, error) {
	args := m.Called(ctx, lat, lng)
	return args.Get(0).([]geocode.Result), args.Error(1)
}

func TestReverseGeoCodeService_Reverse(t *testing.T) {
	upstream := &geocode.UpstreamError{Status: "REQUEST_DENIED", Message: "API keys with referer restrictions cannot be used with this API."}

	tests := []struct {
		name        string
		lat         float64
		lng         float64
		mockResults []geocode.Result
		mockError   error
		expected    []geocode.Result
		expectedErr error
	}{
		{
			name:        "latitude out of range",
			lat:         91,
			lng:         139.767125,
			expectedErr: ErrInvalidCoordinate,
		},
		{
			name:        "longitude out of range",
			lat:         35.681236,
			lng:         -181,
			expectedErr: ErrInvalidCoordinate,
		},
		{
			name:        "latitude not a number",
			lat:         math.NaN(),
			lng:         139.767125,
			expectedErr: ErrInvalidCoordinate,
		},
		{
			name:        "longitude not a number",
			lat:         35.681236,
			lng:         math.NaN(),
			expectedErr: ErrInvalidCoordinate,
		},
		{
			name:        "infinite latitude",
			lat:         math.Inf(1),
			lng:         139.767125,
			expectedErr: ErrInvalidCoordinate,
		},
		{
			name:        "infinite longitude",
			lat:         35.681236,
			lng:         math.Inf(-1),
			expectedErr: ErrInvalidCoordinate,
		},
		{
			name:        "successful lookup with results",
			lat:         35.681236,
			lng:         139.767125,
			mockResults: []geocode.Result{marunouchi},
			expected:    []geocode.Result{marunouchi},
		},
		{
			name:        "successful lookup with no results",
			lat:         0,
			lng:         0,
			mockResults: []geocode.Result{},
			expected:    []geocode.Result{},
		},
		{
			name:        "upstream error is kept",
			lat:         35.681236,
			lng:         139.767125,
			mockError:   upstream,
			expectedErr: upstream,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			provider := new(MockReverseProvider)
			service := NewReverseGeoCodeService(provider)

			callsProvider := tt.expectedErr != ErrInvalidCoordinate
			if callsProvider {
				provider.On("Reverse", mock.Anything, tt.lat, tt.lng).Return(tt.mockResults, tt.mockError)
			}

			// Execute
			result, err := service.Reverse(context.Background(), tt.lat, tt.lng)

			// Assert
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}

			if callsProvider {
				provider.AssertExpectations(t)
			} else {
				provider.AssertNotCalled(t, "Reverse", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
