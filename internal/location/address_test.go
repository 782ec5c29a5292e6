package location

import (
	"context"
	"testing"

	"location-resolver/internal/geocode"
	"location-resolver/internal/models"
	"location-resolver/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func component(name string, types ...string) geocode.AddressComponent {
	return geocode.AddressComponent{Types: types, LongName: name}
}

func TestResolver_ResolveAddress(t *testing.T) {
	const lat, lng = 12.9716, 77.5946

	tests := []struct {
		name        string
		response    *geocode.Response
		clientErr   error
		expected    models.LocationRecord
		expectedErr string
	}{
		{
			name: "street number then route",
			response: &geocode.Response{Results: []geocode.Result{{
				FormattedAddress: "221B Baker St, London",
				AddressComponents: []geocode.AddressComponent{
					component("221B", "street_number"),
					component("Baker Street", "route"),
				},
			}}},
			expected: models.LocationRecord{
				Street:           "221B Baker Street",
				FormattedAddress: "221B Baker St, London",
				Lat:              models.Float(lat),
				Lng:              models.Float(lng),
			},
		},
		{
			name: "full component table",
			response: &geocode.Response{Results: []geocode.Result{
				{
					FormattedAddress: "12, MG Road, Shanthala Nagar, Bengaluru, Karnataka 560001, India",
					AddressComponents: []geocode.AddressComponent{
						component("MG Road", "route"),
						component("Ashok Nagar", "sublocality", "political"),
						component("Shanthala Nagar", "sublocality_level_1", "sublocality", "political"),
						component("Bengaluru", "locality", "political"),
						component("Bangalore Urban", "administrative_area_level_2", "political"),
						component("Karnataka", "administrative_area_level_1", "political"),
						component("India", "country", "political"),
						component("560001", "postal_code"),
					},
				},
				{FormattedAddress: "ignored second candidate"},
			}},
			expected: models.LocationRecord{
				Street:           "MG Road",
				Area:             "Shanthala Nagar",
				City:             "Bengaluru",
				State:            "Karnataka",
				Pincode:          "560001",
				FormattedAddress: "12, MG Road, Shanthala Nagar, Bengaluru, Karnataka 560001, India",
				Lat:              models.Float(lat),
				Lng:              models.Float(lng),
			},
		},
		{
			name:        "no results",
			response:    &geocode.Response{Results: []geocode.Result{}},
			expectedErr: "No address found for this location",
		},
		{
			name:        "proxy error passes through",
			response:    &geocode.Response{Error: "Geocoding quota exceeded"},
			expectedErr: "Geocoding quota exceeded",
		},
		{
			name:        "transport failure",
			response:    (*geocode.Response)(nil),
			clientErr:   assert.AnError,
			expectedErr: assert.AnError.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(MockAddressClient)
			client.On("Reverse", mock.Anything, lat, lng).Return(tt.response, tt.clientErr)

			r := New(Deps{Addresses: client, Local: store.NewMemoryStore()})
			rec, err := r.ResolveAddress(context.Background(), lat, lng)

			if tt.expectedErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrAddressResolution)
				assert.EqualError(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, rec)
			client.AssertExpectations(t)
		})
	}
}

func TestResolver_ResolveAddressDoesNotPersist(t *testing.T) {
	client := new(MockAddressClient)
	client.On("Reverse", mock.Anything, 1.0, 2.0).Return(&geocode.Response{Results: []geocode.Result{{
		FormattedAddress:  "somewhere",
		AddressComponents: []geocode.AddressComponent{component("Town", "locality")},
	}}}, nil)

	local := store.NewMemoryStore()
	r := New(Deps{Addresses: client, Local: local})

	_, err := r.ResolveAddress(context.Background(), 1, 2)
	require.NoError(t, err)

	_, ok, err := local.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	_, known := r.Current()
	assert.False(t, known)
}
