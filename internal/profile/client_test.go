package profile

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"location-resolver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var snap = models.Snapshot{
	Location: models.LocationRecord{
		City:             "Bengaluru",
		State:            "Karnataka",
		Pincode:          "560001",
		FormattedAddress: "MG Road, Bengaluru, Karnataka 560001",
		Lat:              models.Float(12.9756),
		Lng:              models.Float(77.6067),
	},
	Version: 1700000000000,
}

func token() string { return "secret-token" }

func TestClient_Fetch(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expected    *models.Snapshot
		expectedErr string
	}{
		{
			name:     "saved location",
			status:   http.StatusOK,
			body:     `{"location":{"city":"Bengaluru","state":"Karnataka","pincode":"560001","formattedAddress":"MG Road, Bengaluru, Karnataka 560001","lat":12.9756,"lng":77.6067},"version":1700000000000}`,
			expected: &snap,
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			body:   `{"error":"no location saved"}`,
		},
		{
			name:   "empty location",
			status: http.StatusOK,
			body:   `{"location":{},"version":0}`,
		},
		{
			name:        "unauthorized",
			status:      http.StatusUnauthorized,
			body:        `{"error":"token expired"}`,
			expectedErr: "profile: status 401: token expired",
		},
		{
			name:        "server error without body",
			status:      http.StatusInternalServerError,
			expectedErr: "profile: status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/api/v1/profile/location", r.URL.Path)
				assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := NewClient(srv.URL+"/", token, srv.Client()).Fetch(context.Background(), "user-1")
			if tt.expectedErr != "" {
				assert.EqualError(t, err, tt.expectedErr)
				var serr *StatusError
				assert.ErrorAs(t, err, &serr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClient_Merge(t *testing.T) {
	var received models.Snapshot
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, token, srv.Client()).Merge(context.Background(), "user-1", snap)
	require.NoError(t, err)
	assert.Equal(t, snap, received)
}

func TestClient_MergeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"location record requires city, state, pincode and formatted address"}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, token, srv.Client()).Merge(context.Background(), "user-1", snap)
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusBadRequest, serr.StatusCode)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewClient(srv.URL, nil, nil).Fetch(context.Background(), "user-1")
	assert.ErrorContains(t, err, "profile: request failed")
}
