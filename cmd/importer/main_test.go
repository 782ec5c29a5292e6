package main

import (
	"strings"
	"testing"

	"location-resolver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "prefecture,municipality,address_1,address_2,block_lot,a,b,c,d,lat,lon,postal_code\n"

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    []models.Place
		expectedErr string
	}{
		{
			name:  "with postal code",
			input: header + "東京都,千代田区,丸の内,一丁目,1,,,,,35.681236,139.767125,100-0005\n",
			expected: []models.Place{{
				Prefecture:   "東京都",
				Municipality: "千代田区",
				Address1:     "丸の内",
				Address2:     "一丁目",
				BlockLot:     "1",
				PostalCode:   "100-0005",
				Latitude:     35.681236,
				Longitude:    139.767125,
			}},
		},
		{
			name:  "without postal code",
			input: header + "大阪府,大阪市北区,梅田,三丁目,2,,,,,34.7025,135.4959\n",
			expected: []models.Place{{
				Prefecture:   "大阪府",
				Municipality: "大阪市北区",
				Address1:     "梅田",
				Address2:     "三丁目",
				BlockLot:     "2",
				Latitude:     34.7025,
				Longitude:    135.4959,
			}},
		},
		{
			name:  "header only",
			input: header,
		},
		{
			name:        "short record",
			input:       header + "東京都,千代田区\n",
			expectedErr: "line 2: invalid record length 2, expected at least 11 columns",
		},
		{
			name:        "bad latitude",
			input:       header + "東京都,千代田区,丸の内,一丁目,1,,,,,north,139.767125\n",
			expectedErr: "line 2: invalid latitude: north",
		},
		{
			name:        "empty file",
			input:       "",
			expectedErr: "failed to read header: EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			places, err := parseCSV(strings.NewReader(tt.input))
			if tt.expectedErr != "" {
				assert.EqualError(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, places)
		})
	}
}
