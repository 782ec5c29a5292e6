// Package geocode holds the reverse-geocoding wire format shared by the internal proxy,
// its upstream providers and the client the location resolver uses.
package geocode

// Address component types understood by the location resolver.
const (
	TypeStreetNumber   = "street_number"
	TypeRoute          = "route"
	TypeSublocality    = "sublocality"
	TypeSublocality1   = "sublocality_level_1"
	TypeLocality       = "locality"
	TypeAdminAreaLevel = "administrative_area_level_1"
	TypePostalCode     = "postal_code"
)

// AddressComponent is one typed part of a geocoded address.
type AddressComponent struct {
	Types     []string `json:"types"`
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name,omitempty"`
}

// HasType reports whether the component is tagged with t.
func (c AddressComponent) HasType(t string) bool {
	for _, typ := range c.Types {
		if typ == t {
			return true
		}
	}
	return false
}

// Result is a single geocoding candidate.
type Result struct {
	FormattedAddress  string             `json:"formatted_address"`
	AddressComponents []AddressComponent `json:"address_components"`
}

// Response is the payload of GET /internal/geocode. Exactly one of Results or Error is meaningful.
type Response struct {
	Results []Result `json:"results"`
	Error   string   `json:"error,omitempty"`
}

// UpstreamError is a failure reported by the upstream provider itself.
// Message is the provider's own text, passed through untouched.
type UpstreamError struct {
	Status  string
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "geocoding provider returned status " + e.Status
}
