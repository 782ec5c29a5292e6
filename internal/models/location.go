package models

import "errors"

// ErrInvalidRecord is returned when a partially filled location is about to be stored.
var ErrInvalidRecord = errors.New("location record requires city, state, pincode and formatted address")

// LocationRecord is a user's resolved or manually entered postal location.
// The zero value means no location is known.
type LocationRecord struct {
	DoorNo           string   `json:"doorNo,omitempty" bson:"doorNo,omitempty"`
	Street           string   `json:"street,omitempty" bson:"street,omitempty"`
	Area             string   `json:"area,omitempty" bson:"area,omitempty"`
	City             string   `json:"city,omitempty" bson:"city,omitempty"`
	State            string   `json:"state,omitempty" bson:"state,omitempty"`
	Pincode          string   `json:"pincode,omitempty" bson:"pincode,omitempty"`
	FormattedAddress string   `json:"formattedAddress,omitempty" bson:"formattedAddress,omitempty"`
	Lat              *float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng              *float64 `json:"lng,omitempty" bson:"lng,omitempty"`
}

// IsSet reports whether any field of the record carries a value.
func (r LocationRecord) IsSet() bool {
	return !r.Equal(LocationRecord{})
}

// Validate enforces that a set record has its required fields populated.
func (r LocationRecord) Validate() error {
	if r.City == "" || r.State == "" || r.Pincode == "" || r.FormattedAddress == "" {
		return ErrInvalidRecord
	}
	return nil
}

// Equal compares two records by value, including the coordinates behind the pointers.
func (r LocationRecord) Equal(o LocationRecord) bool {
	return r.DoorNo == o.DoorNo &&
		r.Street == o.Street &&
		r.Area == o.Area &&
		r.City == o.City &&
		r.State == o.State &&
		r.Pincode == o.Pincode &&
		r.FormattedAddress == o.FormattedAddress &&
		floatPtrEqual(r.Lat, o.Lat) &&
		floatPtrEqual(r.Lng, o.Lng)
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Float returns a pointer to v, for filling the optional coordinates.
func Float(v float64) *float64 {
	return &v
}

// Snapshot is a versioned LocationRecord as kept by the local and remote stores.
// Versions only grow; the higher version wins when two copies disagree.
type Snapshot struct {
	Location LocationRecord `json:"location" bson:"location"`
	Version  int64          `json:"version" bson:"version"`
}

// Place is a single addressable point from the PostGIS address table, containing its
// decomposed Japanese address components and its precise geographic coordinates.
type Place struct {
	ID           int     `json:"id"`
	Prefecture   string  `json:"prefecture"`
	Municipality string  `json:"municipality"`
	Address1     string  `json:"address1"`
	Address2     string  `json:"address2"`
	BlockLot     string  `json:"block_lot"`
	PostalCode   string  `json:"postal_code"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}
