package location

import (
	"errors"

	"location-resolver/internal/models"
)

// Error kinds. Match them with errors.Is; the concrete error is always *Error.
var (
	// ErrGeolocation matches every failure to acquire the device position.
	ErrGeolocation         = errors.New("geolocation failed")
	ErrUnsupported         = errors.New("geolocation unsupported")
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("position timeout")

	ErrAddressResolution   = errors.New("address resolution failed")
	ErrServerConfiguration = errors.New("geocoding server misconfigured")
	ErrRemotePersistence   = errors.New("remote persistence failed")

	ErrInvalidRecord = models.ErrInvalidRecord
)

// User-facing messages.
const (
	msgUnsupported         = "Geolocation is not supported by this device"
	msgPermissionDenied    = "Location permission denied"
	msgPositionUnavailable = "Location information is unavailable"
	msgTimeout             = "Location request timed out"
	msgNoAddress           = "No address found for this location"
	msgServerConfiguration = "Geocoding is misconfigured on the server: the server-side Google Maps API key must not have HTTP referrer restrictions"
	msgRemotePersistence   = "Location saved on this device, but syncing it to your account failed"
)

// Error is a resolver failure. Error() is a message fit to show the user.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func newError(kind error, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the error kind, and ErrGeolocation for every position acquisition kind.
func (e *Error) Is(target error) bool {
	if target == e.Kind {
		return true
	}
	if target == ErrGeolocation {
		switch e.Kind {
		case ErrUnsupported, ErrPermissionDenied, ErrPositionUnavailable, ErrTimeout:
			return true
		}
	}
	return false
}
