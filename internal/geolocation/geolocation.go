// Package geolocation describes the device position capability the location resolver
// depends on, with the same failure codes a browser reports.
package geolocation

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnsupported means the device has no positioning capability at all.
var ErrUnsupported = errors.New("geolocation is not supported")

// ErrorCode classifies a failed position request.
type ErrorCode int

const (
	PermissionDenied ErrorCode = iota + 1
	PositionUnavailable
	Timeout
)

func (c ErrorCode) String() string {
	switch c {
	case PermissionDenied:
		return "PermissionDenied"
	case PositionUnavailable:
		return "PositionUnavailable"
	case Timeout:
		return "Timeout"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// PositionError is a failed position request.
type PositionError struct {
	Code    ErrorCode
	Message string
}

func (e *PositionError) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return e.Message
}

// PositionOptions tunes a single position request.
// MaximumAge is how old a cached fix may be; zero always waits for a fresh one.
type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// Position is a single fix. Accuracy is the radius in meters.
type Position struct {
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Accuracy  float64   `json:"accuracy"`
	Timestamp time.Time `json:"timestamp"`
}

// Geolocator acquires the device position.
type Geolocator interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error)
}

// Fixed always reports the same position, for devices whose location is configured.
type Fixed struct {
	Position Position
}

// CurrentPosition returns the configured position.
func (f Fixed) CurrentPosition(ctx context.Context, _ PositionOptions) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	pos := f.Position
	if pos.Timestamp.IsZero() {
		pos.Timestamp = time.Now()
	}
	return pos, nil
}

// Unsupported is a device without positioning.
type Unsupported struct{}

// CurrentPosition always fails with ErrUnsupported.
func (Unsupported) CurrentPosition(context.Context, PositionOptions) (Position, error) {
	return Position{}, ErrUnsupported
}
