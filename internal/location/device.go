package location

import (
	"context"
	"errors"
	"regexp"
	"time"

	"location-resolver/internal/geolocation"
	"location-resolver/internal/models"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/codes"
)

var (
	precise = geolocation.PositionOptions{HighAccuracy: true, Timeout: 15 * time.Second}
	relaxed = geolocation.PositionOptions{HighAccuracy: false, Timeout: 20 * time.Second}
)

// referrerRestricted matches provider complaints about a browser-restricted API key.
var referrerRestricted = regexp.MustCompile(`(?i)referr?er restrictions?|api[ _-]?keys?\b.*\breferr?er`)

// ResolveFromDevice acquires the device position and reverse-geocodes it. A precise fix
// is tried first; any failure other than a denied permission is retried once with a
// relaxed request. The record is not persisted.
func (r *Resolver) ResolveFromDevice(ctx context.Context) (models.LocationRecord, error) {
	ctx, span := r.tracer.Start(ctx, "location.ResolveFromDevice")
	defer span.End()

	pos, err := r.acquire(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.LocationRecord{}, err
	}

	rec, err := r.ResolveAddress(ctx, pos.Lat, pos.Lng)
	if err != nil {
		if referrerRestricted.MatchString(err.Error()) {
			err = newError(ErrServerConfiguration, msgServerConfiguration, err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.LocationRecord{}, err
	}
	return rec, nil
}

func (r *Resolver) acquire(ctx context.Context) (geolocation.Position, error) {
	if r.geo == nil {
		return geolocation.Position{}, newError(ErrUnsupported, msgUnsupported, nil)
	}

	pos, err := r.geo.CurrentPosition(ctx, precise)
	if err == nil {
		return pos, nil
	}
	if errors.Is(err, geolocation.ErrUnsupported) || code(err) == geolocation.PermissionDenied || ctx.Err() != nil {
		return geolocation.Position{}, translate(err)
	}

	log.Debug().Err(err).Msg("location: precise position failed, retrying relaxed")
	pos, err = r.geo.CurrentPosition(ctx, relaxed)
	if err != nil {
		return geolocation.Position{}, translate(err)
	}
	return pos, nil
}

func code(err error) geolocation.ErrorCode {
	var perr *geolocation.PositionError
	if errors.As(err, &perr) {
		return perr.Code
	}
	return 0
}

func translate(err error) error {
	if errors.Is(err, geolocation.ErrUnsupported) {
		return newError(ErrUnsupported, msgUnsupported, err)
	}
	switch code(err) {
	case geolocation.PermissionDenied:
		return newError(ErrPermissionDenied, msgPermissionDenied, err)
	case geolocation.PositionUnavailable:
		return newError(ErrPositionUnavailable, msgPositionUnavailable, err)
	case geolocation.Timeout:
		return newError(ErrTimeout, msgTimeout, err)
	default:
		return newError(ErrGeolocation, err.Error(), err)
	}
}
