package location

import (
	"context"

	"location-resolver/internal/geocode"
	"location-resolver/internal/models"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ResolveAddress reverse-geocodes a coordinate pair through the proxy. The record is not
// persisted.
func (r *Resolver) ResolveAddress(ctx context.Context, lat, lng float64) (models.LocationRecord, error) {
	ctx, span := r.tracer.Start(ctx, "location.ResolveAddress")
	defer span.End()
	span.SetAttributes(attribute.Float64("location.lat", lat), attribute.Float64("location.lng", lng))

	resp, err := r.addresses.Reverse(ctx, lat, lng)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "proxy request failed")
		return models.LocationRecord{}, newError(ErrAddressResolution, err.Error(), err)
	}
	if resp.Error != "" {
		span.SetStatus(codes.Error, resp.Error)
		return models.LocationRecord{}, newError(ErrAddressResolution, resp.Error, nil)
	}
	if len(resp.Results) == 0 {
		span.SetStatus(codes.Error, msgNoAddress)
		return models.LocationRecord{}, newError(ErrAddressResolution, msgNoAddress, nil)
	}

	return recordFromResult(resp.Results[0], lat, lng), nil
}

// recordFromResult maps address components onto record fields. Street numbers and routes
// are joined in the order they appear; for area the last sublocality wins.
func recordFromResult(res geocode.Result, lat, lng float64) models.LocationRecord {
	rec := models.LocationRecord{
		FormattedAddress: res.FormattedAddress,
		Lat:              models.Float(lat),
		Lng:              models.Float(lng),
	}

	for _, c := range res.AddressComponents {
		if c.HasType(geocode.TypeStreetNumber) {
			rec.Street += c.LongName
		}
		if c.HasType(geocode.TypeRoute) {
			if rec.Street != "" {
				rec.Street += " " + c.LongName
			} else {
				rec.Street = c.LongName
			}
		}
		if c.HasType(geocode.TypeSublocality) || c.HasType(geocode.TypeSublocality1) {
			rec.Area = c.LongName
		}
		if c.HasType(geocode.TypeLocality) {
			rec.City = c.LongName
		}
		if c.HasType(geocode.TypeAdminAreaLevel) {
			rec.State = c.LongName
		}
		if c.HasType(geocode.TypePostalCode) {
			rec.Pincode = c.LongName
		}
	}
	return rec
}
