package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"location-resolver/internal/geocode"
	"location-resolver/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ReverseGeocodeHandler handles reverse geocoding requests
type ReverseGeocodeHandler struct {
	service ReverseGeoCodeService
}

// ReverseGeoCodeService interface for dependency injection
type ReverseGeoCodeService interface {
	Reverse(context.Context, float64, float64) ([]geocode.Result, error)
}

// NewReverseGeocodeHandler creates a new reverse geocode handler
func NewReverseGeocodeHandler(svc ReverseGeoCodeService) *ReverseGeocodeHandler {
	return &ReverseGeocodeHandler{service: svc}
}

// ReverseGeocode handles GET /internal/geocode requests
//
//	@Summary	Reverse geocode a coordinate pair
//	@Tags		geocode
//	@Produce	json
//	@Param		lat	query		number	true	"Latitude"
//	@Param		lng	query		number	true	"Longitude"
//	@Success	200	{object}	geocode.Response
//	@Failure	400	{object}	geocode.Response
//	@Failure	502	{object}	geocode.Response
//	@Failure	500	{object}	geocode.Response
//	@Router		/internal/geocode [get]
func (h *ReverseGeocodeHandler) ReverseGeocode(c *gin.Context) {
	latStr := c.Query("lat")
	lngStr := c.Query("lng")

	if latStr == "" || lngStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameters 'lat' and 'lng'"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude format"})
		return
	}

	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude format"})
		return
	}

	results, err := h.service.Reverse(c.Request.Context(), lat, lng)
	if err != nil {
		writeGeocodeError(c, err)
		return
	}

	c.JSON(http.StatusOK, geocode.Response{Results: results})
}

// writeGeocodeError maps service failures to proxy responses. Provider messages are passed
// through verbatim so clients can recognise them.
func writeGeocodeError(c *gin.Context, err error) {
	var upstream *geocode.UpstreamError
	switch {
	case errors.Is(err, service.ErrInvalidCoordinate), errors.Is(err, service.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &upstream):
		log.Warn().Str("status", upstream.Status).Str("message", upstream.Message).Msg("geocoding provider rejected request")
		c.JSON(http.StatusBadGateway, gin.H{"error": upstream.Error()})
	default:
		log.Error().Err(err).Msg("geocoding request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
