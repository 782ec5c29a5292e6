package handler

import (
	"context"
	"net/http"

	"location-resolver/internal/geocode"

	"github.com/gin-gonic/gin"
)

// GeoCodeHandler handles forward geocoding requests
type GeoCodeHandler struct {
	service GeoCodeService
}

// GeoCodeService interface for dependency injection
type GeoCodeService interface {
	Search(context.Context, string) ([]geocode.Result, error)
}

// NewGeoCodeHandler creates a new geocode handler
func NewGeoCodeHandler(svc GeoCodeService) *GeoCodeHandler {
	return &GeoCodeHandler{service: svc}
}

// Search handles GET /internal/geocode/search requests
//
//	@Summary	Search addresses by free text
//	@Tags		geocode
//	@Produce	json
//	@Param		q	query		string	true	"Address text"
//	@Success	200	{object}	geocode.Response
//	@Failure	400	{object}	geocode.Response
//	@Failure	502	{object}	geocode.Response
//	@Router		/internal/geocode/search [get]
func (h *GeoCodeHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'q'"})
		return
	}

	results, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		writeGeocodeError(c, err)
		return
	}

	c.JSON(http.StatusOK, geocode.Response{Results: results})
}
