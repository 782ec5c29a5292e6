package handler

import (
	"context"
	"errors"
	"net/http"

	"location-resolver/internal/auth"
	"location-resolver/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ProfileHandler serves the location slot of the signed-in user's profile
type ProfileHandler struct {
	service ProfileService
}

// ProfileService interface for dependency injection
type ProfileService interface {
	Location(ctx context.Context, userID string) (*models.Snapshot, error)
	SaveLocation(ctx context.Context, userID string, snap models.Snapshot) error
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(svc ProfileService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// GetLocation handles GET /api/v1/profile/location requests
//
//	@Summary	Location saved to the user's profile
//	@Tags		profile
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	models.Snapshot
//	@Failure	401	{object}	map[string]string
//	@Failure	404	{object}	map[string]string
//	@Router		/api/v1/profile/location [get]
func (h *ProfileHandler) GetLocation(c *gin.Context) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	snap, err := h.service.Location(c.Request.Context(), id.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", id.UserID).Msg("failed to load profile location")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if snap == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no location saved"})
		return
	}

	c.JSON(http.StatusOK, snap)
}

// PutLocation handles PUT /api/v1/profile/location requests
//
//	@Summary	Merge a location into the user's profile
//	@Tags		profile
//	@Accept		json
//	@Security	BearerAuth
//	@Param		snapshot	body	models.Snapshot	true	"Versioned location"
//	@Success	204
//	@Failure	400	{object}	map[string]string
//	@Failure	401	{object}	map[string]string
//	@Router		/api/v1/profile/location [put]
func (h *ProfileHandler) PutLocation(c *gin.Context) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	var snap models.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.service.SaveLocation(c.Request.Context(), id.UserID, snap); err != nil {
		if errors.Is(err, models.ErrInvalidRecord) {
			c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrInvalidRecord.Error()})
			return
		}
		log.Error().Err(err).Str("user_id", id.UserID).Msg("failed to save profile location")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}
