package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/viaflight/layover-planner/pkg/places"
)

// PlaceHandler proxies place-details lookups to the configured provider
type PlaceHandler struct {
	provider places.Provider
	logger   *logrus.Logger
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(provider places.Provider, logger *logrus.Logger) *PlaceHandler {
	return &PlaceHandler{provider: provider, logger: logger}
}

// GetPlace handles GET /api/v1/places/:id
func (h *PlaceHandler) GetPlace(c *gin.Context) {
	placeID := c.Param("id")

	details, err := h.provider.GetPlaceDetails(c.Request.Context(), placeID)
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"place_id": placeID,
			"provider": h.provider.GetName(),
		}).Error("Place details lookup failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "provider_error",
			Message: "Failed to fetch place details",
		})
		return
	}

	c.JSON(http.StatusOK, details)
}
