package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/viaflight/layover-planner/internal/models"
	"github.com/viaflight/layover-planner/internal/services"
)

// FacilityHandler handles facility and airport HTTP requests
type FacilityHandler struct {
	facilityService *services.FacilityService
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(facilityService *services.FacilityService) *FacilityHandler {
	return &FacilityHandler{facilityService: facilityService}
}

// GetAirport handles GET /api/v1/airports/:code
func (h *FacilityHandler) GetAirport(c *gin.Context) {
	code := c.Param("code")

	airport, err := h.facilityService.AirportInfo(code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "store_error",
			Message: "Failed to load airport information",
		})
		return
	}
	if airport == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Unknown airport code: " + code,
		})
		return
	}

	c.JSON(http.StatusOK, airport)
}

// ListCategories handles GET /api/v1/airports/:code/categories
func (h *FacilityHandler) ListCategories(c *gin.Context) {
	code := c.Param("code")
	categories := h.facilityService.ListCategories(code)

	c.JSON(http.StatusOK, gin.H{
		"airport":    code,
		"categories": categories,
	})
}

// ListFacilities handles GET /api/v1/airports/:code/facilities
func (h *FacilityHandler) ListFacilities(c *gin.Context) {
	code := c.Param("code")

	category, ok := models.ParseCategory(c.Query("category"))
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Unknown or missing category: " + c.Query("category"),
		})
		return
	}

	opts := services.ListOptions{
		IncludeClosed: c.Query("include_closed") == "true",
		SearchTerm:    c.Query("search"),
		SortBy:        c.DefaultQuery("sort", "name"),
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "Invalid limit: " + limitStr,
			})
			return
		}
		opts.Limit = limit
	}

	facilities := h.facilityService.ListByCategory(code, category, opts)
	c.JSON(http.StatusOK, gin.H{
		"airport":    code,
		"category":   category,
		"count":      len(facilities),
		"facilities": facilities,
	})
}

// SearchFacilities handles GET /api/v1/airports/:code/facilities/search
func (h *FacilityHandler) SearchFacilities(c *gin.Context) {
	code := c.Param("code")

	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Search term (q) is required",
		})
		return
	}

	opts := services.SearchOptions{
		IncludeClosed: c.Query("include_closed") == "true",
	}
	if categoriesStr := c.Query("categories"); categoriesStr != "" {
		for _, raw := range strings.Split(categoriesStr, ",") {
			category, ok := models.ParseCategory(strings.TrimSpace(raw))
			if !ok {
				c.JSON(http.StatusBadRequest, ErrorResponse{
					Error:   "validation_error",
					Message: "Unknown category in filter: " + raw,
				})
				return
			}
			opts.Categories = append(opts.Categories, category)
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "Invalid limit: " + limitStr,
			})
			return
		}
		opts.Limit = limit
	}

	facilities := h.facilityService.Search(code, term, opts)
	c.JSON(http.StatusOK, gin.H{
		"airport":    code,
		"query":      term,
		"count":      len(facilities),
		"facilities": facilities,
	})
}

// ListOpenFacilities handles GET /api/v1/airports/:code/facilities/open
func (h *FacilityHandler) ListOpenFacilities(c *gin.Context) {
	code := c.Param("code")

	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Both start and end window times are required",
		})
		return
	}

	facilities, err := h.facilityService.ListByOperatingWindow(code, start, end)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"airport":    code,
		"start":      start,
		"end":        end,
		"count":      len(facilities),
		"facilities": facilities,
	})
}
