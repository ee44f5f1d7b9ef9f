package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/viaflight/layover-planner/internal/middleware"
	"github.com/viaflight/layover-planner/internal/models"
	"github.com/viaflight/layover-planner/internal/services"
)

// ReviewHandler handles trip review HTTP requests
type ReviewHandler struct {
	reviewService *services.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// PlaceReviewRequest is one facility rating inside a review submission
type PlaceReviewRequest struct {
	FacilityID       int64   `json:"facility_id" binding:"required"`
	FacilityName     string  `json:"facility_name" binding:"required"`
	FacilityCategory string  `json:"facility_category" binding:"required"`
	Rating           int     `json:"rating" binding:"required,min=1,max=5"`
	Comment          *string `json:"comment"`
	ImageURL         *string `json:"image_url"`
}

// SubmitReviewRequest represents the review submission request
type SubmitReviewRequest struct {
	UserID        string               `json:"user_id"`
	Rating        int                  `json:"rating" binding:"required,min=1,max=5"`
	Summary       string               `json:"summary" binding:"required"`
	Detail        *string              `json:"detail"`
	City          string               `json:"city" binding:"required"`
	DurationHours int                  `json:"duration_hours"`
	VisitCount    int                  `json:"visit_count"`
	TripType      *string              `json:"trip_type"`
	ArrivalFlight *string              `json:"arrival_flight"`
	DepartFlight  *string              `json:"depart_flight"`
	Images        []string             `json:"images"`
	PlaceReviews  []PlaceReviewRequest `json:"place_reviews"`
}

// LikeRequest represents a like submission
type LikeRequest struct {
	UserID *string `json:"user_id"`
}

// SubmitReview handles POST /api/v1/reviews
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	review := &models.TripReview{
		UserID:        ownerID(c, req.UserID),
		Rating:        req.Rating,
		Summary:       req.Summary,
		Detail:        toNullString(req.Detail),
		City:          req.City,
		DurationHours: req.DurationHours,
		VisitCount:    req.VisitCount,
		TripType:      toNullString(req.TripType),
		ArrivalFlight: toNullString(req.ArrivalFlight),
		DepartFlight:  toNullString(req.DepartFlight),
		Images:        req.Images,
	}

	for _, placeReq := range req.PlaceReviews {
		category, ok := models.ParseCategory(placeReq.FacilityCategory)
		if !ok {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "Unknown facility category: " + placeReq.FacilityCategory,
			})
			return
		}
		review.PlaceReviews = append(review.PlaceReviews, models.PlaceReview{
			FacilityID:       placeReq.FacilityID,
			FacilityName:     placeReq.FacilityName,
			FacilityCategory: category,
			Rating:           placeReq.Rating,
			Comment:          toNullString(placeReq.Comment),
			ImageURL:         toNullString(placeReq.ImageURL),
		})
	}

	if _, err := h.reviewService.Submit(c.Request.Context(), review); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "persistence_error",
			Message: "Failed to save review",
		})
		return
	}

	c.JSON(http.StatusCreated, review)
}

// ListReviews handles GET /api/v1/reviews with either a facility_id or a
// city filter
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	if facilityStr := c.Query("facility_id"); facilityStr != "" {
		facilityID, err := strconv.ParseInt(facilityStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: "Invalid facility_id: " + facilityStr,
			})
			return
		}
		reviews, err := h.reviewService.ListByFacility(c.Request.Context(), facilityID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "persistence_error",
				Message: "Failed to list reviews",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": len(reviews), "reviews": reviews})
		return
	}

	city := c.Query("city")
	if city == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Either facility_id or city is required",
		})
		return
	}
	reviews, err := h.reviewService.ListByCity(c.Request.Context(), city)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "persistence_error",
			Message: "Failed to list reviews",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reviews), "reviews": reviews})
}

// GetReview handles GET /api/v1/reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	id := c.Param("id")

	review, err := h.reviewService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "persistence_error",
			Message: "Failed to load review",
		})
		return
	}
	if review == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Review not found",
		})
		return
	}

	c.JSON(http.StatusOK, review)
}

// DeleteReview handles DELETE /api/v1/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id := c.Param("id")

	if err := h.reviewService.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "persistence_error",
			Message: "Failed to delete review",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}

// LikeReview handles POST /api/v1/reviews/:id/likes
func (h *ReviewHandler) LikeReview(c *gin.Context) {
	reviewID := c.Param("id")

	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	userID := req.UserID
	if userCtx, ok := middleware.GetUserContext(c); ok {
		userID = &userCtx.UserID
	}

	like, err := h.reviewService.Like(c.Request.Context(), reviewID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "persistence_error",
			Message: "Failed to like review",
		})
		return
	}

	c.JSON(http.StatusCreated, like)
}

// ListLikes handles GET /api/v1/reviews/:id/likes
func (h *ReviewHandler) ListLikes(c *gin.Context) {
	reviewID := c.Param("id")

	likes, err := h.reviewService.ListLikes(c.Request.Context(), reviewID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "persistence_error",
			Message: "Failed to list likes",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"review_id": reviewID, "count": len(likes), "likes": likes})
}

// UnlikeReview handles DELETE /api/v1/likes/:like_id
func (h *ReviewHandler) UnlikeReview(c *gin.Context) {
	likeID := c.Param("like_id")

	if err := h.reviewService.Unlike(c.Request.Context(), likeID); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "persistence_error",
			Message: "Failed to remove like",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": likeID, "deleted": true})
}
