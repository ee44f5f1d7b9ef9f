package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viaflight/layover-planner/internal/database"
	"github.com/viaflight/layover-planner/internal/middleware"
	"github.com/viaflight/layover-planner/internal/models"
	"github.com/viaflight/layover-planner/internal/services"
)

// ScheduleHandler handles saved-schedule HTTP requests
type ScheduleHandler struct {
	scheduleService *services.ScheduleService
}

// NewScheduleHandler creates a new schedule handler
func NewScheduleHandler(scheduleService *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// SaveScheduleRequest represents the schedule save request
type SaveScheduleRequest struct {
	Name      string          `json:"name" binding:"required"`
	UserID    string          `json:"user_id"`
	Plan      json.RawMessage `json:"plan"`
	Itinerary json.RawMessage `json:"itinerary"`
}

// RenameScheduleRequest represents the rename request
type RenameScheduleRequest struct {
	Name string `json:"name" binding:"required"`
}

// ownerID resolves the acting user: an authenticated identity wins,
// otherwise the explicitly supplied id is used
func ownerID(c *gin.Context, explicit string) string {
	if userCtx, ok := middleware.GetUserContext(c); ok {
		return userCtx.UserID
	}
	return explicit
}

// SaveSchedule handles POST /api/v1/schedules
func (h *ScheduleHandler) SaveSchedule(c *gin.Context) {
	var req SaveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	userID := ownerID(c, req.UserID)
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "user_id is required for anonymous saves",
		})
		return
	}

	schedule := &models.Schedule{
		UserID:    userID,
		Name:      req.Name,
		Plan:      req.Plan,
		Itinerary: req.Itinerary,
	}

	if _, err := h.scheduleService.Save(c.Request.Context(), schedule); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "persistence_error",
			Message: "Failed to save schedule",
		})
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

// GetSchedule handles GET /api/v1/schedules/:id
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	id := c.Param("id")

	schedule, err := h.scheduleService.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "persistence_error",
			Message: "Failed to load schedule",
		})
		return
	}
	if schedule == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Schedule not found",
		})
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// ListSchedules handles GET /api/v1/schedules
func (h *ScheduleHandler) ListSchedules(c *gin.Context) {
	userID := ownerID(c, c.Query("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "user_id is required",
		})
		return
	}

	schedules, err := h.scheduleService.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "persistence_error",
			Message: "Failed to list schedules",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":   userID,
		"count":     len(schedules),
		"schedules": schedules,
	})
}

// RenameSchedule handles PATCH /api/v1/schedules/:id/name
func (h *ScheduleHandler) RenameSchedule(c *gin.Context) {
	id := c.Param("id")

	var req RenameScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid request body: " + err.Error(),
		})
		return
	}

	err := h.scheduleService.Rename(c.Request.Context(), id, req.Name)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Schedule not found",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "persistence_error",
			Message: "Failed to rename schedule",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "name": req.Name})
}

// DeleteSchedule handles DELETE /api/v1/schedules/:id
func (h *ScheduleHandler) DeleteSchedule(c *gin.Context) {
	id := c.Param("id")

	if err := h.scheduleService.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "persistence_error",
			Message: "Failed to delete schedule",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}
