package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "daylog/internal/errors"
	"daylog/internal/services"
)

// ActivityHandler handles activity-related requests
type ActivityHandler struct {
	activityService services.ActivityServicer
	auditService    services.AuditServicer
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService services.ActivityServicer, auditService services.AuditServicer) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, auditService: auditService}
}

// CreateActivityRequest represents the request payload for creating an activity
type CreateActivityRequest struct {
	Date          string  `json:"date" binding:"required,date"`
	CategoryID    string  `json:"categoryId" binding:"required,uuid"`
	SubcategoryID *string `json:"subcategoryId" binding:"omitempty,uuid"`
	Title         string  `json:"title" binding:"required"`
	Description   string  `json:"description"`
	Duration      int     `json:"duration" binding:"required,gt=0"`
	StartTime     string  `json:"startTime" binding:"omitempty,clock"`
	EndTime       string  `json:"endTime" binding:"omitempty,clock"`
}

// UpdateActivityRequest represents the request payload for a partial update
type UpdateActivityRequest struct {
	CategoryID    *string `json:"categoryId" binding:"omitempty,uuid"`
	SubcategoryID *string `json:"subcategoryId" binding:"omitempty"`
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Duration      *int    `json:"duration" binding:"omitempty,gt=0"`
	StartTime     *string `json:"startTime" binding:"omitempty"`
	EndTime       *string `json:"endTime" binding:"omitempty"`
}

// GetByDate returns the activities of one calendar day with the count and
// total logged duration.
func (h *ActivityHandler) GetByDate(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date, expected YYYY-MM-DD"))
		return
	}

	activities, err := h.activityService.ListByDate(date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	total := 0
	for i := range activities {
		total += activities[i].Duration
	}

	c.JSON(http.StatusOK, gin.H{
		"activities":    activities,
		"count":         len(activities),
		"totalDuration": total,
	})
}

// Create logs a new activity for today.
func (h *ActivityHandler) Create(c *gin.Context) {
	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	activity, err := h.activityService.Create(services.ActivityInput{
		Date:          req.Date,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		Title:         req.Title,
		Description:   req.Description,
		Duration:      req.Duration,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("create", "activity", activity.ID, map[string]any{
		"date":     activity.Date,
		"duration": activity.Duration,
	})
	c.JSON(http.StatusCreated, gin.H{"activity": activity})
}

// Update applies a partial update to an activity.
func (h *ActivityHandler) Update(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	activity, err := h.activityService.Update(id, services.ActivityUpdate{
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		Title:         req.Title,
		Description:   req.Description,
		Duration:      req.Duration,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("update", "activity", activity.ID, nil)
	c.JSON(http.StatusOK, gin.H{"activity": activity})
}

// Delete removes an activity.
func (h *ActivityHandler) Delete(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.activityService.Delete(id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("delete", "activity", id, nil)
	c.JSON(http.StatusOK, gin.H{"message": "Activity deleted successfully"})
}
