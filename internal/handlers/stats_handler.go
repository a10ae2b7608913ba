package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "daylog/internal/errors"
	"daylog/internal/services"
)

// StatsHandler serves chart-ready drill-down aggregations
type StatsHandler struct {
	statsService services.StatsServicer
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(statsService services.StatsServicer) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Daily aggregates one day's activities. Query parameters drill the view:
// category zooms into a category, subcategory additionally zooms into one
// subcategory, and hide lists comma-separated slice keys to exclude.
func (h *StatsHandler) Daily(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date, expected YYYY-MM-DD"))
		return
	}

	req := services.DrillRequest{
		CategoryID:    c.Query("category"),
		SubcategoryID: c.Query("subcategory"),
	}
	if hide := c.Query("hide"); hide != "" {
		req.Hidden = strings.Split(hide, ",")
	}

	stats, err := h.statsService.Daily(date, req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
