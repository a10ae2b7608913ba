package services

import (
	"gorm.io/gorm"

	"daylog/internal/drilldown"
	apperrors "daylog/internal/errors"
	"daylog/internal/models"
)

// statsService produces chart-ready drill-down aggregations.
type statsService struct {
	db *gorm.DB
}

// NewStatsService creates a new StatsServicer.
func NewStatsService(db *gorm.DB) StatsServicer {
	return &statsService{db: db}
}

// Daily aggregates one day's activities at the level the request drills to.
// The resulting level follows the drill-down rules, not the request: zooming
// into a category with no subcategorized activities lands on the activity
// level directly.
func (s *statsService) Daily(date string, req DrillRequest) (*DailyStats, error) {
	var categories []models.Category
	err := s.db.
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Order("created_at ASC, id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var activities []models.Activity
	err = s.db.Where("date = ?", date).Order("created_at ASC, id ASC").Find(&activities).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	view := drilldown.NewView(categories, activities)
	if req.CategoryID != "" {
		if err := view.ZoomCategory(req.CategoryID); err != nil {
			return nil, apperrors.ErrCategoryNotFound
		}
		if req.SubcategoryID != "" {
			if err := view.ZoomSubcategory(req.SubcategoryID); err != nil {
				return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
			}
		}
	}
	for _, key := range req.Hidden {
		view.Hide(key)
	}

	slices := view.Slices()
	total := 0
	for i := range slices {
		total += slices[i].Value
	}

	return &DailyStats{
		Date:          date,
		Level:         view.Level(),
		Slices:        slices,
		TotalDuration: total,
	}, nil
}
