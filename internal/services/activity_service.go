package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "daylog/internal/errors"
	"daylog/internal/models"
)

// activityService handles activity-related business logic.
type activityService struct {
	db         *gorm.DB
	categories CategoryServicer
	loc        *time.Location
}

// NewActivityService creates a new ActivityServicer. The location
// determines "today" for the create-date restriction; categories is
// notified when usage counts change so its suggestion caches stay fresh.
func NewActivityService(db *gorm.DB, categories CategoryServicer, loc *time.Location) ActivityServicer {
	return &activityService{db: db, categories: categories, loc: loc}
}

// ListByDate returns the activities logged on the given calendar day in
// creation order, with category and subcategory records attached.
func (s *activityService) ListByDate(date string) ([]models.Activity, error) {
	var activities []models.Activity
	err := s.db.
		Preload("Category").
		Preload("Subcategory").
		Where("date = ?", date).
		Order("created_at ASC, id ASC").
		Find(&activities).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if activities == nil {
		activities = []models.Activity{}
	}
	return activities, nil
}

// Create validates and persists a new activity, then bumps the usage count
// of its category (and subcategory, when set). Activities can only be
// added for the current day in the configured timezone.
func (s *activityService) Create(input ActivityInput) (*models.Activity, error) {
	today := time.Now().In(s.loc).Format("2006-01-02")
	if input.Date != today {
		return nil, apperrors.ErrNotToday
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Title is required")
	}
	if input.Duration <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Duration must be a positive number of minutes")
	}

	category, err := s.findCategory(input.CategoryID)
	if err != nil {
		return nil, err
	}

	var subcategory *models.Subcategory
	if input.SubcategoryID != nil && *input.SubcategoryID != "" {
		subcategory, err = s.findSubcategory(category.ID, *input.SubcategoryID)
		if err != nil {
			return nil, err
		}
	}

	if err := checkDurationConsistency(input.StartTime, input.EndTime, input.Duration); err != nil {
		return nil, err
	}

	activity := &models.Activity{
		Date:        input.Date,
		CategoryID:  category.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Duration:    input.Duration,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
	}
	if subcategory != nil {
		activity.SubcategoryID = &subcategory.ID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(activity).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Category{}).
			Where("id = ?", category.ID).
			UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
			return err
		}
		if subcategory != nil {
			if err := tx.Model(&models.Subcategory{}).
				Where("id = ?", subcategory.ID).
				UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Usage counts feed suggestion ranking.
	s.categories.InvalidateSuggestions()

	activity.Category = category
	activity.Subcategory = subcategory
	return activity, nil
}

// Update applies a partial update to an existing activity.
func (s *activityService) Update(id string, input ActivityUpdate) (*models.Activity, error) {
	activity, err := s.findActivity(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	categoryID := activity.CategoryID
	if input.CategoryID != nil && *input.CategoryID != categoryID {
		category, err := s.findCategory(*input.CategoryID)
		if err != nil {
			return nil, err
		}
		categoryID = category.ID
		updates["category_id"] = category.ID
		// A category change invalidates the old subcategory reference
		// unless the update names a new one.
		if input.SubcategoryID == nil {
			updates["subcategory_id"] = nil
		}
	}

	if input.SubcategoryID != nil {
		if *input.SubcategoryID == "" {
			updates["subcategory_id"] = nil
		} else {
			sub, err := s.findSubcategory(categoryID, *input.SubcategoryID)
			if err != nil {
				return nil, err
			}
			updates["subcategory_id"] = sub.ID
		}
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Title is required")
		}
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}

	duration := activity.Duration
	if input.Duration != nil {
		if *input.Duration <= 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Duration must be a positive number of minutes")
		}
		duration = *input.Duration
		updates["duration"] = duration
	}

	start := activity.StartTime
	if input.StartTime != nil {
		start = *input.StartTime
		updates["start_time"] = start
	}
	end := activity.EndTime
	if input.EndTime != nil {
		end = *input.EndTime
		updates["end_time"] = end
	}
	if err := checkDurationConsistency(start, end, duration); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.db.Model(activity).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return s.findActivity(id)
}

// Delete removes an activity, reporting NotFound when it does not exist.
func (s *activityService) Delete(id string) error {
	activity, err := s.findActivity(id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(activity).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *activityService) findActivity(id string) (*models.Activity, error) {
	var activity models.Activity
	err := s.db.Preload("Category").Preload("Subcategory").Where("id = ?", id).First(&activity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrActivityNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &activity, nil
}

func (s *activityService) findCategory(id string) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("id = ?", id).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidCategory, "Category does not exist")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

func (s *activityService) findSubcategory(categoryID, id string) (*models.Subcategory, error) {
	var sub models.Subcategory
	err := s.db.Where("id = ?", id).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Subcategory does not exist")
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if sub.CategoryID != categoryID {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Subcategory does not belong to this category")
	}
	return &sub, nil
}

// checkDurationConsistency enforces that end minus start (same-day
// arithmetic) equals the stated duration when both clock times are given.
func checkDurationConsistency(start, end string, duration int) error {
	if start == "" || end == "" {
		return nil
	}
	startMin, err := clockMinutes(start)
	if err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid start time")
	}
	endMin, err := clockMinutes(end)
	if err != nil {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid end time")
	}
	if endMin-startMin != duration {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Duration does not match start and end times")
	}
	return nil
}

func clockMinutes(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
