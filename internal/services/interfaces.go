package services

import (
	"daylog/internal/drilldown"
	"daylog/internal/models"
	"daylog/internal/pagination"
)

// AuthServicer verifies the single admin credential.
type AuthServicer interface {
	VerifyPassword(candidate string) bool
}

// CategoryServicer defines the contract for category-related business logic.
// CreateCategory and CreateSubcategory are find-or-describe operations: the
// bool result is true when a new record was created and false when an
// existing record with the same normalized name was returned instead.
type CategoryServicer interface {
	CreateCategory(name string) (*models.Category, bool, error)
	CreateSubcategory(categoryName, subName string) (*models.Subcategory, bool, error)
	SuggestCategories(prefix string) ([]models.Category, error)
	SuggestSubcategories(categoryName, prefix string) ([]string, error)
	InvalidateSuggestions()
}

// ActivityInput holds the fields for creating an activity.
type ActivityInput struct {
	Date          string
	CategoryID    string
	SubcategoryID *string
	Title         string
	Description   string
	Duration      int
	StartTime     string
	EndTime       string
}

// ActivityUpdate holds optional fields for a partial activity update.
// Nil means "leave unchanged"; an empty string on SubcategoryID, StartTime
// or EndTime clears the field.
type ActivityUpdate struct {
	CategoryID    *string
	SubcategoryID *string
	Title         *string
	Description   *string
	Duration      *int
	StartTime     *string
	EndTime       *string
}

// ActivityServicer defines the contract for activity-related business logic.
type ActivityServicer interface {
	ListByDate(date string) ([]models.Activity, error)
	Create(input ActivityInput) (*models.Activity, error)
	Update(id string, input ActivityUpdate) (*models.Activity, error)
	Delete(id string) error
}

// CacheServicer defines the contract for the free-form note board.
type CacheServicer interface {
	ListEntries(page pagination.PageRequest) (*pagination.PageResponse[models.CacheEntry], error)
	CreateEntry(title, body string, pos *models.Position) (*models.CacheEntry, error)
	UpdateEntry(id string, title, body *string, pos *models.Position) (*models.CacheEntry, error)
	DeleteEntry(id string) error
}

// DrillRequest selects a drill-down position for a one-shot stats query.
// An empty CategoryID means the category level; a CategoryID alone zooms
// into that category; SubcategoryID additionally zooms into one
// subcategory. Hidden lists slice keys to exclude at the resulting level.
type DrillRequest struct {
	CategoryID    string
	SubcategoryID string
	Hidden        []string
}

// DailyStats is the chart-ready aggregation for one day.
type DailyStats struct {
	Date          string            `json:"date"`
	Level         drilldown.Level   `json:"level"`
	Slices        []drilldown.Slice `json:"slices"`
	TotalDuration int               `json:"totalDuration"`
}

// StatsServicer defines the contract for aggregation queries.
type StatsServicer interface {
	Daily(date string, req DrillRequest) (*DailyStats, error)
}

// AuditServicer records write operations.
type AuditServicer interface {
	Log(action, entityType, entityID string, details map[string]any)
}
