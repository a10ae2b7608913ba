package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"daylog/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestCategory creates a category with the given normalized name.
func CreateTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	return CreateTestCategoryWithUsage(t, db, name, 0)
}

// CreateTestCategoryWithUsage creates a category with a preset usage count.
func CreateTestCategoryWithUsage(t *testing.T, db *gorm.DB, name string, usage int) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:        name,
		DisplayName: name,
		Color:       fmt.Sprintf("#%06x", nextID()*2654435%0xffffff),
		UsageCount:  usage,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestSubcategory creates a subcategory under the given category.
func CreateTestSubcategory(t *testing.T, db *gorm.DB, categoryID, name string, usage int) *models.Subcategory {
	t.Helper()

	sub := &models.Subcategory{
		CategoryID:  categoryID,
		Name:        name,
		DisplayName: name,
		UsageCount:  usage,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create test subcategory: %v", err)
	}
	return sub
}

// CreateTestActivity creates an activity with the given duration in minutes.
func CreateTestActivity(t *testing.T, db *gorm.DB, date, categoryID string, subcategoryID *string, duration int) *models.Activity {
	t.Helper()

	activity := &models.Activity{
		Date:          date,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		Title:         fmt.Sprintf("Test Activity %d", nextID()),
		Duration:      duration,
	}
	if err := db.Create(activity).Error; err != nil {
		t.Fatalf("failed to create test activity: %v", err)
	}
	return activity
}

// CreateTestCacheEntry creates a note on the board.
func CreateTestCacheEntry(t *testing.T, db *gorm.DB, title string) *models.CacheEntry {
	t.Helper()

	entry := &models.CacheEntry{
		Title:     title,
		Body:      "test body",
		Timestamp: time.Now(),
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test cache entry: %v", err)
	}
	return entry
}

// Today returns the current date in the given location as YYYY-MM-DD.
func Today(loc *time.Location) string {
	return time.Now().In(loc).Format("2006-01-02")
}
