package services

import (
	"errors"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"gorm.io/gorm"

	"daylog/internal/colors"
	apperrors "daylog/internal/errors"
	"daylog/internal/models"
	"daylog/internal/names"
)

// suggestionCacheSize bounds the suggestion caches. Autocomplete fires on
// every keystroke (debounced client-side), so repeated prefixes are common.
const suggestionCacheSize = 256

// categoryService handles category and subcategory business logic.
type categoryService struct {
	db *gorm.DB

	// Read caches for the suggestion queries, keyed by normalized prefix.
	// Flushed on every category, subcategory, or usage-count write.
	catSuggestions *lru.Cache[string, []models.Category]
	subSuggestions *lru.Cache[string, []string]
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	// lru.New only fails for a non-positive size.
	catCache, _ := lru.New[string, []models.Category](suggestionCacheSize)
	subCache, _ := lru.New[string, []string](suggestionCacheSize)
	return &categoryService{
		db:             db,
		catSuggestions: catCache,
		subSuggestions: subCache,
	}
}

// CreateCategory creates a category under the normalized form of name. When
// a category with that normalized name already exists it is returned with
// created=false instead of an error, so the handler can answer 409 with the
// existing record attached.
func (s *categoryService) CreateCategory(name string) (*models.Category, bool, error) {
	if names.IsEmpty(name) {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Category name is required")
	}
	normalized := names.Normalize(name)

	var existing models.Category
	err := s.withSubcategories(s.db).Where("name = ?", normalized).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var usedColors []string
	if err := s.db.Model(&models.Category{}).Pluck("color", &usedColors).Error; err != nil {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	used := make(map[string]bool, len(usedColors))
	for _, c := range usedColors {
		used[strings.ToLower(c)] = true
	}

	category := &models.Category{
		Name:          normalized,
		DisplayName:   names.Display(name),
		Color:         colors.Assign(used),
		Subcategories: []models.Subcategory{},
	}
	if err := s.db.Create(category).Error; err != nil {
		// The unique index on name may have raced with a concurrent create;
		// whoever won holds the record we should describe.
		var winner models.Category
		if ferr := s.withSubcategories(s.db).Where("name = ?", normalized).First(&winner).Error; ferr == nil {
			return &winner, false, nil
		}
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.InvalidateSuggestions()
	return category, true, nil
}

// CreateSubcategory appends a subcategory to the named category. Existing
// normalized names within the category are returned with created=false.
func (s *categoryService) CreateSubcategory(categoryName, subName string) (*models.Subcategory, bool, error) {
	if names.IsEmpty(subName) {
		return nil, false, apperrors.WithMessage(apperrors.ErrInvalidInput, "Subcategory name is required")
	}

	category, err := s.findByName(categoryName)
	if err != nil {
		return nil, false, err
	}
	normalized := names.Normalize(subName)

	var existing models.Subcategory
	ferr := s.db.Where("category_id = ? AND name = ?", category.ID, normalized).First(&existing).Error
	if ferr == nil {
		return &existing, false, nil
	}
	if !errors.Is(ferr, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, ferr)
	}

	sub := &models.Subcategory{
		CategoryID:  category.ID,
		Name:        normalized,
		DisplayName: names.Display(subName),
	}
	if err := s.db.Create(sub).Error; err != nil {
		// Concurrent append of the same name: the per-category unique index
		// rejects the loser, who describes the winner's record instead.
		var winner models.Subcategory
		if ferr := s.db.Where("category_id = ? AND name = ?", category.ID, normalized).First(&winner).Error; ferr == nil {
			return &winner, false, nil
		}
		return nil, false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.InvalidateSuggestions()
	return sub, true, nil
}

// SuggestCategories returns the categories whose normalized name starts
// with the normalized prefix, ranked by usage count then name. An empty
// prefix matches every category.
func (s *categoryService) SuggestCategories(prefix string) ([]models.Category, error) {
	normalized := names.Normalize(prefix)
	if cached, ok := s.catSuggestions.Get(normalized); ok {
		return cached, nil
	}

	query := s.withSubcategories(s.db).Order("usage_count DESC, name ASC")
	if normalized != "" {
		query = query.Where("name LIKE ? ESCAPE '\\'", escapeLike(normalized)+"%")
	}

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if categories == nil {
		categories = []models.Category{}
	}

	s.catSuggestions.Add(normalized, categories)
	return categories, nil
}

// SuggestSubcategories returns up to 10 subcategory display names under the
// named category whose normalized name starts with the normalized prefix,
// ranked by usage count then name. Without a category there are no results.
func (s *categoryService) SuggestSubcategories(categoryName, prefix string) ([]string, error) {
	if names.IsEmpty(categoryName) {
		return []string{}, nil
	}

	key := names.Normalize(categoryName) + "\x00" + names.Normalize(prefix)
	if cached, ok := s.subSuggestions.Get(key); ok {
		return cached, nil
	}

	category, err := s.findByName(categoryName)
	if err != nil {
		if errors.Is(err, apperrors.ErrCategoryNotFound) {
			return []string{}, nil
		}
		return nil, err
	}

	query := s.db.Model(&models.Subcategory{}).
		Where("category_id = ?", category.ID).
		Order("usage_count DESC, name ASC").
		Limit(10)
	if normalized := names.Normalize(prefix); normalized != "" {
		query = query.Where("name LIKE ? ESCAPE '\\'", escapeLike(normalized)+"%")
	}

	var displayNames []string
	if err := query.Pluck("display_name", &displayNames).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if displayNames == nil {
		displayNames = []string{}
	}

	s.subSuggestions.Add(key, displayNames)
	return displayNames, nil
}

// InvalidateSuggestions flushes both suggestion caches. Called after any
// write that can change suggestion contents or ordering, including usage
// count bumps from activity creation.
func (s *categoryService) InvalidateSuggestions() {
	s.catSuggestions.Purge()
	s.subSuggestions.Purge()
}

func (s *categoryService) findByName(name string) (*models.Category, error) {
	var category models.Category
	err := s.db.Where("name = ?", names.Normalize(name)).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// withSubcategories preloads subcategories in creation order.
func (s *categoryService) withSubcategories(db *gorm.DB) *gorm.DB {
	return db.Preload("Subcategories", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, id ASC")
	})
}

// escapeLike escapes LIKE metacharacters so a prefix is matched literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
