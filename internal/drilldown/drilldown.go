// Package drilldown aggregates a day's activities into chart-ready slices
// at three granularities: per category, per subcategory within a category,
// and per individual activity. A View is pure in-memory state over an
// already-fetched activity list; it never touches storage.
package drilldown

import (
	"fmt"
	"math"

	"daylog/internal/colors"
	"daylog/internal/models"
)

// Level is the current granularity of the aggregation view.
type Level string

const (
	LevelCategory    Level = "category"
	LevelSubcategory Level = "subcategory"
	LevelActivity    Level = "activity"
)

// SliceOther keys the subcategory-level bucket for activities of the
// drilled-down category that have no subcategory.
const SliceOther = "other"

// Slice is one wedge of the pie chart.
type Slice struct {
	Key      string  `json:"key"`
	Label    string  `json:"label"`
	Value    int     `json:"value"`
	Color    string  `json:"color"`
	Duration string  `json:"duration"`
	Percent  float64 `json:"percent"`
}

// View holds the drill-down state over one day's activities.
type View struct {
	categories []models.Category
	activities []models.Activity
	catByID    map[string]*models.Category
	subByID    map[string]*models.Subcategory

	level         Level
	categoryID    string
	subcategoryID string

	hiddenCategories    map[string]bool
	hiddenSubcategories map[string]bool
}

// NewView creates a view at the category level. The category list supplies
// display names and colors and the fallback category for activities whose
// reference no longer resolves.
func NewView(categories []models.Category, activities []models.Activity) *View {
	v := &View{
		categories:          categories,
		activities:          activities,
		catByID:             make(map[string]*models.Category, len(categories)),
		subByID:             make(map[string]*models.Subcategory),
		level:               LevelCategory,
		hiddenCategories:    make(map[string]bool),
		hiddenSubcategories: make(map[string]bool),
	}
	for i := range categories {
		cat := &categories[i]
		v.catByID[cat.ID] = cat
		for j := range cat.Subcategories {
			sub := &cat.Subcategories[j]
			v.subByID[sub.ID] = sub
		}
	}
	return v
}

// Level returns the current drill-down level.
func (v *View) Level() Level { return v.level }

// CategoryID returns the drilled-down category id, or "" at category level.
func (v *View) CategoryID() string { return v.categoryID }

// SubcategoryID returns the drilled-down subcategory key, or "" when none
// is set.
func (v *View) SubcategoryID() string { return v.subcategoryID }

// ZoomCategory drills into a category. When the category has at least one
// subcategorized activity the view moves to the subcategory level;
// otherwise it skips straight to the activity level.
func (v *View) ZoomCategory(categoryID string) error {
	if _, ok := v.catByID[categoryID]; !ok {
		return fmt.Errorf("unknown category %q", categoryID)
	}

	v.categoryID = categoryID
	v.subcategoryID = ""
	v.hiddenSubcategories = make(map[string]bool)

	if v.hasSubcategorized(categoryID) {
		v.level = LevelSubcategory
	} else {
		v.level = LevelActivity
	}
	return nil
}

// ZoomSubcategory drills from the subcategory level into one subcategory's
// activities. The key is a subcategory id or SliceOther.
func (v *View) ZoomSubcategory(key string) error {
	if v.level != LevelSubcategory {
		return fmt.Errorf("cannot zoom into a subcategory from the %s level", v.level)
	}
	if key != SliceOther {
		sub, ok := v.subByID[key]
		if !ok || sub.CategoryID != v.categoryID {
			return fmt.Errorf("unknown subcategory %q", key)
		}
	}
	v.subcategoryID = key
	v.level = LevelActivity
	return nil
}

// Back moves one level up: activity goes to subcategory when one was set,
// otherwise to category; subcategory goes to category.
func (v *View) Back() {
	switch v.level {
	case LevelActivity:
		if v.subcategoryID != "" {
			v.subcategoryID = ""
			v.level = LevelSubcategory
			return
		}
		v.toCategoryLevel()
	case LevelSubcategory:
		v.toCategoryLevel()
	}
}

// Reset returns to the category level and clears all hidden sets.
func (v *View) Reset() {
	v.toCategoryLevel()
}

func (v *View) toCategoryLevel() {
	v.level = LevelCategory
	v.categoryID = ""
	v.subcategoryID = ""
	v.hiddenCategories = make(map[string]bool)
	v.hiddenSubcategories = make(map[string]bool)
}

// Hide removes the slice with the given key from the current level's view.
// Hiding the last visible slice is a no-op: a level never degenerates to
// empty through hiding. Hide does nothing at the activity level.
func (v *View) Hide(key string) {
	set := v.hiddenSet()
	if set == nil {
		return
	}
	if len(v.Slices()) <= 1 {
		return
	}
	set[key] = true
}

// Show makes a previously hidden slice visible again.
func (v *View) Show(key string) {
	if set := v.hiddenSet(); set != nil {
		delete(set, key)
	}
}

func (v *View) hiddenSet() map[string]bool {
	switch v.level {
	case LevelCategory:
		return v.hiddenCategories
	case LevelSubcategory:
		return v.hiddenSubcategories
	}
	return nil
}

// Slices aggregates the non-hidden activities at the current level. Slice
// order is first-seen order of the grouping key across the activity list.
func (v *View) Slices() []Slice {
	var slices []Slice
	switch v.level {
	case LevelCategory:
		slices = v.categorySlices()
	case LevelSubcategory:
		slices = v.subcategorySlices()
	case LevelActivity:
		slices = v.activitySlices()
	}
	return finalize(slices)
}

func (v *View) categorySlices() []Slice {
	var order []string
	totals := make(map[string]int)

	for i := range v.activities {
		cid := v.effectiveCategoryID(&v.activities[i])
		if cid == "" || v.hiddenCategories[cid] {
			continue
		}
		if _, seen := totals[cid]; !seen {
			order = append(order, cid)
		}
		totals[cid] += v.activities[i].Duration
	}

	slices := make([]Slice, 0, len(order))
	for _, cid := range order {
		cat := v.catByID[cid]
		slices = append(slices, Slice{
			Key:   cid,
			Label: cat.DisplayName,
			Value: totals[cid],
			Color: cat.Color,
		})
	}
	return slices
}

func (v *View) subcategorySlices() []Slice {
	cat := v.catByID[v.categoryID]

	var order []string
	totals := make(map[string]int)

	for i := range v.activities {
		a := &v.activities[i]
		if v.effectiveCategoryID(a) != v.categoryID {
			continue
		}
		key := SliceOther
		if a.SubcategoryID != nil && *a.SubcategoryID != "" {
			key = *a.SubcategoryID
		}
		if v.hiddenSubcategories[key] {
			continue
		}
		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] += a.Duration
	}

	slices := make([]Slice, 0, len(order))
	for i, key := range order {
		label := "Other"
		if sub, ok := v.subByID[key]; ok {
			label = sub.DisplayName
		}
		slices = append(slices, Slice{
			Key:   key,
			Label: label,
			Value: totals[key],
			Color: colors.Shade(cat.Color, i),
		})
	}
	return slices
}

func (v *View) activitySlices() []Slice {
	cat := v.catByID[v.categoryID]

	var slices []Slice
	for i := range v.activities {
		a := &v.activities[i]
		if v.effectiveCategoryID(a) != v.categoryID {
			continue
		}
		if v.subcategoryID != "" && !v.matchesSubcategory(a) {
			continue
		}
		slices = append(slices, Slice{
			Key:   a.ID,
			Label: a.Title,
			Value: a.Duration,
			Color: colors.Shade(cat.Color, len(slices)),
		})
	}
	return slices
}

func (v *View) matchesSubcategory(a *models.Activity) bool {
	if v.subcategoryID == SliceOther {
		return a.SubcategoryID == nil || *a.SubcategoryID == ""
	}
	return a.SubcategoryID != nil && *a.SubcategoryID == v.subcategoryID
}

// effectiveCategoryID resolves an activity's category, falling back to the
// first known category when the reference is missing or stale. The
// fallback affects display only; the activity itself is never mutated.
func (v *View) effectiveCategoryID(a *models.Activity) string {
	if _, ok := v.catByID[a.CategoryID]; ok {
		return a.CategoryID
	}
	if len(v.categories) > 0 {
		return v.categories[0].ID
	}
	return ""
}

func (v *View) hasSubcategorized(categoryID string) bool {
	for i := range v.activities {
		a := &v.activities[i]
		if v.effectiveCategoryID(a) != categoryID {
			continue
		}
		if a.SubcategoryID != nil && *a.SubcategoryID != "" {
			return true
		}
	}
	return false
}

func finalize(slices []Slice) []Slice {
	total := 0
	for i := range slices {
		total += slices[i].Value
	}
	for i := range slices {
		slices[i].Duration = FormatDuration(slices[i].Value)
		if total > 0 {
			slices[i].Percent = math.Round(float64(slices[i].Value)/float64(total)*1000) / 10
		}
	}
	return slices
}

// FormatDuration renders minutes as "Xh Ym".
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
