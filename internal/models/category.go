package models

// Category is a user-defined activity category. Name holds the normalized
// (trimmed, lower-cased) form used for uniqueness and prefix matching;
// DisplayName preserves the casing the user typed.
type Category struct {
	Base
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	DisplayName string `gorm:"not null" json:"displayName"`
	Color       string `gorm:"size:7;not null" json:"color"`
	UsageCount  int    `gorm:"not null;default:0" json:"usageCount"`

	// Subcategories in creation order (UUIDv7 ids sort by creation time).
	Subcategories []Subcategory `gorm:"foreignKey:CategoryID" json:"subcategories"`
}

// Subcategory is owned by exactly one category. Its normalized name is
// unique within the owning category only.
type Subcategory struct {
	Base
	CategoryID  string `gorm:"type:uuid;not null;uniqueIndex:idx_subcategories_category_name,priority:1" json:"categoryId"`
	Name        string `gorm:"not null;uniqueIndex:idx_subcategories_category_name,priority:2" json:"name"`
	DisplayName string `gorm:"not null" json:"displayName"`
	UsageCount  int    `gorm:"not null;default:0" json:"usageCount"`
}
