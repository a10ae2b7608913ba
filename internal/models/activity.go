package models

// Activity is one logged entry on a calendar day. Date is the partition key
// for daily views, stored as YYYY-MM-DD. CategoryID must reference an
// existing category; SubcategoryID, when set, must belong to that category.
type Activity struct {
	Base
	Date          string  `gorm:"size:10;not null;index" json:"date"`
	CategoryID    string  `gorm:"type:uuid;not null;index" json:"categoryId"`
	SubcategoryID *string `gorm:"type:uuid" json:"subcategoryId,omitempty"`
	Title         string  `gorm:"not null" json:"title"`
	Description   string  `json:"description,omitempty"`

	// Duration is in minutes. StartTime/EndTime are optional HH:MM strings;
	// when both are present, end minus start must equal Duration.
	Duration  int    `gorm:"not null" json:"duration"`
	StartTime string `gorm:"size:5" json:"startTime,omitempty"`
	EndTime   string `gorm:"size:5" json:"endTime,omitempty"`

	Category    *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Subcategory *Subcategory `gorm:"foreignKey:SubcategoryID" json:"subcategory,omitempty"`
}
