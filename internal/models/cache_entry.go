package models

import "time"

// CacheEntry is a free-form note on the spatial board. It has no
// relationship to activities or categories. PosX/PosY hold the optional
// drag-and-drop position; both nil means the entry has never been placed.
type CacheEntry struct {
	Base
	Title     string    `gorm:"not null" json:"title"`
	Body      string    `json:"body"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	PosX      *float64  `gorm:"column:pos_x" json:"-"`
	PosY      *float64  `gorm:"column:pos_y" json:"-"`
}

// Position is the note's x/y placement on the board.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GetPosition returns the entry's position, or nil when it has none.
func (e *CacheEntry) GetPosition() *Position {
	if e.PosX == nil || e.PosY == nil {
		return nil
	}
	return &Position{X: *e.PosX, Y: *e.PosY}
}
