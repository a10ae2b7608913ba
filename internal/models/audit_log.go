package models

// AuditLog records write operations for later inspection.
type AuditLog struct {
	Base
	Action     string `gorm:"not null" json:"action"`
	EntityType string `gorm:"not null" json:"entityType"`
	EntityID   string `json:"entityId"`
	Details    string `json:"details,omitempty"`
}
