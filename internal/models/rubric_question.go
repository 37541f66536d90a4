package models

import "time"

// RubricQuestion defines one weighted criterion on the evaluation rubric.
// Questions are never hard-deleted: recorded ratings reference them by
// snapshot, and deactivated questions remain for historical listings.
type RubricQuestion struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Text          string    `gorm:"size:512;not null" json:"text"`
	Description   string    `gorm:"type:text" json:"description"`
	MaxScore      int       `gorm:"not null" json:"max_score"`
	WeightPercent float64   `gorm:"not null" json:"weight_percent"`
	Position      int       `gorm:"not null;default:0" json:"position"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
