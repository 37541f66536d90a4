package models

import "time"

// Juror represents a jury member who evaluates competition entries.
type Juror struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Role      string    `gorm:"size:32;not null;default:juror" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	// RoleJuror identifies a regular jury member.
	RoleJuror = "juror"
	// RoleAdmin identifies an evaluation administrator.
	RoleAdmin = "admin"
)

// IsAdmin reports whether the juror holds administrative capabilities.
func (j Juror) IsAdmin() bool {
	return j.Role == RoleAdmin
}
