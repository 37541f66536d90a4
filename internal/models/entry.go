package models

import "time"

// Entry represents a competition entry registered by a team. Registration
// itself is handled by the registration service; the jury API only reads
// entries and treats approval status as the eligibility gate.
type Entry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:32;not null;uniqueIndex" json:"code"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	TeamName  string    `gorm:"size:255" json:"team_name"`
	Status    string    `gorm:"size:32;not null;default:pending" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	// EntryStatusPending indicates the entry has not been reviewed yet.
	EntryStatusPending = "pending"
	// EntryStatusApproved indicates the entry may be assigned to jurors.
	EntryStatusApproved = "approved"
	// EntryStatusRejected indicates the entry was refused during registration.
	EntryStatusRejected = "rejected"
)

// IsEligible reports whether the entry may participate in jury evaluation.
func (e Entry) IsEligible() bool {
	return e.Status == EntryStatusApproved
}
