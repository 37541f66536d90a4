package models

import "time"

// JuryAssignment records that a juror may evaluate an entry. The composite
// unique index makes re-assignment of an existing pair a conflict at the
// database level, which the repository turns into a silent skip.
type JuryAssignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	JurorID   uint      `gorm:"not null;uniqueIndex:idx_assignments_juror_entry" json:"juror_id"`
	EntryID   uint      `gorm:"not null;uniqueIndex:idx_assignments_juror_entry" json:"entry_id"`
	CreatedAt time.Time `json:"created_at"`
	Juror     Juror     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"juror"`
	Entry     Entry     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"entry"`
}
