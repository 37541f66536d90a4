package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Evaluation is the central record of the scoring workflow: one per
// (juror, entry) pair, created lazily on first access and never deleted.
// Ratings are stored as snapshots so later rubric edits do not rewrite
// recorded scores. Version backs the optimistic concurrency check on every
// mutation.
type Evaluation struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	JurorID          uint           `gorm:"not null;uniqueIndex:idx_evaluations_juror_entry" json:"juror_id"`
	EntryID          uint           `gorm:"not null;uniqueIndex:idx_evaluations_juror_entry" json:"entry_id"`
	Status           string         `gorm:"size:32;not null;default:draft" json:"status"`
	Ratings          datatypes.JSON `json:"ratings"`
	OverallComment   string         `gorm:"type:text" json:"overall_comment"`
	TotalScore       float64        `gorm:"not null;default:0" json:"total_score"`
	MaxPossibleScore float64        `gorm:"not null;default:0" json:"max_possible_score"`
	WeightedScore    float64        `gorm:"not null;default:0" json:"weighted_score"`
	SubmittedAt      *time.Time     `json:"submitted_at"`
	LockedAt         *time.Time     `json:"locked_at"`
	SentBackAt       *time.Time     `json:"sent_back_at"`
	SentBackReason   string         `gorm:"type:text" json:"sent_back_reason"`
	Version          int            `gorm:"not null;default:1" json:"version"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	Juror            Juror          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"juror"`
	Entry            Entry          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"entry"`
}

const (
	// EvaluationStatusDraft is the initial state; only the owning juror may write.
	EvaluationStatusDraft = "draft"
	// EvaluationStatusSubmitted indicates the juror finished scoring.
	EvaluationStatusSubmitted = "submitted"
	// EvaluationStatusLocked is terminal for juror writes until an admin reopens.
	EvaluationStatusLocked = "locked"
	// EvaluationStatusSentBack indicates an admin returned the evaluation for rework.
	EvaluationStatusSentBack = "sent_back"
)

// Rating stores one scored rubric criterion with the question text and max
// score copied at rating time.
type Rating struct {
	QuestionID   uint    `json:"question_id"`
	QuestionText string  `json:"question_text"`
	Score        float64 `json:"score"`
	MaxScore     int     `json:"max_score"`
	Comment      string  `json:"comment,omitempty"`
}

// IsEditable reports whether the owning juror may still save ratings.
func (e Evaluation) IsEditable() bool {
	return e.Status == EvaluationStatusDraft || e.Status == EvaluationStatusSentBack
}

// IsCountable reports whether the evaluation contributes to the scoreboard.
func (e Evaluation) IsCountable() bool {
	return e.Status == EvaluationStatusSubmitted || e.Status == EvaluationStatusLocked
}

// DecodeRatings unmarshals the stored rating snapshots.
func (e Evaluation) DecodeRatings() ([]Rating, error) {
	if len(e.Ratings) == 0 {
		return []Rating{}, nil
	}

	var ratings []Rating
	if err := json.Unmarshal(e.Ratings, &ratings); err != nil {
		return nil, err
	}

	return ratings, nil
}

// EncodeRatings marshals rating snapshots into the JSON column format.
func EncodeRatings(ratings []Rating) (datatypes.JSON, error) {
	if ratings == nil {
		ratings = []Rating{}
	}

	payload, err := json.Marshal(ratings)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(payload), nil
}
