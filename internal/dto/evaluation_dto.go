package dto

import (
	"time"

	"github.com/ignite-fest/jury-api/internal/models"
	"github.com/ignite-fest/jury-api/internal/scoring"
)

// RatingInput is one scored criterion inside a save request. The question
// text and max score are snapshotted server-side; callers only send the
// question id, the score and an optional comment.
type RatingInput struct {
	QuestionID uint    `json:"question_id" validate:"required,gt=0"`
	Score      float64 `json:"score" validate:"gte=0"`
	Comment    string  `json:"comment"`
}

// EvaluationSaveRequest carries a juror's draft ratings. Version echoes the
// version the juror last read so a concurrent admin transition is detected
// instead of overwritten.
type EvaluationSaveRequest struct {
	Ratings        []RatingInput `json:"ratings" validate:"dive"`
	OverallComment string        `json:"overall_comment"`
	Version        int           `json:"version" validate:"required,gte=1"`
}

// EvaluationSubmitRequest finalizes an evaluation.
type EvaluationSubmitRequest struct {
	Version int `json:"version" validate:"required,gte=1"`
}

// EvaluationListFilter narrows admin evaluation listings.
type EvaluationListFilter struct {
	JurorID *uint   `query:"juror_id"`
	EntryID *uint   `query:"entry_id"`
	Status  *string `query:"status" validate:"omitempty,oneof=draft submitted locked sent_back"`
}

// RatingResponse serializes a stored rating snapshot.
type RatingResponse struct {
	QuestionID   uint    `json:"question_id"`
	QuestionText string  `json:"question_text"`
	Score        float64 `json:"score"`
	MaxScore     int     `json:"max_score"`
	Comment      string  `json:"comment,omitempty"`
}

// JurorLite summarizes a juror in evaluation responses.
type JurorLite struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// EvaluationResponse is returned to API clients when viewing evaluations.
type EvaluationResponse struct {
	ID               uint             `json:"id"`
	JurorID          uint             `json:"juror_id"`
	EntryID          uint             `json:"entry_id"`
	Status           string           `json:"status"`
	Ratings          []RatingResponse `json:"ratings"`
	OverallComment   string           `json:"overall_comment"`
	TotalScore       float64          `json:"total_score"`
	MaxPossibleScore float64          `json:"max_possible_score"`
	WeightedScore    float64          `json:"weighted_score"`
	ScorePercent     float64          `json:"score_percent"`
	SubmittedAt      *time.Time       `json:"submitted_at"`
	LockedAt         *time.Time       `json:"locked_at"`
	SentBackAt       *time.Time       `json:"sent_back_at"`
	SentBackReason   string           `json:"sent_back_reason,omitempty"`
	Version          int              `json:"version"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Juror            JurorLite        `json:"juror,omitempty"`
	Entry            EntrySummary     `json:"entry,omitempty"`
}

// NewEvaluationResponse converts an Evaluation model into a DTO. Rating
// snapshots that fail to decode are surfaced as an empty list rather than an
// error: the stored scores remain authoritative.
func NewEvaluationResponse(model models.Evaluation) EvaluationResponse {
	response := EvaluationResponse{
		ID:               model.ID,
		JurorID:          model.JurorID,
		EntryID:          model.EntryID,
		Status:           model.Status,
		Ratings:          []RatingResponse{},
		OverallComment:   model.OverallComment,
		TotalScore:       model.TotalScore,
		MaxPossibleScore: model.MaxPossibleScore,
		WeightedScore:    model.WeightedScore,
		ScorePercent:     scoring.Percentage(model.TotalScore, model.MaxPossibleScore),
		SubmittedAt:      model.SubmittedAt,
		LockedAt:         model.LockedAt,
		SentBackAt:       model.SentBackAt,
		SentBackReason:   model.SentBackReason,
		Version:          model.Version,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}

	if ratings, err := model.DecodeRatings(); err == nil {
		for _, rating := range ratings {
			response.Ratings = append(response.Ratings, RatingResponse{
				QuestionID:   rating.QuestionID,
				QuestionText: rating.QuestionText,
				Score:        rating.Score,
				MaxScore:     rating.MaxScore,
				Comment:      rating.Comment,
			})
		}
	}

	if model.Juror.ID != 0 {
		response.Juror = JurorLite{ID: model.Juror.ID, Name: model.Juror.Name}
	}

	if model.Entry.ID != 0 {
		response.Entry = NewEntrySummary(model.Entry)
	}

	return response
}

// NewEvaluationResponseSlice converts evaluation models into DTOs.
func NewEvaluationResponseSlice(evaluations []models.Evaluation) []EvaluationResponse {
	responses := make([]EvaluationResponse, 0, len(evaluations))
	for _, evaluation := range evaluations {
		responses = append(responses, NewEvaluationResponse(evaluation))
	}

	return responses
}
