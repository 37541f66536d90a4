package dto

import (
	"time"

	"github.com/ignite-fest/jury-api/internal/models"
)

// QuestionCreateRequest is the payload for adding a rubric question.
type QuestionCreateRequest struct {
	Text          string  `json:"text" validate:"required,min=3"`
	Description   string  `json:"description"`
	MaxScore      int     `json:"max_score" validate:"required,gte=1"`
	WeightPercent float64 `json:"weight_percent" validate:"gte=0,lte=100"`
	Position      int     `json:"position" validate:"gte=0"`
}

// QuestionUpdateRequest updates an existing rubric question.
type QuestionUpdateRequest struct {
	Text          *string  `json:"text" validate:"omitempty,min=3"`
	Description   *string  `json:"description"`
	MaxScore      *int     `json:"max_score" validate:"omitempty,gte=1"`
	WeightPercent *float64 `json:"weight_percent" validate:"omitempty,gte=0,lte=100"`
	Position      *int     `json:"position" validate:"omitempty,gte=0"`
}

// QuestionResponse serializes a rubric question.
type QuestionResponse struct {
	ID            uint      `json:"id"`
	Text          string    `json:"text"`
	Description   string    `json:"description"`
	MaxScore      int       `json:"max_score"`
	WeightPercent float64   `json:"weight_percent"`
	Position      int       `json:"position"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// RubricResponse lists the active rubric together with its weight total so
// operators can spot an unbalanced rubric.
type RubricResponse struct {
	Questions []QuestionResponse `json:"questions"`
	WeightSum float64            `json:"weight_sum"`
	Balanced  bool               `json:"balanced"`
}

// NewQuestionResponse converts a RubricQuestion model into a DTO.
func NewQuestionResponse(model models.RubricQuestion) QuestionResponse {
	return QuestionResponse{
		ID:            model.ID,
		Text:          model.Text,
		Description:   model.Description,
		MaxScore:      model.MaxScore,
		WeightPercent: model.WeightPercent,
		Position:      model.Position,
		IsActive:      model.IsActive,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

// NewQuestionResponseSlice converts question models into DTOs.
func NewQuestionResponseSlice(questions []models.RubricQuestion) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question))
	}

	return responses
}
