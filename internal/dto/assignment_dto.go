package dto

import (
	"time"

	"github.com/ignite-fest/jury-api/internal/models"
)

// AssignRequest assigns one juror to a set of entries.
type AssignRequest struct {
	JurorID  uint   `json:"juror_id" validate:"required,gt=0"`
	EntryIDs []uint `json:"entry_ids" validate:"required,min=1,dive,gt=0"`
}

// AssignmentReport summarizes the outcome of an assignment operation.
// Skipped counts pairs that already existed; re-running the same request is
// expected to report everything as skipped.
type AssignmentReport struct {
	Created int64 `json:"created"`
	Skipped int64 `json:"skipped"`
}

// AssignmentResponse serializes a juror-to-entry relation.
type AssignmentResponse struct {
	ID        uint      `json:"id"`
	JurorID   uint      `json:"juror_id"`
	EntryID   uint      `json:"entry_id"`
	JurorName string    `json:"juror_name,omitempty"`
	EntryCode string    `json:"entry_code,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EntrySummary describes an entry from the juror's point of view.
type EntrySummary struct {
	ID       uint   `json:"id"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	TeamName string `json:"team_name"`
	Status   string `json:"status"`
}

// NewAssignmentResponse converts a JuryAssignment model into a DTO.
func NewAssignmentResponse(model models.JuryAssignment) AssignmentResponse {
	response := AssignmentResponse{
		ID:        model.ID,
		JurorID:   model.JurorID,
		EntryID:   model.EntryID,
		CreatedAt: model.CreatedAt,
	}

	if model.Juror.ID != 0 {
		response.JurorName = model.Juror.Name
	}

	if model.Entry.ID != 0 {
		response.EntryCode = model.Entry.Code
	}

	return response
}

// NewAssignmentResponseSlice converts assignment models into DTOs.
func NewAssignmentResponseSlice(assignments []models.JuryAssignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}

// NewEntrySummary converts an Entry model into a summary DTO.
func NewEntrySummary(model models.Entry) EntrySummary {
	return EntrySummary{
		ID:       model.ID,
		Code:     model.Code,
		Title:    model.Title,
		TeamName: model.TeamName,
		Status:   model.Status,
	}
}

// NewEntrySummarySlice converts entry models into summary DTOs.
func NewEntrySummarySlice(entries []models.Entry) []EntrySummary {
	summaries := make([]EntrySummary, 0, len(entries))
	for _, entry := range entries {
		summaries = append(summaries, NewEntrySummary(entry))
	}

	return summaries
}
