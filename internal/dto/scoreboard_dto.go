package dto

import "time"

// ScoreboardRow is one ranked entry on the live scoreboard. Rows are
// computed on demand, never persisted.
type ScoreboardRow struct {
	Rank            int     `json:"rank"`
	EntryID         uint    `json:"entry_id"`
	EntryCode       string  `json:"entry_code"`
	EntryTitle      string  `json:"entry_title"`
	TeamName        string  `json:"team_name"`
	AverageScore    float64 `json:"average_score"`
	EvaluationCount int     `json:"evaluation_count"`
}

// ScoreboardResponse carries the full ranking.
type ScoreboardResponse struct {
	Rows        []ScoreboardRow `json:"rows"`
	GeneratedAt time.Time       `json:"generated_at"`
}
