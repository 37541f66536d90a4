// Package scoring computes derived evaluation scores. It is pure and
// deterministic: callers pass rating snapshots plus the weight table and get
// back the full score tuple, with no persistence involved.
package scoring

import "github.com/ignite-fest/jury-api/internal/models"

// Breakdown is the derived score tuple stored on every evaluation.
type Breakdown struct {
	TotalScore       float64
	MaxPossibleScore float64
	WeightedScore    float64
}

// Compute derives the score tuple from rating snapshots. Weights are keyed
// by question ID; a rating whose question is missing from the table, or
// whose snapshot max is zero, contributes nothing to the weighted score
// rather than causing a division fault.
func Compute(ratings []models.Rating, weights map[uint]float64) Breakdown {
	var breakdown Breakdown

	for _, rating := range ratings {
		breakdown.TotalScore += rating.Score
		breakdown.MaxPossibleScore += float64(rating.MaxScore)

		if rating.MaxScore <= 0 {
			continue
		}

		weight, ok := weights[rating.QuestionID]
		if !ok {
			continue
		}

		breakdown.WeightedScore += rating.Score / float64(rating.MaxScore) * weight
	}

	return breakdown
}

// Percentage returns total/max as a percentage, or 0 when max is zero.
func Percentage(total, maxPossible float64) float64 {
	if maxPossible == 0 {
		return 0
	}

	return total / maxPossible * 100
}

// WeightTable builds the question-id to weight lookup used by Compute.
func WeightTable(questions []models.RubricQuestion) map[uint]float64 {
	weights := make(map[uint]float64, len(questions))
	for _, question := range questions {
		weights[question.ID] = question.WeightPercent
	}

	return weights
}

// WeightSum totals the weight of the provided questions. The rubric is
// meant to sum to 100 but the engine keeps computing when it does not; the
// sum is exposed so operators can reconcile the rubric.
func WeightSum(questions []models.RubricQuestion) float64 {
	var sum float64
	for _, question := range questions {
		sum += question.WeightPercent
	}

	return sum
}
