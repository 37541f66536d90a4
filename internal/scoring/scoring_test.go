package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ignite-fest/jury-api/internal/models"
)

func TestComputeWeightedBreakdown(t *testing.T) {
	weights := map[uint]float64{1: 60, 2: 40}
	ratings := []models.Rating{
		{QuestionID: 1, Score: 8, MaxScore: 10},
		{QuestionID: 2, Score: 5, MaxScore: 5},
	}

	breakdown := Compute(ratings, weights)
	require.Equal(t, 13.0, breakdown.TotalScore)
	require.Equal(t, 15.0, breakdown.MaxPossibleScore)
	require.InDelta(t, 88.0, breakdown.WeightedScore, 1e-9)
}

func TestComputeZeroRatingsYieldZeroWeighted(t *testing.T) {
	weights := map[uint]float64{1: 60, 2: 40}
	ratings := []models.Rating{
		{QuestionID: 1, Score: 0, MaxScore: 10},
		{QuestionID: 2, Score: 0, MaxScore: 5},
	}

	breakdown := Compute(ratings, weights)
	require.Zero(t, breakdown.TotalScore)
	require.Zero(t, breakdown.WeightedScore)
	require.Equal(t, 15.0, breakdown.MaxPossibleScore)
}

func TestComputeBoundedByWeightSum(t *testing.T) {
	weights := map[uint]float64{1: 55, 2: 45}
	ratings := []models.Rating{
		{QuestionID: 1, Score: 10, MaxScore: 10},
		{QuestionID: 2, Score: 7, MaxScore: 7},
	}

	breakdown := Compute(ratings, weights)
	require.InDelta(t, 100.0, breakdown.WeightedScore, 1e-9)
	require.LessOrEqual(t, breakdown.WeightedScore, weights[1]+weights[2])
}

func TestComputeSkipsZeroMaxSnapshot(t *testing.T) {
	weights := map[uint]float64{1: 50, 2: 50}
	ratings := []models.Rating{
		{QuestionID: 1, Score: 3, MaxScore: 0},
		{QuestionID: 2, Score: 4, MaxScore: 8},
	}

	breakdown := Compute(ratings, weights)
	require.Equal(t, 7.0, breakdown.TotalScore)
	require.Equal(t, 8.0, breakdown.MaxPossibleScore)
	require.InDelta(t, 25.0, breakdown.WeightedScore, 1e-9)
}

func TestComputeIgnoresUnknownQuestionWeight(t *testing.T) {
	weights := map[uint]float64{1: 100}
	ratings := []models.Rating{
		{QuestionID: 1, Score: 5, MaxScore: 10},
		{QuestionID: 99, Score: 5, MaxScore: 10},
	}

	breakdown := Compute(ratings, weights)
	require.InDelta(t, 50.0, breakdown.WeightedScore, 1e-9)
	require.Equal(t, 10.0, breakdown.TotalScore)
}

func TestComputeEmptyRatings(t *testing.T) {
	breakdown := Compute(nil, map[uint]float64{1: 100})
	require.Zero(t, breakdown.TotalScore)
	require.Zero(t, breakdown.MaxPossibleScore)
	require.Zero(t, breakdown.WeightedScore)
}

func TestPercentageGuardsZeroMax(t *testing.T) {
	require.Zero(t, Percentage(10, 0))
	require.InDelta(t, 86.666666, Percentage(13, 15), 1e-5)
}

func TestWeightSum(t *testing.T) {
	questions := []models.RubricQuestion{
		{ID: 1, WeightPercent: 60},
		{ID: 2, WeightPercent: 40},
	}
	require.InDelta(t, 100.0, WeightSum(questions), 1e-9)
	require.Zero(t, WeightSum(nil))
}

func TestWeightTable(t *testing.T) {
	questions := []models.RubricQuestion{
		{ID: 1, WeightPercent: 60},
		{ID: 2, WeightPercent: 40},
	}

	table := WeightTable(questions)
	require.Len(t, table, 2)
	require.Equal(t, 60.0, table[1])
	require.Equal(t, 40.0, table[2])
}
