package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/ignite-fest/jury-api/internal/models"
)

func TestScoreboardServiceExcludesNonCountable(t *testing.T) {
	entries := &fakeEntryRepo{entries: []models.Entry{
		{ID: 1, Code: "E-001", Title: "Alpha", Status: models.EntryStatusApproved},
		{ID: 2, Code: "E-002", Title: "Beta", Status: models.EntryStatusApproved},
	}}
	evaluations := newFakeEvaluationRepo(
		models.Evaluation{ID: 1, JurorID: 7, EntryID: 1, Status: models.EvaluationStatusLocked, WeightedScore: 88, Version: 3},
		models.Evaluation{ID: 2, JurorID: 8, EntryID: 1, Status: models.EvaluationStatusDraft, WeightedScore: 10, Version: 1},
		models.Evaluation{ID: 3, JurorID: 9, EntryID: 1, Status: models.EvaluationStatusSentBack, WeightedScore: 95, Version: 2},
	)
	svc := NewScoreboardService(entries, evaluations, nil, time.Minute, testLogger())

	board, err := svc.Compute(context.Background())
	require.NoError(t, err)
	require.Len(t, board.Rows, 2)

	require.Equal(t, uint(1), board.Rows[0].EntryID)
	require.Equal(t, 88.0, board.Rows[0].AverageScore)
	require.Equal(t, 1, board.Rows[0].EvaluationCount)
	require.Equal(t, 1, board.Rows[0].Rank)

	// Unevaluated entries trail the board but are never dropped.
	require.Equal(t, uint(2), board.Rows[1].EntryID)
	require.Equal(t, 0.0, board.Rows[1].AverageScore)
	require.Equal(t, 0, board.Rows[1].EvaluationCount)
	require.Equal(t, 2, board.Rows[1].Rank)
}

func TestScoreboardServiceAveragesAndOrdering(t *testing.T) {
	entries := &fakeEntryRepo{entries: []models.Entry{
		{ID: 1, Code: "E-001", Title: "Alpha", Status: models.EntryStatusApproved},
		{ID: 2, Code: "E-002", Title: "Beta", Status: models.EntryStatusApproved},
		{ID: 3, Code: "E-003", Title: "Gamma", Status: models.EntryStatusApproved},
	}}
	evaluations := newFakeEvaluationRepo(
		models.Evaluation{ID: 1, JurorID: 7, EntryID: 1, Status: models.EvaluationStatusSubmitted, WeightedScore: 80, Version: 2},
		models.Evaluation{ID: 2, JurorID: 8, EntryID: 1, Status: models.EvaluationStatusSubmitted, WeightedScore: 90, Version: 2},
		models.Evaluation{ID: 3, JurorID: 7, EntryID: 2, Status: models.EvaluationStatusSubmitted, WeightedScore: 85, Version: 2},
		models.Evaluation{ID: 4, JurorID: 7, EntryID: 3, Status: models.EvaluationStatusSubmitted, WeightedScore: 85, Version: 2},
	)
	svc := NewScoreboardService(entries, evaluations, nil, time.Minute, testLogger())

	board, err := svc.Compute(context.Background())
	require.NoError(t, err)
	require.Len(t, board.Rows, 3)

	// Entry 1 averages (80+90)/2 = 85, tying entries 2 and 3; ties resolve
	// by entry code ascending.
	require.Equal(t, "E-001", board.Rows[0].EntryCode)
	require.Equal(t, "E-002", board.Rows[1].EntryCode)
	require.Equal(t, "E-003", board.Rows[2].EntryCode)
	for i, row := range board.Rows {
		require.Equal(t, 85.0, row.AverageScore)
		require.Equal(t, i+1, row.Rank)
	}
}

func TestScoreboardServiceCachesAndInvalidates(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	cache := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	entries := &fakeEntryRepo{entries: []models.Entry{
		{ID: 1, Code: "E-001", Title: "Alpha", Status: models.EntryStatusApproved},
	}}
	evaluations := newFakeEvaluationRepo(
		models.Evaluation{ID: 1, JurorID: 7, EntryID: 1, Status: models.EvaluationStatusSubmitted, WeightedScore: 70, Version: 2},
	)
	svc := NewScoreboardService(entries, evaluations, cache, time.Minute, testLogger())

	board, err := svc.Compute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 70.0, board.Rows[0].AverageScore)
	require.True(t, mini.Exists("jury:scoreboard"))

	// A new submission does not show up until the cache is dropped.
	evaluations.evaluations[2] = models.Evaluation{ID: 2, JurorID: 8, EntryID: 1, Status: models.EvaluationStatusSubmitted, WeightedScore: 90, Version: 2}

	board, err = svc.Compute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 70.0, board.Rows[0].AverageScore)

	svc.Invalidate(context.Background())
	require.False(t, mini.Exists("jury:scoreboard"))

	board, err = svc.Compute(context.Background())
	require.NoError(t, err)
	require.Equal(t, 80.0, board.Rows[0].AverageScore)
	require.Equal(t, 2, board.Rows[0].EvaluationCount)
}
