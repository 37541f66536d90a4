package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ignite-fest/jury-api/internal/models"
)

func setupTestDB(t *testing.T, entities ...interface{}) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(entities...))
	return db
}

func setupEvaluationTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return setupTestDB(t, &models.Juror{}, &models.Entry{}, &models.Evaluation{})
}

func TestEvaluationRepositoryCreateIfAbsent(t *testing.T) {
	db := setupEvaluationTestDB(t)
	repo := NewEvaluationRepository(db)

	require.NoError(t, db.Create(&models.Juror{ID: 7, Name: "Dewi", Email: "dewi@example.com", Role: models.RoleJuror, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Entry{ID: 3, Code: "E-001", Title: "Alpha", Status: models.EntryStatusApproved}).Error)

	first := models.Evaluation{JurorID: 7, EntryID: 3, Status: models.EvaluationStatusDraft, Version: 1}
	require.NoError(t, repo.CreateIfAbsent(context.Background(), &first))

	// A second insert for the same pair is silently skipped.
	duplicate := models.Evaluation{JurorID: 7, EntryID: 3, Status: models.EvaluationStatusDraft, Version: 1}
	require.NoError(t, repo.CreateIfAbsent(context.Background(), &duplicate))

	var count int64
	require.NoError(t, db.Model(&models.Evaluation{}).Count(&count).Error)
	require.Equal(t, int64(1), count)

	stored, err := repo.GetByJurorAndEntry(context.Background(), 7, 3)
	require.NoError(t, err)
	require.Equal(t, models.EvaluationStatusDraft, stored.Status)
	require.Equal(t, "Dewi", stored.Juror.Name)
	require.Equal(t, "E-001", stored.Entry.Code)
}

func TestEvaluationRepositoryGetByJurorAndEntryNotFound(t *testing.T) {
	db := setupEvaluationTestDB(t)
	repo := NewEvaluationRepository(db)

	_, err := repo.GetByJurorAndEntry(context.Background(), 7, 3)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEvaluationRepositoryUpdateVersioned(t *testing.T) {
	db := setupEvaluationTestDB(t)
	repo := NewEvaluationRepository(db)

	evaluation := models.Evaluation{JurorID: 7, EntryID: 3, Status: models.EvaluationStatusDraft, Version: 1}
	require.NoError(t, repo.CreateIfAbsent(context.Background(), &evaluation))

	evaluation.Status = models.EvaluationStatusSubmitted
	evaluation.WeightedScore = 88

	applied, err := repo.UpdateVersioned(context.Background(), &evaluation, 1)
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, 2, evaluation.Version)

	stored, err := repo.GetByID(context.Background(), evaluation.ID)
	require.NoError(t, err)
	require.Equal(t, models.EvaluationStatusSubmitted, stored.Status)
	require.Equal(t, 88.0, stored.WeightedScore)
	require.Equal(t, 2, stored.Version)

	// A stale writer loses the race and changes nothing.
	stale := stored
	stale.Status = models.EvaluationStatusLocked
	applied, err = repo.UpdateVersioned(context.Background(), &stale, 1)
	require.NoError(t, err)
	require.False(t, applied)

	unchanged, err := repo.GetByID(context.Background(), evaluation.ID)
	require.NoError(t, err)
	require.Equal(t, models.EvaluationStatusSubmitted, unchanged.Status)
	require.Equal(t, 2, unchanged.Version)
}

func TestEvaluationRepositoryListFiltersAndCountable(t *testing.T) {
	db := setupEvaluationTestDB(t)
	repo := NewEvaluationRepository(db)

	seed := []models.Evaluation{
		{JurorID: 7, EntryID: 1, Status: models.EvaluationStatusDraft, Version: 1},
		{JurorID: 7, EntryID: 2, Status: models.EvaluationStatusSubmitted, Version: 2},
		{JurorID: 8, EntryID: 1, Status: models.EvaluationStatusLocked, Version: 3},
		{JurorID: 8, EntryID: 2, Status: models.EvaluationStatusSentBack, Version: 4},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	jurorID := uint(7)
	mine, err := repo.List(context.Background(), EvaluationFilter{JurorID: &jurorID})
	require.NoError(t, err)
	require.Len(t, mine, 2)

	status := models.EvaluationStatusSubmitted
	submitted, err := repo.List(context.Background(), EvaluationFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, submitted, 1)
	require.Equal(t, uint(7), submitted[0].JurorID)

	countable, err := repo.ListCountable(context.Background())
	require.NoError(t, err)
	require.Len(t, countable, 2)
	for _, evaluation := range countable {
		require.True(t, evaluation.IsCountable())
	}
}
