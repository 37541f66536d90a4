package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ignite-fest/jury-api/internal/models"
)

func TestEntryRepositoryListEligible(t *testing.T) {
	db := setupTestDB(t, &models.Entry{})
	repo := NewEntryRepository(db)

	entries := []models.Entry{
		{Code: "E-002", Title: "Beta", Status: models.EntryStatusApproved},
		{Code: "E-001", Title: "Alpha", Status: models.EntryStatusApproved},
		{Code: "E-003", Title: "Gamma", Status: models.EntryStatusPending},
		{Code: "E-004", Title: "Delta", Status: models.EntryStatusRejected},
	}
	for i := range entries {
		require.NoError(t, repo.Create(context.Background(), &entries[i]))
	}

	eligible, err := repo.ListEligible(context.Background())
	require.NoError(t, err)
	require.Len(t, eligible, 2)
	require.Equal(t, "E-001", eligible[0].Code)
	require.Equal(t, "E-002", eligible[1].Code)
}

func TestEntryRepositoryGetByIDs(t *testing.T) {
	db := setupTestDB(t, &models.Entry{})
	repo := NewEntryRepository(db)

	entries := []models.Entry{
		{Code: "E-001", Title: "Alpha", Status: models.EntryStatusApproved},
		{Code: "E-002", Title: "Beta", Status: models.EntryStatusApproved},
	}
	for i := range entries {
		require.NoError(t, repo.Create(context.Background(), &entries[i]))
	}

	found, err := repo.GetByIDs(context.Background(), []uint{entries[0].ID, 999})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "E-001", found[0].Code)
}
