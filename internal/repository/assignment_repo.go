package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ignite-fest/jury-api/internal/models"
)

// AssignmentRepository persists the juror-to-entry relation.
type AssignmentRepository interface {
	// CreatePairs inserts the given pairs, silently skipping any that
	// already exist, and returns the number actually created. Safe to
	// re-run after a partial failure.
	CreatePairs(ctx context.Context, pairs []models.JuryAssignment) (int64, error)
	Exists(ctx context.Context, jurorID, entryID uint) (bool, error)
	List(ctx context.Context) ([]models.JuryAssignment, error)
	ListByJuror(ctx context.Context, jurorID uint) ([]models.JuryAssignment, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) CreatePairs(ctx context.Context, pairs []models.JuryAssignment) (int64, error) {
	if len(pairs) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "juror_id"}, {Name: "entry_id"}},
			DoNothing: true,
		}).
		Create(&pairs)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

func (r *assignmentRepository) Exists(ctx context.Context, jurorID, entryID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.JuryAssignment{}).
		Where("juror_id = ?", jurorID).
		Where("entry_id = ?", entryID).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *assignmentRepository) List(ctx context.Context) ([]models.JuryAssignment, error) {
	var assignments []models.JuryAssignment
	if err := r.db.WithContext(ctx).
		Preload("Juror").
		Preload("Entry").
		Order("juror_id ASC, entry_id ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) ListByJuror(ctx context.Context, jurorID uint) ([]models.JuryAssignment, error) {
	var assignments []models.JuryAssignment
	if err := r.db.WithContext(ctx).
		Preload("Entry").
		Where("juror_id = ?", jurorID).
		Order("entry_id ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}
