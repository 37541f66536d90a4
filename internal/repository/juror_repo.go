package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ignite-fest/jury-api/internal/models"
)

// JurorRepository defines data operations for jury members.
type JurorRepository interface {
	GetByID(ctx context.Context, id uint) (models.Juror, error)
	ListActive(ctx context.Context) ([]models.Juror, error)
	Create(ctx context.Context, juror *models.Juror) error
}

type jurorRepository struct {
	db *gorm.DB
}

// NewJurorRepository instantiates the repository.
func NewJurorRepository(db *gorm.DB) JurorRepository {
	return &jurorRepository{db: db}
}

func (r *jurorRepository) GetByID(ctx context.Context, id uint) (models.Juror, error) {
	var juror models.Juror
	if err := r.db.WithContext(ctx).First(&juror, id).Error; err != nil {
		return models.Juror{}, err
	}

	return juror, nil
}

func (r *jurorRepository) ListActive(ctx context.Context) ([]models.Juror, error) {
	var jurors []models.Juror
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&jurors).Error; err != nil {
		return nil, err
	}

	return jurors, nil
}

func (r *jurorRepository) Create(ctx context.Context, juror *models.Juror) error {
	return r.db.WithContext(ctx).Create(juror).Error
}
