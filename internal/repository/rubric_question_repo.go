package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ignite-fest/jury-api/internal/models"
)

// RubricQuestionRepository defines data operations for rubric questions.
// Questions are only ever soft-deleted via the IsActive flag.
type RubricQuestionRepository interface {
	Create(ctx context.Context, question *models.RubricQuestion) error
	Update(ctx context.Context, question *models.RubricQuestion) error
	GetByID(ctx context.Context, id uint) (models.RubricQuestion, error)
	ListActive(ctx context.Context) ([]models.RubricQuestion, error)
	List(ctx context.Context) ([]models.RubricQuestion, error)
}

type rubricQuestionRepository struct {
	db *gorm.DB
}

// NewRubricQuestionRepository instantiates the repository.
func NewRubricQuestionRepository(db *gorm.DB) RubricQuestionRepository {
	return &rubricQuestionRepository{db: db}
}

func (r *rubricQuestionRepository) Create(ctx context.Context, question *models.RubricQuestion) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *rubricQuestionRepository) Update(ctx context.Context, question *models.RubricQuestion) error {
	return r.db.WithContext(ctx).Save(question).Error
}

func (r *rubricQuestionRepository) GetByID(ctx context.Context, id uint) (models.RubricQuestion, error) {
	var question models.RubricQuestion
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.RubricQuestion{}, err
	}

	return question, nil
}

func (r *rubricQuestionRepository) ListActive(ctx context.Context) ([]models.RubricQuestion, error) {
	var questions []models.RubricQuestion
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("position ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *rubricQuestionRepository) List(ctx context.Context) ([]models.RubricQuestion, error) {
	var questions []models.RubricQuestion
	if err := r.db.WithContext(ctx).
		Order("position ASC, id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}
