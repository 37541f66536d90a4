package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ignite-fest/jury-api/internal/models"
)

// EvaluationFilter narrows evaluation queries.
type EvaluationFilter struct {
	JurorID *uint
	EntryID *uint
	Status  *string
}

// EvaluationRepository defines data operations for evaluations.
type EvaluationRepository interface {
	GetByID(ctx context.Context, id uint) (models.Evaluation, error)
	GetByJurorAndEntry(ctx context.Context, jurorID, entryID uint) (models.Evaluation, error)
	// CreateIfAbsent inserts a blank record for the pair unless one already
	// exists. The unique index on (juror_id, entry_id) guarantees at most
	// one record per pair even under concurrent first access.
	CreateIfAbsent(ctx context.Context, evaluation *models.Evaluation) error
	// UpdateVersioned writes the full evaluation tuple in a single
	// conditional statement guarded by the expected version. It reports
	// false when the record changed underneath the caller.
	UpdateVersioned(ctx context.Context, evaluation *models.Evaluation, expectedVersion int) (bool, error)
	List(ctx context.Context, filter EvaluationFilter) ([]models.Evaluation, error)
	ListCountable(ctx context.Context) ([]models.Evaluation, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

// NewEvaluationRepository instantiates the repository.
func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Evaluation{}).
		Preload("Juror").
		Preload("Entry")
}

func (r *evaluationRepository) GetByID(ctx context.Context, id uint) (models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := r.baseQuery(ctx).First(&evaluation, id).Error; err != nil {
		return models.Evaluation{}, err
	}

	return evaluation, nil
}

func (r *evaluationRepository) GetByJurorAndEntry(ctx context.Context, jurorID, entryID uint) (models.Evaluation, error) {
	var evaluation models.Evaluation
	if err := r.baseQuery(ctx).
		Where("juror_id = ?", jurorID).
		Where("entry_id = ?", entryID).
		First(&evaluation).Error; err != nil {
		return models.Evaluation{}, err
	}

	return evaluation, nil
}

func (r *evaluationRepository) CreateIfAbsent(ctx context.Context, evaluation *models.Evaluation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "juror_id"}, {Name: "entry_id"}},
			DoNothing: true,
		}).
		Create(evaluation).Error
}

func (r *evaluationRepository) UpdateVersioned(ctx context.Context, evaluation *models.Evaluation, expectedVersion int) (bool, error) {
	evaluation.Version = expectedVersion + 1
	evaluation.UpdatedAt = time.Now()

	result := r.db.WithContext(ctx).Model(&models.Evaluation{}).
		Where("id = ?", evaluation.ID).
		Where("version = ?", expectedVersion).
		Updates(map[string]interface{}{
			"status":             evaluation.Status,
			"ratings":            evaluation.Ratings,
			"overall_comment":    evaluation.OverallComment,
			"total_score":        evaluation.TotalScore,
			"max_possible_score": evaluation.MaxPossibleScore,
			"weighted_score":     evaluation.WeightedScore,
			"submitted_at":       evaluation.SubmittedAt,
			"locked_at":          evaluation.LockedAt,
			"sent_back_at":       evaluation.SentBackAt,
			"sent_back_reason":   evaluation.SentBackReason,
			"version":            evaluation.Version,
			"updated_at":         evaluation.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *evaluationRepository) List(ctx context.Context, filter EvaluationFilter) ([]models.Evaluation, error) {
	query := r.baseQuery(ctx)

	if filter.JurorID != nil {
		query = query.Where("juror_id = ?", *filter.JurorID)
	}

	if filter.EntryID != nil {
		query = query.Where("entry_id = ?", *filter.EntryID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var evaluations []models.Evaluation
	if err := query.Order("entry_id ASC, juror_id ASC").Find(&evaluations).Error; err != nil {
		return nil, err
	}

	return evaluations, nil
}

func (r *evaluationRepository) ListCountable(ctx context.Context) ([]models.Evaluation, error) {
	var evaluations []models.Evaluation
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []string{models.EvaluationStatusSubmitted, models.EvaluationStatusLocked}).
		Order("entry_id ASC, juror_id ASC").
		Find(&evaluations).Error; err != nil {
		return nil, err
	}

	return evaluations, nil
}
