package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/ignite-fest/jury-api/internal/models"
)

// EntryRepository exposes read access to competition entries. Entries are
// owned by the registration service; the jury API never mutates them beyond
// seeding.
type EntryRepository interface {
	List(ctx context.Context) ([]models.Entry, error)
	ListEligible(ctx context.Context) ([]models.Entry, error)
	GetByID(ctx context.Context, id uint) (models.Entry, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Entry, error)
	Create(ctx context.Context, entry *models.Entry) error
}

type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository instantiates the repository.
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

func (r *entryRepository) List(ctx context.Context) ([]models.Entry, error) {
	var entries []models.Entry
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *entryRepository) ListEligible(ctx context.Context) ([]models.Entry, error) {
	var entries []models.Entry
	if err := r.db.WithContext(ctx).
		Where("status = ?", models.EntryStatusApproved).
		Order("code ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *entryRepository) GetByID(ctx context.Context, id uint) (models.Entry, error) {
	var entry models.Entry
	if err := r.db.WithContext(ctx).First(&entry, id).Error; err != nil {
		return models.Entry{}, err
	}

	return entry, nil
}

func (r *entryRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Entry, error) {
	if len(ids) == 0 {
		return []models.Entry{}, nil
	}

	var entries []models.Entry
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *entryRepository) Create(ctx context.Context, entry *models.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}
