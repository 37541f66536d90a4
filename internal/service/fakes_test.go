package service

import (
	"context"
	"io"
	"sort"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ignite-fest/jury-api/internal/dto"
	"github.com/ignite-fest/jury-api/internal/models"
	"github.com/ignite-fest/jury-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

type fakeEvaluationRepo struct {
	evaluations map[uint]models.Evaluation
	nextID      uint
	updateCalls int
}

func newFakeEvaluationRepo(seed ...models.Evaluation) *fakeEvaluationRepo {
	repo := &fakeEvaluationRepo{evaluations: map[uint]models.Evaluation{}, nextID: 1}
	for _, evaluation := range seed {
		if evaluation.ID == 0 {
			evaluation.ID = repo.nextID
		}
		if evaluation.ID >= repo.nextID {
			repo.nextID = evaluation.ID + 1
		}
		repo.evaluations[evaluation.ID] = evaluation
	}
	return repo
}

func (f *fakeEvaluationRepo) GetByID(ctx context.Context, id uint) (models.Evaluation, error) {
	evaluation, ok := f.evaluations[id]
	if !ok {
		return models.Evaluation{}, gorm.ErrRecordNotFound
	}
	return evaluation, nil
}

func (f *fakeEvaluationRepo) GetByJurorAndEntry(ctx context.Context, jurorID, entryID uint) (models.Evaluation, error) {
	for _, evaluation := range f.evaluations {
		if evaluation.JurorID == jurorID && evaluation.EntryID == entryID {
			return evaluation, nil
		}
	}
	return models.Evaluation{}, gorm.ErrRecordNotFound
}

func (f *fakeEvaluationRepo) CreateIfAbsent(ctx context.Context, evaluation *models.Evaluation) error {
	for _, existing := range f.evaluations {
		if existing.JurorID == evaluation.JurorID && existing.EntryID == evaluation.EntryID {
			return nil
		}
	}
	evaluation.ID = f.nextID
	f.nextID++
	f.evaluations[evaluation.ID] = *evaluation
	return nil
}

func (f *fakeEvaluationRepo) UpdateVersioned(ctx context.Context, evaluation *models.Evaluation, expectedVersion int) (bool, error) {
	f.updateCalls++
	stored, ok := f.evaluations[evaluation.ID]
	if !ok || stored.Version != expectedVersion {
		return false, nil
	}
	evaluation.Version = expectedVersion + 1
	f.evaluations[evaluation.ID] = *evaluation
	return true, nil
}

func (f *fakeEvaluationRepo) List(ctx context.Context, filter repository.EvaluationFilter) ([]models.Evaluation, error) {
	results := make([]models.Evaluation, 0, len(f.evaluations))
	for _, evaluation := range f.evaluations {
		if filter.JurorID != nil && evaluation.JurorID != *filter.JurorID {
			continue
		}
		if filter.EntryID != nil && evaluation.EntryID != *filter.EntryID {
			continue
		}
		if filter.Status != nil && evaluation.Status != *filter.Status {
			continue
		}
		results = append(results, evaluation)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (f *fakeEvaluationRepo) ListCountable(ctx context.Context) ([]models.Evaluation, error) {
	results := make([]models.Evaluation, 0, len(f.evaluations))
	for _, evaluation := range f.evaluations {
		if evaluation.IsCountable() {
			results = append(results, evaluation)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

type fakeAssignmentRepo struct {
	assignments []models.JuryAssignment
}

func (f *fakeAssignmentRepo) CreatePairs(ctx context.Context, pairs []models.JuryAssignment) (int64, error) {
	var created int64
	for _, pair := range pairs {
		exists := false
		for _, existing := range f.assignments {
			if existing.JurorID == pair.JurorID && existing.EntryID == pair.EntryID {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		pair.ID = uint(len(f.assignments) + 1)
		f.assignments = append(f.assignments, pair)
		created++
	}
	return created, nil
}

func (f *fakeAssignmentRepo) Exists(ctx context.Context, jurorID, entryID uint) (bool, error) {
	for _, assignment := range f.assignments {
		if assignment.JurorID == jurorID && assignment.EntryID == entryID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAssignmentRepo) List(ctx context.Context) ([]models.JuryAssignment, error) {
	return f.assignments, nil
}

func (f *fakeAssignmentRepo) ListByJuror(ctx context.Context, jurorID uint) ([]models.JuryAssignment, error) {
	results := make([]models.JuryAssignment, 0, len(f.assignments))
	for _, assignment := range f.assignments {
		if assignment.JurorID == jurorID {
			results = append(results, assignment)
		}
	}
	return results, nil
}

type fakeQuestionRepo struct {
	questions []models.RubricQuestion
}

func (f *fakeQuestionRepo) Create(ctx context.Context, question *models.RubricQuestion) error {
	question.ID = uint(len(f.questions) + 1)
	f.questions = append(f.questions, *question)
	return nil
}

func (f *fakeQuestionRepo) Update(ctx context.Context, question *models.RubricQuestion) error {
	for i, existing := range f.questions {
		if existing.ID == question.ID {
			f.questions[i] = *question
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepo) GetByID(ctx context.Context, id uint) (models.RubricQuestion, error) {
	for _, question := range f.questions {
		if question.ID == id {
			return question, nil
		}
	}
	return models.RubricQuestion{}, gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepo) ListActive(ctx context.Context) ([]models.RubricQuestion, error) {
	results := make([]models.RubricQuestion, 0, len(f.questions))
	for _, question := range f.questions {
		if question.IsActive {
			results = append(results, question)
		}
	}
	return results, nil
}

func (f *fakeQuestionRepo) List(ctx context.Context) ([]models.RubricQuestion, error) {
	return f.questions, nil
}

type fakeEntryRepo struct {
	entries []models.Entry
}

func (f *fakeEntryRepo) List(ctx context.Context) ([]models.Entry, error) {
	return f.entries, nil
}

func (f *fakeEntryRepo) ListEligible(ctx context.Context) ([]models.Entry, error) {
	results := make([]models.Entry, 0, len(f.entries))
	for _, entry := range f.entries {
		if entry.IsEligible() {
			results = append(results, entry)
		}
	}
	return results, nil
}

func (f *fakeEntryRepo) GetByID(ctx context.Context, id uint) (models.Entry, error) {
	for _, entry := range f.entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return models.Entry{}, gorm.ErrRecordNotFound
}

func (f *fakeEntryRepo) GetByIDs(ctx context.Context, ids []uint) ([]models.Entry, error) {
	results := make([]models.Entry, 0, len(ids))
	for _, entry := range f.entries {
		for _, id := range ids {
			if entry.ID == id {
				results = append(results, entry)
				break
			}
		}
	}
	return results, nil
}

func (f *fakeEntryRepo) Create(ctx context.Context, entry *models.Entry) error {
	entry.ID = uint(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

type fakeJurorRepo struct {
	jurors []models.Juror
}

func (f *fakeJurorRepo) GetByID(ctx context.Context, id uint) (models.Juror, error) {
	for _, juror := range f.jurors {
		if juror.ID == id {
			return juror, nil
		}
	}
	return models.Juror{}, gorm.ErrRecordNotFound
}

func (f *fakeJurorRepo) ListActive(ctx context.Context) ([]models.Juror, error) {
	results := make([]models.Juror, 0, len(f.jurors))
	for _, juror := range f.jurors {
		if juror.IsActive {
			results = append(results, juror)
		}
	}
	return results, nil
}

func (f *fakeJurorRepo) Create(ctx context.Context, juror *models.Juror) error {
	juror.ID = uint(len(f.jurors) + 1)
	f.jurors = append(f.jurors, *juror)
	return nil
}

type fakeActivityRecorder struct {
	entries []ActivityEntry
}

func (f *fakeActivityRecorder) Record(ctx context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	f.entries = append(f.entries, entry)
	return dto.ActivityResponse{}, nil
}

type fakeEventPublisher struct {
	events []EvaluationEvent
}

func (f *fakeEventPublisher) PublishEvaluationEvent(event EvaluationEvent) {
	f.events = append(f.events, event)
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate(ctx context.Context) {
	f.calls++
}
