package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ignite-fest/jury-api/internal/dto"
	"github.com/ignite-fest/jury-api/internal/models"
	"github.com/ignite-fest/jury-api/internal/repository"
	"github.com/ignite-fest/jury-api/internal/scoring"
)

var (
	// ErrNotAuthorized indicates the actor may not touch the record. The
	// message is deliberately generic: it must not reveal whether the
	// record exists to a caller who does not own it.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrEvaluationNotFound indicates no evaluation exists for the target.
	ErrEvaluationNotFound = errors.New("evaluation not found")
	// ErrEvaluationLocked indicates a juror write hit an admin-locked record.
	ErrEvaluationLocked = errors.New("evaluation is locked")
	// ErrAlreadySubmitted indicates a write on a submitted record that has
	// not been sent back.
	ErrAlreadySubmitted = errors.New("evaluation already submitted")
	// ErrVersionConflict indicates the record changed underneath the
	// caller; re-fetch and retry.
	ErrVersionConflict = errors.New("evaluation was modified concurrently")
	// ErrUnknownQuestion indicates a rating references a question that is
	// not on the active rubric.
	ErrUnknownQuestion = errors.New("rating references unknown rubric question")
	// ErrScoreOutOfRange indicates a rating exceeds the question max.
	ErrScoreOutOfRange = errors.New("rating score outside question range")
)

// EvaluationService owns the per-(juror, entry) evaluation lifecycle:
// lazy creation, juror saves and submits, and read access for admins.
type EvaluationService interface {
	GetOrCreate(ctx context.Context, actor Actor, entryID uint) (dto.EvaluationResponse, error)
	Save(ctx context.Context, actor Actor, entryID uint, payload dto.EvaluationSaveRequest) (dto.EvaluationResponse, error)
	Submit(ctx context.Context, actor Actor, entryID uint, payload dto.EvaluationSubmitRequest) (dto.EvaluationResponse, error)
	ListMine(ctx context.Context, actor Actor) ([]dto.EvaluationResponse, error)
	ListAll(ctx context.Context, filter dto.EvaluationListFilter) ([]dto.EvaluationResponse, error)
	ListAssignedEntries(ctx context.Context, actor Actor) ([]dto.EntrySummary, error)
}

type evaluationService struct {
	evaluations repository.EvaluationRepository
	assignments repository.AssignmentRepository
	questions   repository.RubricQuestionRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	activity    ActivityRecorder
	events      EventPublisher
	scoreboard  ScoreboardInvalidator
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEvaluationService constructs the evaluation service.
func NewEvaluationService(evaluations repository.EvaluationRepository, assignments repository.AssignmentRepository, questions repository.RubricQuestionRepository, validate *validator.Validate, activity ActivityRecorder, events EventPublisher, scoreboard ScoreboardInvalidator, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		evaluations: evaluations,
		assignments: assignments,
		questions:   questions,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		activity:    activity,
		events:      events,
		scoreboard:  scoreboard,
		logger:      logger.With().Str("component", "evaluation_service").Logger(),
		now:         time.Now,
	}
}

func (s *evaluationService) GetOrCreate(ctx context.Context, actor Actor, entryID uint) (dto.EvaluationResponse, error) {
	evaluation, err := s.getOrCreate(ctx, actor, entryID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *evaluationService) Save(ctx context.Context, actor Actor, entryID uint, payload dto.EvaluationSaveRequest) (dto.EvaluationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResponse{}, err
	}

	evaluation, err := s.getOrCreate(ctx, actor, entryID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	if err := s.guardEditable(evaluation); err != nil {
		return dto.EvaluationResponse{}, err
	}

	questions, err := s.questions.ListActive(ctx)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	ratings, err := s.snapshotRatings(payload.Ratings, questions)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	encoded, err := models.EncodeRatings(ratings)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	// Scores are never trusted from the caller; the full tuple is derived
	// here on every save.
	breakdown := scoring.Compute(ratings, scoring.WeightTable(questions))

	evaluation.Ratings = encoded
	evaluation.OverallComment = strings.TrimSpace(s.sanitizer.Sanitize(payload.OverallComment))
	evaluation.TotalScore = breakdown.TotalScore
	evaluation.MaxPossibleScore = breakdown.MaxPossibleScore
	evaluation.WeightedScore = breakdown.WeightedScore

	applied, err := s.evaluations.UpdateVersioned(ctx, &evaluation, payload.Version)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}
	if !applied {
		return dto.EvaluationResponse{}, ErrVersionConflict
	}

	s.record(ctx, actor, "evaluation.saved", evaluation.ID, map[string]interface{}{
		"entry_id":       evaluation.EntryID,
		"total_score":    evaluation.TotalScore,
		"weighted_score": evaluation.WeightedScore,
	})

	saved, err := s.evaluations.GetByID(ctx, evaluation.ID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	return dto.NewEvaluationResponse(saved), nil
}

func (s *evaluationService) Submit(ctx context.Context, actor Actor, entryID uint, payload dto.EvaluationSubmitRequest) (dto.EvaluationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EvaluationResponse{}, err
	}

	if err := s.guardAssigned(ctx, actor, entryID); err != nil {
		return dto.EvaluationResponse{}, err
	}

	evaluation, err := s.evaluations.GetByJurorAndEntry(ctx, actor.ID, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EvaluationResponse{}, ErrEvaluationNotFound
		}
		return dto.EvaluationResponse{}, err
	}

	if err := s.guardEditable(evaluation); err != nil {
		return dto.EvaluationResponse{}, err
	}

	ratings, err := evaluation.DecodeRatings()
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	questions, err := s.questions.ListActive(ctx)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	breakdown := scoring.Compute(ratings, scoring.WeightTable(questions))
	submittedAt := s.now()

	evaluation.Status = models.EvaluationStatusSubmitted
	evaluation.TotalScore = breakdown.TotalScore
	evaluation.MaxPossibleScore = breakdown.MaxPossibleScore
	evaluation.WeightedScore = breakdown.WeightedScore
	evaluation.SubmittedAt = &submittedAt
	evaluation.SentBackAt = nil
	evaluation.SentBackReason = ""

	applied, err := s.evaluations.UpdateVersioned(ctx, &evaluation, payload.Version)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}
	if !applied {
		return dto.EvaluationResponse{}, ErrVersionConflict
	}

	s.logger.Info().
		Uint("evaluation_id", evaluation.ID).
		Uint("entry_id", evaluation.EntryID).
		Float64("weighted_score", evaluation.WeightedScore).
		Msg("evaluation submitted")

	s.record(ctx, actor, "evaluation.submitted", evaluation.ID, map[string]interface{}{
		"entry_id":       evaluation.EntryID,
		"weighted_score": evaluation.WeightedScore,
	})
	s.publish("submitted", evaluation)
	s.invalidateScoreboard(ctx)

	submitted, err := s.evaluations.GetByID(ctx, evaluation.ID)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	return dto.NewEvaluationResponse(submitted), nil
}

func (s *evaluationService) ListMine(ctx context.Context, actor Actor) ([]dto.EvaluationResponse, error) {
	jurorID := actor.ID
	evaluations, err := s.evaluations.List(ctx, repository.EvaluationFilter{JurorID: &jurorID})
	if err != nil {
		return nil, err
	}

	return dto.NewEvaluationResponseSlice(evaluations), nil
}

func (s *evaluationService) ListAll(ctx context.Context, filter dto.EvaluationListFilter) ([]dto.EvaluationResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	evaluations, err := s.evaluations.List(ctx, repository.EvaluationFilter{
		JurorID: filter.JurorID,
		EntryID: filter.EntryID,
		Status:  filter.Status,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewEvaluationResponseSlice(evaluations), nil
}

func (s *evaluationService) ListAssignedEntries(ctx context.Context, actor Actor) ([]dto.EntrySummary, error) {
	assignments, err := s.assignments.ListByJuror(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.Entry, 0, len(assignments))
	for _, assignment := range assignments {
		entries = append(entries, assignment.Entry)
	}

	return dto.NewEntrySummarySlice(entries), nil
}

// getOrCreate resolves the evaluation slot for an assigned pair, creating a
// blank draft on first access. The unique index on the pair makes the
// create-then-fetch safe against concurrent first access.
func (s *evaluationService) getOrCreate(ctx context.Context, actor Actor, entryID uint) (models.Evaluation, error) {
	if err := s.guardAssigned(ctx, actor, entryID); err != nil {
		return models.Evaluation{}, err
	}

	evaluation, err := s.evaluations.GetByJurorAndEntry(ctx, actor.ID, entryID)
	if err == nil {
		return evaluation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Evaluation{}, err
	}

	encoded, err := models.EncodeRatings(nil)
	if err != nil {
		return models.Evaluation{}, err
	}

	blank := models.Evaluation{
		JurorID: actor.ID,
		EntryID: entryID,
		Status:  models.EvaluationStatusDraft,
		Ratings: encoded,
		Version: 1,
	}
	if err := s.evaluations.CreateIfAbsent(ctx, &blank); err != nil {
		return models.Evaluation{}, err
	}

	return s.evaluations.GetByJurorAndEntry(ctx, actor.ID, entryID)
}

func (s *evaluationService) guardAssigned(ctx context.Context, actor Actor, entryID uint) error {
	assigned, err := s.assignments.Exists(ctx, actor.ID, entryID)
	if err != nil {
		return err
	}
	if !assigned {
		return ErrNotAuthorized
	}

	return nil
}

func (s *evaluationService) guardEditable(evaluation models.Evaluation) error {
	switch evaluation.Status {
	case models.EvaluationStatusLocked:
		return ErrEvaluationLocked
	case models.EvaluationStatusSubmitted:
		return ErrAlreadySubmitted
	default:
		return nil
	}
}

func (s *evaluationService) snapshotRatings(inputs []dto.RatingInput, questions []models.RubricQuestion) ([]models.Rating, error) {
	byID := make(map[uint]models.RubricQuestion, len(questions))
	for _, question := range questions {
		byID[question.ID] = question
	}

	ratings := make([]models.Rating, 0, len(inputs))
	for _, input := range inputs {
		question, ok := byID[input.QuestionID]
		if !ok {
			return nil, ErrUnknownQuestion
		}

		if input.Score < 0 || input.Score > float64(question.MaxScore) {
			return nil, ErrScoreOutOfRange
		}

		ratings = append(ratings, models.Rating{
			QuestionID:   question.ID,
			QuestionText: question.Text,
			Score:        input.Score,
			MaxScore:     question.MaxScore,
			Comment:      strings.TrimSpace(s.sanitizer.Sanitize(input.Comment)),
		})
	}

	return ratings, nil
}

func (s *evaluationService) record(ctx context.Context, actor Actor, action string, evaluationID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}

	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "evaluation",
		EntityID:   &evaluationID,
		Metadata:   metadata,
	})
}

func (s *evaluationService) publish(action string, evaluation models.Evaluation) {
	if s.events == nil {
		return
	}

	s.events.PublishEvaluationEvent(EvaluationEvent{
		Action:       action,
		EvaluationID: evaluation.ID,
		JurorID:      evaluation.JurorID,
		EntryID:      evaluation.EntryID,
		Status:       evaluation.Status,
	})
}

func (s *evaluationService) invalidateScoreboard(ctx context.Context) {
	if s.scoreboard == nil {
		return
	}

	s.scoreboard.Invalidate(ctx)
}
