package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/ignite-fest/jury-api/internal/dto"
	"github.com/ignite-fest/jury-api/internal/models"
	"github.com/ignite-fest/jury-api/internal/repository"
)

var (
	// ErrReasonRequired indicates a send-back without a usable reason.
	ErrReasonRequired = errors.New("send-back reason is required")
	// ErrInvalidTransition indicates the record is not in a state the
	// requested admin action can move from.
	ErrInvalidTransition = errors.New("evaluation is not in a state that allows this transition")
)

// AdminReviewService orchestrates administrative overrides over the
// evaluation state machine. Every operation requires the admin capability,
// which is distinct from the owning-juror check the juror paths apply.
type AdminReviewService interface {
	LockAllSubmitted(ctx context.Context, actor Actor) (dto.LockAllResponse, error)
	SendBack(ctx context.Context, actor Actor, evaluationID uint, payload dto.SendBackRequest) (dto.EvaluationResponse, error)
	Reopen(ctx context.Context, actor Actor, evaluationID uint) (dto.EvaluationResponse, error)
}

type adminReviewService struct {
	evaluations repository.EvaluationRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	activity    ActivityRecorder
	events      EventPublisher
	scoreboard  ScoreboardInvalidator
	tracer      trace.Tracer
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAdminReviewService constructs the admin review service.
func NewAdminReviewService(evaluations repository.EvaluationRepository, validate *validator.Validate, activity ActivityRecorder, events EventPublisher, scoreboard ScoreboardInvalidator, logger zerolog.Logger) AdminReviewService {
	return &adminReviewService{
		evaluations: evaluations,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		activity:    activity,
		events:      events,
		scoreboard:  scoreboard,
		tracer:      otel.Tracer("github.com/ignite-fest/jury-api/internal/service/admin_review"),
		logger:      logger.With().Str("component", "admin_review_service").Logger(),
		now:         time.Now,
	}
}

func (s *adminReviewService) LockAllSubmitted(ctx context.Context, actor Actor) (dto.LockAllResponse, error) {
	ctx, span := s.tracer.Start(ctx, "review.lock_all")
	span.SetAttributes(attribute.Int64("review.actor_id", int64(actor.ID)))
	defer span.End()

	if !actor.IsAdmin() {
		span.SetStatus(codes.Error, "not_authorized")
		return dto.LockAllResponse{}, ErrNotAuthorized
	}

	status := models.EvaluationStatusSubmitted
	submitted, err := s.evaluations.List(ctx, repository.EvaluationFilter{Status: &status})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_failed")
		return dto.LockAllResponse{}, err
	}

	// Best-effort batch: each record transitions independently, so a
	// partial failure leaves the rest untouched and a retry picks up only
	// the records still submitted. Records locked meanwhile lose the
	// version check and are skipped.
	locked := 0
	lockedAt := s.now()
	for _, evaluation := range submitted {
		evaluation.Status = models.EvaluationStatusLocked
		evaluation.LockedAt = &lockedAt

		applied, err := s.evaluations.UpdateVersioned(ctx, &evaluation, evaluation.Version)
		if err != nil {
			s.logger.Warn().Err(err).Uint("evaluation_id", evaluation.ID).Msg("failed to lock evaluation")
			span.RecordError(err)
			continue
		}
		if !applied {
			s.logger.Debug().Uint("evaluation_id", evaluation.ID).Msg("evaluation changed during lock-all, skipped")
			continue
		}

		locked++
		s.publish("locked", evaluation)
	}

	span.SetAttributes(attribute.Int("review.locked", locked))

	s.logger.Info().Int("locked", locked).Int("candidates", len(submitted)).Msg("bulk lock completed")
	s.record(ctx, actor, "evaluation.lock_all", nil, map[string]interface{}{
		"locked":     locked,
		"candidates": len(submitted),
	})
	s.invalidate(ctx)

	return dto.LockAllResponse{Locked: locked}, nil
}

func (s *adminReviewService) SendBack(ctx context.Context, actor Actor, evaluationID uint, payload dto.SendBackRequest) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "review.send_back")
	span.SetAttributes(
		attribute.Int64("review.evaluation_id", int64(evaluationID)),
		attribute.Int64("review.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if !actor.IsAdmin() {
		span.SetStatus(codes.Error, "not_authorized")
		return dto.EvaluationResponse{}, ErrNotAuthorized
	}

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.EvaluationResponse{}, err
	}

	reason := strings.TrimSpace(s.sanitizer.Sanitize(payload.Reason))
	if reason == "" {
		span.SetStatus(codes.Error, "reason_required")
		return dto.EvaluationResponse{}, ErrReasonRequired
	}

	evaluation, err := s.getEvaluation(ctx, evaluationID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation_lookup_failed")
		return dto.EvaluationResponse{}, err
	}

	if evaluation.Status != models.EvaluationStatusSubmitted {
		span.SetStatus(codes.Error, "invalid_transition")
		return dto.EvaluationResponse{}, ErrInvalidTransition
	}

	sentBackAt := s.now()
	evaluation.Status = models.EvaluationStatusSentBack
	evaluation.SentBackAt = &sentBackAt
	evaluation.SentBackReason = reason

	if err := s.applyTransition(ctx, &evaluation); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transition_failed")
		return dto.EvaluationResponse{}, err
	}

	s.record(ctx, actor, "evaluation.sent_back", &evaluation.ID, map[string]interface{}{
		"entry_id": evaluation.EntryID,
		"juror_id": evaluation.JurorID,
		"reason":   reason,
	})
	s.publish("sent_back", evaluation)
	s.invalidate(ctx)

	return s.reload(ctx, evaluation.ID)
}

func (s *adminReviewService) Reopen(ctx context.Context, actor Actor, evaluationID uint) (dto.EvaluationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "review.reopen")
	span.SetAttributes(
		attribute.Int64("review.evaluation_id", int64(evaluationID)),
		attribute.Int64("review.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if !actor.IsAdmin() {
		span.SetStatus(codes.Error, "not_authorized")
		return dto.EvaluationResponse{}, ErrNotAuthorized
	}

	evaluation, err := s.getEvaluation(ctx, evaluationID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation_lookup_failed")
		return dto.EvaluationResponse{}, err
	}

	if evaluation.Status != models.EvaluationStatusLocked {
		span.SetStatus(codes.Error, "invalid_transition")
		return dto.EvaluationResponse{}, ErrInvalidTransition
	}

	evaluation.Status = models.EvaluationStatusSubmitted
	evaluation.LockedAt = nil

	if err := s.applyTransition(ctx, &evaluation); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transition_failed")
		return dto.EvaluationResponse{}, err
	}

	s.record(ctx, actor, "evaluation.reopened", &evaluation.ID, map[string]interface{}{
		"entry_id": evaluation.EntryID,
		"juror_id": evaluation.JurorID,
	})
	s.publish("reopened", evaluation)
	s.invalidate(ctx)

	return s.reload(ctx, evaluation.ID)
}

func (s *adminReviewService) getEvaluation(ctx context.Context, id uint) (models.Evaluation, error) {
	evaluation, err := s.evaluations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Evaluation{}, ErrEvaluationNotFound
		}
		return models.Evaluation{}, err
	}

	return evaluation, nil
}

func (s *adminReviewService) applyTransition(ctx context.Context, evaluation *models.Evaluation) error {
	applied, err := s.evaluations.UpdateVersioned(ctx, evaluation, evaluation.Version)
	if err != nil {
		return err
	}
	if !applied {
		return ErrVersionConflict
	}

	return nil
}

func (s *adminReviewService) reload(ctx context.Context, id uint) (dto.EvaluationResponse, error) {
	evaluation, err := s.evaluations.GetByID(ctx, id)
	if err != nil {
		return dto.EvaluationResponse{}, err
	}

	return dto.NewEvaluationResponse(evaluation), nil
}

func (s *adminReviewService) record(ctx context.Context, actor Actor, action string, entityID *uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}

	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "evaluation",
		EntityID:   entityID,
		Metadata:   metadata,
	})
}

func (s *adminReviewService) publish(action string, evaluation models.Evaluation) {
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

func (s *adminReviewService) invalidate(ctx context.Context) {
	if s.scoreboard == nil {
		return
	}

	s.scoreboard.Invalidate(ctx)
}
