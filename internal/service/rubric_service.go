package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ignite-fest/jury-api/internal/dto"
	"github.com/ignite-fest/jury-api/internal/models"
	"github.com/ignite-fest/jury-api/internal/repository"
	"github.com/ignite-fest/jury-api/internal/scoring"
)

// ErrQuestionNotFound indicates a rubric question could not be located.
var ErrQuestionNotFound = errors.New("rubric question not found")

const weightBalanceTolerance = 1e-3

// RubricService manages the weighted question set jurors score against.
type RubricService interface {
	CreateQuestion(ctx context.Context, actor Actor, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, actor Actor, id uint, payload dto.QuestionUpdateRequest) (dto.QuestionResponse, error)
	DeactivateQuestion(ctx context.Context, actor Actor, id uint) (dto.QuestionResponse, error)
	GetRubric(ctx context.Context) (dto.RubricResponse, error)
}

type rubricService struct {
	questions repository.RubricQuestionRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewRubricService constructs the rubric service.
func NewRubricService(questions repository.RubricQuestionRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) RubricService {
	return &rubricService{
		questions: questions,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "rubric_service").Logger(),
	}
}

func (s *rubricService) CreateQuestion(ctx context.Context, actor Actor, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	question := models.RubricQuestion{
		Text:          strings.TrimSpace(payload.Text),
		Description:   strings.TrimSpace(payload.Description),
		MaxScore:      payload.MaxScore,
		WeightPercent: payload.WeightPercent,
		Position:      payload.Position,
		IsActive:      true,
	}

	if err := s.questions.Create(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	s.warnIfUnbalanced(ctx)
	s.record(ctx, actor, "rubric.question_created", question.ID, map[string]interface{}{
		"text":       question.Text,
		"max_score":  question.MaxScore,
		"weight_pct": question.WeightPercent,
	})

	return dto.NewQuestionResponse(question), nil
}

func (s *rubricService) UpdateQuestion(ctx context.Context, actor Actor, id uint, payload dto.QuestionUpdateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}

	if payload.Text != nil {
		question.Text = strings.TrimSpace(*payload.Text)
	}
	if payload.Description != nil {
		question.Description = strings.TrimSpace(*payload.Description)
	}
	if payload.MaxScore != nil {
		question.MaxScore = *payload.MaxScore
	}
	if payload.WeightPercent != nil {
		question.WeightPercent = *payload.WeightPercent
	}
	if payload.Position != nil {
		question.Position = *payload.Position
	}

	if err := s.questions.Update(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	s.warnIfUnbalanced(ctx)
	s.record(ctx, actor, "rubric.question_updated", question.ID, nil)

	return dto.NewQuestionResponse(question), nil
}

func (s *rubricService) DeactivateQuestion(ctx context.Context, actor Actor, id uint) (dto.QuestionResponse, error) {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}

	// Soft delete only: recorded ratings reference questions by snapshot
	// and historical listings must keep resolving.
	if question.IsActive {
		question.IsActive = false
		if err := s.questions.Update(ctx, &question); err != nil {
			return dto.QuestionResponse{}, err
		}

		s.record(ctx, actor, "rubric.question_deactivated", question.ID, nil)
	}

	return dto.NewQuestionResponse(question), nil
}

func (s *rubricService) GetRubric(ctx context.Context) (dto.RubricResponse, error) {
	questions, err := s.questions.ListActive(ctx)
	if err != nil {
		return dto.RubricResponse{}, err
	}

	sum := scoring.WeightSum(questions)

	return dto.RubricResponse{
		Questions: dto.NewQuestionResponseSlice(questions),
		WeightSum: sum,
		Balanced:  math.Abs(sum-100) < weightBalanceTolerance,
	}, nil
}

func (s *rubricService) warnIfUnbalanced(ctx context.Context) {
	questions, err := s.questions.ListActive(ctx)
	if err != nil {
		return
	}

	if sum := scoring.WeightSum(questions); math.Abs(sum-100) >= weightBalanceTolerance {
		s.logger.Warn().Float64("weight_sum", sum).Msg("rubric weights do not sum to 100")
	}
}

func (s *rubricService) record(ctx context.Context, actor Actor, action string, questionID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}

	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "rubric_question",
		EntityID:   &questionID,
		Metadata:   metadata,
	})
}
