package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ignite-fest/jury-api/internal/dto"
	"github.com/ignite-fest/jury-api/internal/models"
	"github.com/ignite-fest/jury-api/internal/repository"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedService loads demo entries, jurors and rubric questions for
// development and staging environments.
type SeedService interface {
	Seed(ctx context.Context, payload dto.SeedRequest) (dto.SeedReport, error)
}

type seedService struct {
	entries   repository.EntryRepository
	jurors    repository.JurorRepository
	questions repository.RubricQuestionRepository
	validator *validator.Validate
	enabled   bool
	token     string
	logger    zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(entries repository.EntryRepository, jurors repository.JurorRepository, questions repository.RubricQuestionRepository, validate *validator.Validate, enabled bool, token string, logger zerolog.Logger) SeedService {
	return &seedService{
		entries:   entries,
		jurors:    jurors,
		questions: questions,
		validator: validate,
		enabled:   enabled,
		token:     token,
		logger:    logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) Seed(ctx context.Context, payload dto.SeedRequest) (dto.SeedReport, error) {
	if !s.enabled {
		return dto.SeedReport{}, ErrSeedDisabled
	}
	if !s.validateToken(payload.Token) {
		return dto.SeedReport{}, ErrSeedUnauthorized
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.SeedReport{}, err
	}

	report := dto.SeedReport{}

	for _, item := range payload.Entries {
		status := item.Status
		if status == "" {
			status = models.EntryStatusApproved
		}
		entry := models.Entry{
			Code:     strings.TrimSpace(item.Code),
			Title:    strings.TrimSpace(item.Title),
			TeamName: strings.TrimSpace(item.TeamName),
			Status:   status,
		}
		if err := s.entries.Create(ctx, &entry); err != nil {
			s.logger.Warn().Err(err).Str("code", entry.Code).Msg("failed to seed entry")
			continue
		}
		report.Entries++
	}

	for _, item := range payload.Jurors {
		role := item.Role
		if role == "" {
			role = models.RoleJuror
		}
		juror := models.Juror{
			Name:     strings.TrimSpace(item.Name),
			Email:    strings.ToLower(strings.TrimSpace(item.Email)),
			Role:     role,
			IsActive: true,
		}
		if err := s.jurors.Create(ctx, &juror); err != nil {
			s.logger.Warn().Err(err).Str("email", juror.Email).Msg("failed to seed juror")
			continue
		}
		report.Jurors++
	}

	for _, item := range payload.Questions {
		question := models.RubricQuestion{
			Text:          strings.TrimSpace(item.Text),
			Description:   strings.TrimSpace(item.Description),
			MaxScore:      item.MaxScore,
			WeightPercent: item.WeightPercent,
			Position:      item.Position,
			IsActive:      true,
		}
		if err := s.questions.Create(ctx, &question); err != nil {
			s.logger.Warn().Err(err).Str("text", question.Text).Msg("failed to seed question")
			continue
		}
		report.Questions++
	}

	s.logger.Info().
		Int("entries", report.Entries).
		Int("jurors", report.Jurors).
		Int("questions", report.Questions).
		Msg("demo data seeded")

	return report, nil
}

func (s *seedService) validateToken(token string) bool {
	expected := strings.TrimSpace(s.token)
	if expected == "" {
		return false
	}

	provided := strings.TrimSpace(token)
	if len(expected) != len(provided) {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(expected), []byte(provided)) == 1
}
