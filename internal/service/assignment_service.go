package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ignite-fest/jury-api/internal/dto"
	"github.com/ignite-fest/jury-api/internal/models"
	"github.com/ignite-fest/jury-api/internal/repository"
)

var (
	// ErrJurorNotFound indicates the target juror does not exist.
	ErrJurorNotFound = errors.New("juror not found")
	// ErrJurorInactive indicates the juror exists but may not be assigned.
	ErrJurorInactive = errors.New("juror is not active")
	// ErrEntryNotFound indicates a referenced entry does not exist.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrEntryNotEligible indicates an entry has not been approved.
	ErrEntryNotEligible = errors.New("entry is not eligible for evaluation")
)

// AssignmentService owns the juror-to-entry matrix. Assignment is the
// precondition for an evaluation record to exist.
type AssignmentService interface {
	Assign(ctx context.Context, actor Actor, payload dto.AssignRequest) (dto.AssignmentReport, error)
	AssignAll(ctx context.Context, actor Actor) (dto.AssignmentReport, error)
	IsAssigned(ctx context.Context, jurorID, entryID uint) (bool, error)
	ListMatrix(ctx context.Context) ([]dto.AssignmentResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	jurors      repository.JurorRepository
	entries     repository.EntryRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	logger      zerolog.Logger
}

// NewAssignmentService constructs the assignment service.
func NewAssignmentService(assignments repository.AssignmentRepository, jurors repository.JurorRepository, entries repository.EntryRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		jurors:      jurors,
		entries:     entries,
		validator:   validate,
		activity:    activity,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) Assign(ctx context.Context, actor Actor, payload dto.AssignRequest) (dto.AssignmentReport, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentReport{}, err
	}

	juror, err := s.jurors.GetByID(ctx, payload.JurorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentReport{}, ErrJurorNotFound
		}
		return dto.AssignmentReport{}, err
	}

	if !juror.IsActive {
		return dto.AssignmentReport{}, ErrJurorInactive
	}

	entries, err := s.entries.GetByIDs(ctx, payload.EntryIDs)
	if err != nil {
		return dto.AssignmentReport{}, err
	}

	if len(entries) != len(uniqueIDs(payload.EntryIDs)) {
		return dto.AssignmentReport{}, ErrEntryNotFound
	}

	pairs := make([]models.JuryAssignment, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsEligible() {
			return dto.AssignmentReport{}, ErrEntryNotEligible
		}
		pairs = append(pairs, models.JuryAssignment{JurorID: juror.ID, EntryID: entry.ID})
	}

	created, err := s.assignments.CreatePairs(ctx, pairs)
	if err != nil {
		return dto.AssignmentReport{}, err
	}

	report := dto.AssignmentReport{Created: created, Skipped: int64(len(pairs)) - created}

	s.logger.Info().
		Uint("juror_id", juror.ID).
		Int64("created", report.Created).
		Int64("skipped", report.Skipped).
		Msg("juror assigned to entries")

	s.record(ctx, actor, "assignment.created", &juror.ID, map[string]interface{}{
		"created": report.Created,
		"skipped": report.Skipped,
	})

	return report, nil
}

func (s *assignmentService) AssignAll(ctx context.Context, actor Actor) (dto.AssignmentReport, error) {
	jurors, err := s.jurors.ListActive(ctx)
	if err != nil {
		return dto.AssignmentReport{}, err
	}

	entries, err := s.entries.ListEligible(ctx)
	if err != nil {
		return dto.AssignmentReport{}, err
	}

	pairs := make([]models.JuryAssignment, 0, len(jurors)*len(entries))
	for _, juror := range jurors {
		for _, entry := range entries {
			pairs = append(pairs, models.JuryAssignment{JurorID: juror.ID, EntryID: entry.ID})
		}
	}

	// Existing pairs are skipped at insert time, so re-running after a
	// partial failure only produces the missing relations.
	created, err := s.assignments.CreatePairs(ctx, pairs)
	if err != nil {
		return dto.AssignmentReport{}, err
	}

	report := dto.AssignmentReport{Created: created, Skipped: int64(len(pairs)) - created}

	s.logger.Info().
		Int("jurors", len(jurors)).
		Int("entries", len(entries)).
		Int64("created", report.Created).
		Msg("bulk assignment completed")

	s.record(ctx, actor, "assignment.bulk_created", nil, map[string]interface{}{
		"jurors":  len(jurors),
		"entries": len(entries),
		"created": report.Created,
		"skipped": report.Skipped,
	})

	return report, nil
}

func (s *assignmentService) IsAssigned(ctx context.Context, jurorID, entryID uint) (bool, error) {
	return s.assignments.Exists(ctx, jurorID, entryID)
}

func (s *assignmentService) ListMatrix(ctx context.Context) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) record(ctx context.Context, actor Actor, action string, entityID *uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}

	_, _ = s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "assignment",
		EntityID:   entityID,
		Metadata:   metadata,
	})
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	return out
}
