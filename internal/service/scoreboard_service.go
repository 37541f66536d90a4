package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ignite-fest/jury-api/internal/dto"
	"github.com/ignite-fest/jury-api/internal/models"
	"github.com/ignite-fest/jury-api/internal/repository"
)

const scoreboardCacheKey = "jury:scoreboard"

// ScoreboardInvalidator drops any cached ranking. Mutating services call it
// after state transitions that change which evaluations are countable.
type ScoreboardInvalidator interface {
	Invalidate(ctx context.Context)
}

// ScoreboardService reduces countable evaluations into a live ranking.
type ScoreboardService interface {
	ScoreboardInvalidator
	Compute(ctx context.Context) (dto.ScoreboardResponse, error)
}

type scoreboardService struct {
	entries     repository.EntryRepository
	evaluations repository.EvaluationRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
	now         func() time.Time
}

// NewScoreboardService builds the scoreboard aggregator.
func NewScoreboardService(entries repository.EntryRepository, evaluations repository.EvaluationRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) ScoreboardService {
	return &scoreboardService{
		entries:     entries,
		evaluations: evaluations,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "scoreboard_service").Logger(),
		now:         time.Now,
	}
}

func (s *scoreboardService) Compute(ctx context.Context) (dto.ScoreboardResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, scoreboardCacheKey).Result(); err == nil {
			var response dto.ScoreboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("scoreboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read scoreboard cache")
		}
	}

	entries, err := s.entries.ListEligible(ctx)
	if err != nil {
		return dto.ScoreboardResponse{}, err
	}

	evaluations, err := s.evaluations.ListCountable(ctx)
	if err != nil {
		return dto.ScoreboardResponse{}, err
	}

	response := s.buildResponse(entries, evaluations)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, scoreboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store scoreboard cache")
			}
		}
	}

	return response, nil
}

func (s *scoreboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, scoreboardCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate scoreboard cache")
	}
}

func (s *scoreboardService) buildResponse(entries []models.Entry, evaluations []models.Evaluation) dto.ScoreboardResponse {
	type aggregate struct {
		sum   float64
		count int
	}

	// Only submitted and locked evaluations count; drafts and sent-back
	// records must never influence the ranking.
	byEntry := make(map[uint]aggregate, len(entries))
	for _, evaluation := range evaluations {
		if !evaluation.IsCountable() {
			continue
		}
		agg := byEntry[evaluation.EntryID]
		agg.sum += evaluation.WeightedScore
		agg.count++
		byEntry[evaluation.EntryID] = agg
	}

	rows := make([]dto.ScoreboardRow, 0, len(entries))
	for _, entry := range entries {
		row := dto.ScoreboardRow{
			EntryID:    entry.ID,
			EntryCode:  entry.Code,
			EntryTitle: entry.Title,
			TeamName:   entry.TeamName,
		}
		if agg, ok := byEntry[entry.ID]; ok && agg.count > 0 {
			row.AverageScore = agg.sum / float64(agg.count)
			row.EvaluationCount = agg.count
		}
		rows = append(rows, row)
	}

	// Ordering: evaluated entries first by average descending, then entry
	// code ascending as the deterministic tie-break; unevaluated entries
	// trail the list but are never dropped.
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if (a.EvaluationCount > 0) != (b.EvaluationCount > 0) {
			return a.EvaluationCount > 0
		}
		if a.AverageScore != b.AverageScore {
			return a.AverageScore > b.AverageScore
		}
		return a.EntryCode < b.EntryCode
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}

	return dto.ScoreboardResponse{Rows: rows, GeneratedAt: s.now().UTC()}
}
