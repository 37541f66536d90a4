package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ignite-fest/jury-api/internal/service"
	"github.com/ignite-fest/jury-api/internal/utils"
)

// ScoreboardHandler exposes the aggregated scoreboard.
type ScoreboardHandler struct {
	service service.ScoreboardService
	logger  zerolog.Logger
}

func NewScoreboardHandler(service service.ScoreboardService, logger zerolog.Logger) *ScoreboardHandler {
	return &ScoreboardHandler{
		service: service,
		logger:  logger.With().Str("component", "scoreboard_handler").Logger(),
	}
}

func (h *ScoreboardHandler) Register(router fiber.Router) {
	router.Get("/scoreboard", h.getScoreboard)
}

func (h *ScoreboardHandler) getScoreboard(c *fiber.Ctx) error {
	board, err := h.service.Compute(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to compute scoreboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "scoreboard retrieved", board)
}
