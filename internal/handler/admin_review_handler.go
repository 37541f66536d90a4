package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ignite-fest/jury-api/internal/dto"
	"github.com/ignite-fest/jury-api/internal/observability"
	"github.com/ignite-fest/jury-api/internal/service"
	"github.com/ignite-fest/jury-api/internal/utils"
)

// AdminReviewHandler exposes admin overrides over the evaluation lifecycle.
type AdminReviewHandler struct {
	service service.AdminReviewService
	logger  zerolog.Logger
}

func NewAdminReviewHandler(service service.AdminReviewService, logger zerolog.Logger) *AdminReviewHandler {
	return &AdminReviewHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_review_handler").Logger(),
	}
}

func (h *AdminReviewHandler) Register(router fiber.Router) {
	router.Post("/evaluations/lock-all", h.lockAll)
	router.Post("/evaluations/:id/send-back", h.sendBack)
	router.Post("/evaluations/:id/reopen", h.reopen)
}

func (h *AdminReviewHandler) lockAll(c *fiber.Ctx) error {
	report, err := h.service.LockAllSubmitted(c.Context(), actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	observability.EvaluationsLocked().Add(float64(report.Locked))

	return utils.SendSuccess(c, "submitted evaluations locked", report)
}

func (h *AdminReviewHandler) sendBack(c *fiber.Ctx) error {
	evaluationID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.SendBackRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	evaluation, err := h.service.SendBack(c.Context(), actorFromContext(c), evaluationID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation sent back", evaluation)
}

func (h *AdminReviewHandler) reopen(c *fiber.Ctx) error {
	evaluationID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	evaluation, err := h.service.Reopen(c.Context(), actorFromContext(c), evaluationID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation reopened", evaluation)
}

func (h *AdminReviewHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		return utils.SendError(c, fiber.StatusForbidden, "not authorized")
	case errors.Is(err, service.ErrEvaluationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "evaluation not found")
	case errors.Is(err, service.ErrReasonRequired):
		return utils.SendError(c, fiber.StatusBadRequest, "a send-back reason is required")
	case errors.Is(err, service.ErrInvalidTransition):
		return utils.SendError(c, fiber.StatusConflict, "evaluation status does not allow this action")
	case errors.Is(err, service.ErrVersionConflict):
		return utils.SendError(c, fiber.StatusConflict, "evaluation was modified, refresh and retry")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
