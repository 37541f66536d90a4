package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ignite-fest/jury-api/internal/dto"
	"github.com/ignite-fest/jury-api/internal/service"
	"github.com/ignite-fest/jury-api/internal/utils"
)

// AssignmentHandler manages the admin-facing assignment matrix endpoints.
type AssignmentHandler struct {
	service service.AssignmentService
	logger  zerolog.Logger
}

// NewAssignmentHandler builds an assignment handler instance.
func NewAssignmentHandler(service service.AssignmentService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		service: service,
		logger:  logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register attaches the routes to the provided admin router group.
func (h *AssignmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.assign)
	router.Post("/all", h.assignAll)
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	matrix, err := h.service.ListMatrix(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assignments retrieved", matrix)
}

func (h *AssignmentHandler) assign(c *fiber.Ctx) error {
	var payload dto.AssignRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	report, err := h.service.Assign(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "juror assigned", report)
}

func (h *AssignmentHandler) assignAll(c *fiber.Ctx) error {
	report, err := h.service.AssignAll(c.Context(), actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "bulk assignment completed", report)
}

func (h *AssignmentHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrJurorNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "juror not found")
	case errors.Is(err, service.ErrEntryNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "entry not found")
	case errors.Is(err, service.ErrJurorInactive):
		return utils.SendError(c, fiber.StatusBadRequest, "juror is not active")
	case errors.Is(err, service.ErrEntryNotEligible):
		return utils.SendError(c, fiber.StatusBadRequest, "entry is not eligible for evaluation")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
