package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ignite-fest/jury-api/internal/dto"
	"github.com/ignite-fest/jury-api/internal/observability"
	"github.com/ignite-fest/jury-api/internal/service"
	"github.com/ignite-fest/jury-api/internal/utils"
)

// EvaluationHandler manages juror-facing evaluation endpoints.
type EvaluationHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewEvaluationHandler builds an evaluation handler instance.
func NewEvaluationHandler(service service.EvaluationService, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service: service,
		logger:  logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register attaches the juror routes to the provided router group.
func (h *EvaluationHandler) Register(router fiber.Router, saveLimiter fiber.Handler) {
	router.Get("/entries", h.listEntries)
	router.Get("/entries/:entry_id/evaluation", h.getOrCreate)
	if saveLimiter != nil {
		router.Put("/entries/:entry_id/evaluation", saveLimiter, h.save)
	} else {
		router.Put("/entries/:entry_id/evaluation", h.save)
	}
	router.Post("/entries/:entry_id/evaluation/submit", h.submit)
	router.Get("/evaluations", h.listMine)
}

// RegisterAdmin attaches the admin listing route.
func (h *EvaluationHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/evaluations", h.listAll)
}

func (h *EvaluationHandler) listEntries(c *fiber.Ctx) error {
	entries, err := h.service.ListAssignedEntries(c.Context(), actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "assigned entries retrieved", entries)
}

func (h *EvaluationHandler) getOrCreate(c *fiber.Ctx) error {
	entryID, err := parseUintParam(c, "entry_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	evaluation, err := h.service.GetOrCreate(c.Context(), actorFromContext(c), entryID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation retrieved", evaluation)
}

func (h *EvaluationHandler) save(c *fiber.Ctx) error {
	entryID, err := parseUintParam(c, "entry_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.EvaluationSaveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	evaluation, err := h.service.Save(c.Context(), actorFromContext(c), entryID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluation saved", evaluation)
}

func (h *EvaluationHandler) submit(c *fiber.Ctx) error {
	entryID, err := parseUintParam(c, "entry_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.EvaluationSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	evaluation, err := h.service.Submit(c.Context(), actorFromContext(c), entryID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	observability.EvaluationsSubmitted().Inc()

	return utils.SendSuccess(c, "evaluation submitted", evaluation)
}

func (h *EvaluationHandler) listMine(c *fiber.Ctx) error {
	evaluations, err := h.service.ListMine(c.Context(), actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluations retrieved", evaluations)
}

func (h *EvaluationHandler) listAll(c *fiber.Ctx) error {
	filter := dto.EvaluationListFilter{}

	jurorID, err := parseQueryUint(c, "juror_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	filter.JurorID = jurorID

	entryID, err := parseQueryUint(c, "entry_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	filter.EntryID = entryID

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		filter.Status = &status
	}

	evaluations, err := h.service.ListAll(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "evaluations retrieved", evaluations)
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		return utils.SendError(c, fiber.StatusForbidden, "not authorized")
	case errors.Is(err, service.ErrEvaluationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "evaluation not found")
	case errors.Is(err, service.ErrEvaluationLocked):
		return utils.SendError(c, fiber.StatusConflict, "evaluation is locked")
	case errors.Is(err, service.ErrAlreadySubmitted):
		return utils.SendError(c, fiber.StatusConflict, "evaluation already submitted")
	case errors.Is(err, service.ErrVersionConflict):
		return utils.SendError(c, fiber.StatusConflict, "evaluation was modified, refresh and retry")
	case errors.Is(err, service.ErrUnknownQuestion):
		return utils.SendError(c, fiber.StatusBadRequest, "rating references unknown rubric question")
	case errors.Is(err, service.ErrScoreOutOfRange):
		return utils.SendError(c, fiber.StatusBadRequest, "rating score outside question range")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
