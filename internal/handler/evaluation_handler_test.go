package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ignite-fest/jury-api/internal/config"
	"github.com/ignite-fest/jury-api/internal/dto"
	"github.com/ignite-fest/jury-api/internal/handler"
	"github.com/ignite-fest/jury-api/internal/models"
	"github.com/ignite-fest/jury-api/internal/repository"
	"github.com/ignite-fest/jury-api/internal/router"
	"github.com/ignite-fest/jury-api/internal/service"
	"github.com/ignite-fest/jury-api/internal/utils"
)

type testIdentity struct {
	userID uint
	role   string
}

func setupJuryApp(t *testing.T, identity *testIdentity) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Entry{},
		&models.Juror{},
		&models.RubricQuestion{},
		&models.JuryAssignment{},
		&models.Evaluation{},
		&models.ActivityLog{},
	))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	entryRepo := repository.NewEntryRepository(db)
	jurorRepo := repository.NewJurorRepository(db)
	questionRepo := repository.NewRubricQuestionRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, validate, logger)
	scoreboardService := service.NewScoreboardService(entryRepo, evaluationRepo, nil, 0, logger)
	rubricService := service.NewRubricService(questionRepo, validate, activityService, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, jurorRepo, entryRepo, validate, activityService, logger)
	evaluationService := service.NewEvaluationService(evaluationRepo, assignmentRepo, questionRepo, validate, activityService, nil, scoreboardService, logger)
	adminReviewService := service.NewAdminReviewService(evaluationRepo, validate, activityService, nil, scoreboardService, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		RubricHandler:      handler.NewRubricHandler(rubricService, logger),
		AssignmentHandler:  handler.NewAssignmentHandler(assignmentService, logger),
		EvaluationHandler:  handler.NewEvaluationHandler(evaluationService, logger),
		ScoreboardHandler:  handler.NewScoreboardHandler(scoreboardService, logger),
		AdminReviewHandler: handler.NewAdminReviewHandler(adminReviewService, logger),
		ActivityHandler:    handler.NewActivityHandler(activityService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			c.Locals("user_id", identity.userID)
			c.Locals("user_role", identity.role)
			return c.Next()
		},
	})

	return app, db
}

func seedJuryFixtures(t *testing.T, db *gorm.DB) {
	t.Helper()

	require.NoError(t, db.Create(&models.Juror{ID: 7, Name: "Dewi", Email: "dewi@example.com", Role: models.RoleJuror, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Entry{ID: 3, Code: "E-001", Title: "Alpha", TeamName: "Team A", Status: models.EntryStatusApproved}).Error)
	require.NoError(t, db.Create(&models.RubricQuestion{ID: 1, Text: "Innovation", MaxScore: 10, WeightPercent: 60, Position: 1, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.RubricQuestion{ID: 2, Text: "Execution", MaxScore: 5, WeightPercent: 40, Position: 2, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.JuryAssignment{ID: 1, JurorID: 7, EntryID: 3}).Error)
}

func doJSON(t *testing.T, app *fiber.App, method, target string, payload interface{}) (int, utils.APIResponse) {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(encoded)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))

	return resp.StatusCode, envelope
}

func TestEvaluationHandlerJurorWorkflow(t *testing.T) {
	app, db := setupJuryApp(t, &testIdentity{userID: 7, role: models.RoleJuror})
	seedJuryFixtures(t, db)

	// First access creates a blank draft.
	status, envelope := doJSON(t, app, fiber.MethodGet, "/api/v1/jury/entries/3/evaluation", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.True(t, envelope.OK)

	var evaluation dto.EvaluationResponse
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &evaluation))
	require.Equal(t, models.EvaluationStatusDraft, evaluation.Status)
	require.Equal(t, 1, evaluation.Version)

	// Saving recomputes the full score tuple server-side.
	status, envelope = doJSON(t, app, fiber.MethodPut, "/api/v1/jury/entries/3/evaluation", dto.EvaluationSaveRequest{
		Ratings: []dto.RatingInput{
			{QuestionID: 1, Score: 8},
			{QuestionID: 2, Score: 5},
		},
		OverallComment: "solid entry",
		Version:        1,
	})
	require.Equal(t, fiber.StatusOK, status)

	raw, err = json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &evaluation))
	require.Equal(t, 13.0, evaluation.TotalScore)
	require.Equal(t, 88.0, evaluation.WeightedScore)
	require.Equal(t, 2, evaluation.Version)

	// A stale version is rejected.
	status, envelope = doJSON(t, app, fiber.MethodPut, "/api/v1/jury/entries/3/evaluation", dto.EvaluationSaveRequest{
		Ratings: []dto.RatingInput{{QuestionID: 1, Score: 6}},
		Version: 1,
	})
	require.Equal(t, fiber.StatusConflict, status)
	require.False(t, envelope.OK)

	status, envelope = doJSON(t, app, fiber.MethodPost, "/api/v1/jury/entries/3/evaluation/submit", dto.EvaluationSubmitRequest{Version: 2})
	require.Equal(t, fiber.StatusOK, status)

	raw, err = json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &evaluation))
	require.Equal(t, models.EvaluationStatusSubmitted, evaluation.Status)
	require.NotNil(t, evaluation.SubmittedAt)

	// No further juror writes once submitted.
	status, _ = doJSON(t, app, fiber.MethodPut, "/api/v1/jury/entries/3/evaluation", dto.EvaluationSaveRequest{
		Ratings: []dto.RatingInput{{QuestionID: 1, Score: 2}},
		Version: 3,
	})
	require.Equal(t, fiber.StatusConflict, status)

	// The submitted score shows up on the scoreboard.
	status, envelope = doJSON(t, app, fiber.MethodGet, "/api/v1/scoreboard", nil)
	require.Equal(t, fiber.StatusOK, status)

	var board dto.ScoreboardResponse
	raw, err = json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &board))
	require.Len(t, board.Rows, 1)
	require.Equal(t, 88.0, board.Rows[0].AverageScore)
	require.Equal(t, 1, board.Rows[0].EvaluationCount)
}

func TestEvaluationHandlerRejectsUnassignedEntry(t *testing.T) {
	app, db := setupJuryApp(t, &testIdentity{userID: 8, role: models.RoleJuror})
	seedJuryFixtures(t, db)

	status, envelope := doJSON(t, app, fiber.MethodGet, "/api/v1/jury/entries/3/evaluation", nil)
	require.Equal(t, fiber.StatusForbidden, status)
	require.False(t, envelope.OK)
	require.Equal(t, "not authorized", envelope.Message)
}

func TestAdminReviewHandlerLockAndSendBack(t *testing.T) {
	app, db := setupJuryApp(t, &testIdentity{userID: 1, role: models.RoleAdmin})
	seedJuryFixtures(t, db)

	require.NoError(t, db.Create(&models.Evaluation{
		ID: 1, JurorID: 7, EntryID: 3,
		Status:  models.EvaluationStatusSubmitted,
		Version: 2,
	}).Error)

	status, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/admin/evaluations/lock-all", nil)
	require.Equal(t, fiber.StatusOK, status)

	var report dto.LockAllResponse
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &report))
	require.Equal(t, 1, report.Locked)

	// Send-back only applies to submitted records; the one we just locked
	// must be reopened first.
	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/admin/evaluations/1/send-back", dto.SendBackRequest{Reason: "revisit"})
	require.Equal(t, fiber.StatusConflict, status)

	status, _ = doJSON(t, app, fiber.MethodPost, "/api/v1/admin/evaluations/1/reopen", nil)
	require.Equal(t, fiber.StatusOK, status)

	status, envelope = doJSON(t, app, fiber.MethodPost, "/api/v1/admin/evaluations/1/send-back", dto.SendBackRequest{Reason: "criterion two needs a comment"})
	require.Equal(t, fiber.StatusOK, status)

	var evaluation dto.EvaluationResponse
	raw, err = json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &evaluation))
	require.Equal(t, models.EvaluationStatusSentBack, evaluation.Status)
	require.Equal(t, "criterion two needs a comment", evaluation.SentBackReason)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	app, db := setupJuryApp(t, &testIdentity{userID: 7, role: models.RoleJuror})
	seedJuryFixtures(t, db)

	status, envelope := doJSON(t, app, fiber.MethodPost, "/api/v1/admin/evaluations/lock-all", nil)
	require.Equal(t, fiber.StatusForbidden, status)
	require.False(t, envelope.OK)
}
