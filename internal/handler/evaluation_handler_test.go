package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rubricai-api/internal/config"
	"github.com/noah-isme/rubricai-api/internal/handler"
	"github.com/noah-isme/rubricai-api/internal/middleware"
	"github.com/noah-isme/rubricai-api/internal/repository"
	"github.com/noah-isme/rubricai-api/internal/router"
	"github.com/noah-isme/rubricai-api/internal/rubric"
	"github.com/noah-isme/rubricai-api/internal/service"
	"github.com/noah-isme/rubricai-api/pkg/ai"
)

type countingEvaluator struct {
	text  string
	err   error
	calls int
}

func (e *countingEvaluator) Evaluate(ctx context.Context, input ai.EvaluationInput) (ai.EvaluationOutput, error) {
	e.calls++
	if e.err != nil {
		return ai.EvaluationOutput{}, e.err
	}
	return ai.EvaluationOutput{Text: e.text, Model: "models/gemini-flash-latest", Provider: "gemini"}, nil
}

func (e *countingEvaluator) Model() string {
	return "models/gemini-flash-latest"
}

type testAppOptions struct {
	evaluator  ai.Evaluator
	adminToken string
	strict     bool
	historyDir string
}

func setupApp(t *testing.T, opts testAppOptions) *fiber.App {
	t.Helper()

	logger := zerolog.New(io.Discard)
	validate := validator.New(validator.WithRequiredStructEnabled())

	dir := opts.historyDir
	if dir == "" {
		dir = t.TempDir()
	}
	history := repository.NewFileHistoryRepository(filepath.Join(dir, "evaluations.jsonl"), logger)

	svcConfig := service.EvaluationServiceConfig{}
	if opts.strict {
		schema, err := rubric.NewValidator()
		require.NoError(t, err)
		svcConfig.Schema = schema
	}

	evaluationService := service.NewEvaluationService(history, opts.evaluator, validate, logger, svcConfig)

	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, config.Config{AppName: "Test", AdminToken: opts.adminToken}, router.Dependencies{
		EvaluationHandler: handler.NewEvaluationHandler(evaluationService, validate, logger),
		HistoryHandler:    handler.NewHistoryHandler(evaluationService, logger),
		AdminGuard:        middleware.AdminToken(opts.adminToken, logger),
		EvaluatorReady:    opts.evaluator != nil,
	})

	return app
}

func postEvaluate(t *testing.T, app *fiber.App, contentType, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/evaluate", bytes.NewBufferString(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestEvaluateReturnsModelJSON(t *testing.T) {
	evaluator := &countingEvaluator{text: `{"total_score": 10, "feedback": "Great job"}`}
	app := setupApp(t, testAppOptions{evaluator: evaluator})

	resp := postEvaluate(t, app, fiber.MIMEApplicationJSON, `{"pseudocode": "print('test')"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload map[string]interface{}
	decodeResponse(t, resp, &payload)
	require.Equal(t, map[string]interface{}{"total_score": float64(10), "feedback": "Great job"}, payload)
	require.Equal(t, 1, evaluator.calls)
}

func TestEvaluateRejectsInvalidInputWithoutCallingModel(t *testing.T) {
	evaluator := &countingEvaluator{text: `{"total_score": 10}`}
	app := setupApp(t, testAppOptions{evaluator: evaluator})

	cases := []struct {
		name        string
		contentType string
		body        string
		message     string
	}{
		{"empty object", fiber.MIMEApplicationJSON, `{}`, "Missing or invalid 'pseudocode' field"},
		{"empty string", fiber.MIMEApplicationJSON, `{"pseudocode": ""}`, "Missing or invalid 'pseudocode' field"},
		{"number", fiber.MIMEApplicationJSON, `{"pseudocode": 123}`, "Missing or invalid 'pseudocode' field"},
		{"null", fiber.MIMEApplicationJSON, `{"pseudocode": null}`, "Missing or invalid 'pseudocode' field"},
		{"array body", fiber.MIMEApplicationJSON, `["x"]`, "Missing or invalid 'pseudocode' field"},
		{"broken json", fiber.MIMEApplicationJSON, `{"pseudocode": `, "Request must be JSON"},
		{"form body", fiber.MIMEApplicationForm, `pseudocode=x`, "Request must be JSON"},
		{"no content type", "", `{"pseudocode": "x"}`, "Request must be JSON"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postEvaluate(t, app, tc.contentType, tc.body)
			require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var payload map[string]interface{}
			decodeResponse(t, resp, &payload)
			require.Equal(t, tc.message, payload["error"])
		})
	}

	require.Zero(t, evaluator.calls)
}

func TestEvaluateNonJSONModelReplyReturnsBadGateway(t *testing.T) {
	app := setupApp(t, testAppOptions{evaluator: &countingEvaluator{text: "not json"}})

	resp := postEvaluate(t, app, fiber.MIMEApplicationJSON, `{"pseudocode": "PRINT 1"}`)
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var payload map[string]interface{}
	decodeResponse(t, resp, &payload)
	require.Equal(t, "AI response was not valid JSON", payload["error"])
	require.Equal(t, "not json", payload["ai_raw_response"])
}

func TestEvaluateCodeFencedModelReplyReturnsBadGateway(t *testing.T) {
	raw := "```json\n{\"total_score\": 7}\n```"
	app := setupApp(t, testAppOptions{evaluator: &countingEvaluator{text: raw}})

	resp := postEvaluate(t, app, fiber.MIMEApplicationJSON, `{"pseudocode": "PRINT 1"}`)
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var payload map[string]interface{}
	decodeResponse(t, resp, &payload)
	require.Equal(t, "AI response was not valid JSON", payload["error"])
	require.Equal(t, raw, payload["ai_raw_response"])
}

func TestEvaluateUpstreamFailureIsGeneric(t *testing.T) {
	evaluator := &countingEvaluator{err: errors.New("rpc error: secret internal detail")}
	app := setupApp(t, testAppOptions{evaluator: evaluator})

	resp := postEvaluate(t, app, fiber.MIMEApplicationJSON, `{"pseudocode": "PRINT 1"}`)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"error": "An internal server error occurred"}`, string(body))
	require.False(t, strings.Contains(string(body), "secret"))
}

func TestEvaluateWithoutCredentialFailsAtRequestTime(t *testing.T) {
	app := setupApp(t, testAppOptions{})

	resp := postEvaluate(t, app, fiber.MIMEApplicationJSON, `{"pseudocode": "PRINT 1"}`)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	resp = postEvaluate(t, app, fiber.MIMEApplicationJSON, `{}`)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEvaluateStrictModeRejectsIncompleteRubric(t *testing.T) {
	app := setupApp(t, testAppOptions{evaluator: &countingEvaluator{text: `{"total_score": 10}`}, strict: true})

	resp := postEvaluate(t, app, fiber.MIMEApplicationJSON, `{"pseudocode": "PRINT 1"}`)
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var payload map[string]interface{}
	decodeResponse(t, resp, &payload)
	require.Equal(t, "AI response did not match the rubric schema", payload["error"])
	require.Equal(t, `{"total_score": 10}`, payload["ai_raw_response"])
	require.NotEmpty(t, payload["details"])
}

func TestIndexServesStaticPage(t *testing.T) {
	app := setupApp(t, testAppOptions{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "<title>RubricAI</title>")
}

func TestHealthReportsEvaluatorState(t *testing.T) {
	app := setupApp(t, testAppOptions{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload handler.HealthResponse
	decodeResponse(t, resp, &payload)
	require.Equal(t, "ok", payload.Status)
	require.Equal(t, "Test", payload.Service)
	require.False(t, payload.EvaluatorReady)
}
