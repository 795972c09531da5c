package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rubricai-api/pkg/ai"
)

func TestNewEvaluatorsRequireAPIKey(t *testing.T) {
	_, err := ai.NewOpenAIEvaluator(ai.OpenAIConfig{})
	require.True(t, errors.Is(err, ai.ErrMissingAPIKey))

	_, err = ai.NewGeminiEvaluator(context.Background(), ai.GeminiConfig{})
	require.True(t, errors.Is(err, ai.ErrMissingAPIKey))
}

func TestOpenAIEvaluatorRequestsJSONObject(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": " {\"total_score\": 8} "}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	evaluator, err := ai.NewOpenAIEvaluator(ai.OpenAIConfig{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)
	require.Equal(t, "gpt-4o-mini", evaluator.Model())

	output, err := evaluator.Evaluate(context.Background(), ai.EvaluationInput{Prompt: "grade this"})
	require.NoError(t, err)
	require.Equal(t, `{"total_score": 8}`, output.Text)
	require.Equal(t, "openai", output.Provider)

	format, ok := captured["response_format"].(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "json_object", format["type"])
}

func TestOpenAIEvaluatorWrapsUpstreamErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	}))
	defer server.Close()

	evaluator, err := ai.NewOpenAIEvaluator(ai.OpenAIConfig{APIKey: "test-key", BaseURL: server.URL + "/v1"})
	require.NoError(t, err)

	_, err = evaluator.Evaluate(context.Background(), ai.EvaluationInput{Prompt: "grade this"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "openai generate")
}

func TestGeminiEvaluatorReturnsCandidateText(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		body, err = io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Contains(t, r.URL.Path, "gemini-flash-latest:generateContent")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "{\"total_score\": 10}"}]},
				"finishReason": "STOP"
			}]
		}`))
	}))
	defer server.Close()

	evaluator, err := ai.NewGeminiEvaluator(context.Background(), ai.GeminiConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL + "/",
		HTTPClient: server.Client(),
	})
	require.NoError(t, err)
	require.Equal(t, "models/gemini-flash-latest", evaluator.Model())

	output, err := evaluator.Evaluate(context.Background(), ai.EvaluationInput{Prompt: "grade this"})
	require.NoError(t, err)
	require.Equal(t, `{"total_score": 10}`, output.Text)
	require.Equal(t, "gemini", output.Provider)
	require.Contains(t, string(body), "application/json")
	require.Contains(t, string(body), "grade this")
}
