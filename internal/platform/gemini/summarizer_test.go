package gemini

import (
	"context"
	"log/slog"
	"testing"

	"github.com/riya23dhim/task-management-ai/internal/config"
	"github.com/riya23dhim/task-management-ai/internal/summarize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNewSummarizerValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	logger := slog.Default()

	t.Run("nil_logger", func(t *testing.T) {
		t.Parallel()
		_, err := NewSummarizer(ctx, nil, config.LLMConfig{GeminiAPIKey: "key", ModelName: "model"})
		require.Error(t, err)
	})

	t.Run("missing_api_key", func(t *testing.T) {
		t.Parallel()
		_, err := NewSummarizer(ctx, logger, config.LLMConfig{ModelName: "model"})
		require.Error(t, err)
		assert.ErrorIs(t, err, summarize.ErrInvalidConfig)
	})

	t.Run("missing_model_name", func(t *testing.T) {
		t.Parallel()
		_, err := NewSummarizer(ctx, logger, config.LLMConfig{GeminiAPIKey: "key"})
		require.Error(t, err)
		assert.ErrorIs(t, err, summarize.ErrInvalidConfig)
	})
}

func TestExtractSummary(t *testing.T) {
	t.Parallel()

	t.Run("nil_response", func(t *testing.T) {
		t.Parallel()
		_, err := extractSummary(nil)
		assert.ErrorIs(t, err, summarize.ErrInvalidResponse)
	})

	t.Run("no_candidates", func(t *testing.T) {
		t.Parallel()
		_, err := extractSummary(&genai.GenerateContentResponse{})
		assert.ErrorIs(t, err, summarize.ErrInvalidResponse)
	})

	t.Run("safety_blocked", func(t *testing.T) {
		t.Parallel()
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{FinishReason: genai.FinishReasonSafety},
			},
		}
		_, err := extractSummary(resp)
		assert.ErrorIs(t, err, summarize.ErrContentBlocked)
	})

	t.Run("empty_text", func(t *testing.T) {
		t.Parallel()
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content: &genai.Content{
						Parts: []*genai.Part{{Text: "   "}},
					},
				},
			},
		}
		_, err := extractSummary(resp)
		assert.ErrorIs(t, err, summarize.ErrInvalidResponse)
	})

	t.Run("trims_whitespace", func(t *testing.T) {
		t.Parallel()
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content: &genai.Content{
						Parts: []*genai.Part{{Text: "  A concise summary.\n"}},
					},
				},
			},
		}
		summary, err := extractSummary(resp)
		require.NoError(t, err)
		assert.Equal(t, "A concise summary.", summary)
	})
}
