package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/riya23dhim/task-management-ai/internal/config"
	"github.com/riya23dhim/task-management-ai/internal/summarize"
	"google.golang.org/genai"
)

// systemInstruction is the fixed instruction sent with every request. The
// task description is the only variable input.
const systemInstruction = "You are a helpful assistant that summarizes task descriptions concisely in one sentence."

// promptPrefix frames the user content for the model.
const promptPrefix = "Please summarize this task description in one clear, concise sentence: "

// maxOutputTokens caps the response size; a single sentence never needs more.
const maxOutputTokens = 100

// temperature keeps summaries close to the source text.
const temperature float32 = 0.3

// GeminiSummarizer implements the summarize.Summarizer interface using
// Google's Gemini API to generate one-sentence task summaries.
type GeminiSummarizer struct {
	logger *slog.Logger
	config config.LLMConfig
	client *genai.Client
	model  string
}

// Ensure GeminiSummarizer implements summarize.Summarizer interface
var _ summarize.Summarizer = (*GeminiSummarizer)(nil)

// NewSummarizer creates a new GeminiSummarizer with the provided dependencies.
// It validates the LLM configuration and initializes the Gemini API client.
func NewSummarizer(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*GeminiSummarizer, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", summarize.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", summarize.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			summarize.ErrInvalidConfig, err)
	}

	return &GeminiSummarizer{
		logger: logger,
		config: cfg,
		client: client,
		model:  cfg.ModelName,
	}, nil
}

// Summarize implements summarize.Summarizer. It calls the Gemini API with the
// fixed summarization instruction and the given text, retrying transient
// failures with exponential backoff and jitter. Permanent errors (blocked or
// malformed responses) are returned immediately. The caller's context bounds
// the whole operation, retries included.
func (g *GeminiSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", summarize.ErrEmptyText
	}

	maxRetries := g.config.MaxRetries
	baseDelaySeconds := g.config.RetryDelaySeconds
	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "invalid max retries value, using default", "max_retries", 2)
		maxRetries = 2
	}
	if baseDelaySeconds < 1 {
		g.logger.WarnContext(ctx, "invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	contents := genai.Text(promptPrefix + text)
	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(temperature),
		MaxOutputTokens:   maxOutputTokens,
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; ; attempt++ {
		attemptNum := attempt + 1 // For logging (1-based)
		g.logger.DebugContext(ctx, "making Gemini API call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1,
			"text_length", len(text))

		resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, genConfig)

		var summary string
		if err != nil {
			// API-level failure; assume transient unless the context is done.
			if ctx.Err() != nil {
				return "", fmt.Errorf("%w: %v", summarize.ErrTransientFailure, ctx.Err())
			}
			err = fmt.Errorf("%w: %v", summarize.ErrTransientFailure, err)
		} else {
			summary, err = extractSummary(resp)
		}

		if err == nil {
			g.logger.DebugContext(ctx, "Gemini API call successful",
				"attempt", attemptNum,
				"summary_length", len(summary))
			return summary, nil
		}

		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"attempt", attemptNum,
			"error", err)

		// Permanent errors are never retried.
		if errors.Is(err, summarize.ErrContentBlocked) || errors.Is(err, summarize.ErrInvalidResponse) {
			return "", err
		}

		if attempt >= maxRetries {
			return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d)",
				summarize.ErrTransientFailure, maxRetries)
		}

		// Exponential backoff with jitter:
		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5
		delay := time.Duration(backoffSeconds * jitterFactor * float64(time.Second))

		g.logger.DebugContext(ctx, "retrying after delay",
			"attempt", attemptNum,
			"delay", delay.String())

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", summarize.ErrTransientFailure, ctx.Err())
		}
	}
}

// extractSummary pulls the generated sentence out of an API response,
// classifying empty, blocked, or malformed responses as permanent errors.
func extractSummary(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", summarize.ErrInvalidResponse)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", summarize.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: finish reason safety", summarize.ErrContentBlocked)
	}

	summary := strings.TrimSpace(resp.Text())
	if summary == "" {
		return "", fmt.Errorf("%w: empty text in response", summarize.ErrInvalidResponse)
	}

	return summary, nil
}
