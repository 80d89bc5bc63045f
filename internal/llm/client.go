package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jonathan/auction-appraiser/internal/logging"
	"github.com/jonathan/auction-appraiser/internal/prompts"
	"github.com/jonathan/auction-appraiser/internal/types"
)

// Client appraises one batch of listings with one model.
//
// Failures are typed: *TransientBackendError, *EscalationError or *MalformedResponseError.
// A cancelled caller context is returned as the context error itself.
type Client interface {
	// AnalyzeBatch returns exactly one result per listing, in batch order
	AnalyzeBatch(ctx context.Context, batch []types.Listing, model string) ([]types.AnalysisResult, error)
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string, logger *log.Logger) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config, apiKey, logger)
	default:
		return nil, fmt.Errorf("unsupported provider %q", config.Provider)
	}
}

// generateFunc performs the raw backend call; swapped out in tests
type generateFunc func(ctx context.Context, model string, parts []genai.Part) (*genai.GenerateContentResponse, error)

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client   *genai.Client
	config   *Config
	logger   *log.Logger
	generate generateFunc
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string, logger *log.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if err := prompts.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := newGeminiClient(config, logger, nil)
	c.client = client
	c.generate = c.generateWithGemini
	return c, nil
}

func newGeminiClient(config *Config, logger *log.Logger, generate generateFunc) *GeminiClient {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &GeminiClient{config: config, logger: logger, generate: generate}
}

// AnalyzeBatch sends the batch to the named model and parses the JSON array it returns
func (c *GeminiClient) AnalyzeBatch(ctx context.Context, batch []types.Listing, model string) ([]types.AnalysisResult, error) {
	if model == "" {
		return nil, &EscalationError{Model: model, Message: "no model identifier given"}
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("cannot analyze an empty batch")
	}

	parts, err := buildParts(batch, c.config.ImageDir, c.logger)
	if err != nil {
		return nil, err
	}

	callCtx := ctx
	if c.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.config.RequestTimeout)
		defer cancel()
	}

	c.logger.Debug("calling model", "model", model, "listings", len(batch), "parts", len(parts))
	resp, err := c.generate(callCtx, model, parts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, classifyBackendError(model, err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, &MalformedResponseError{Model: model, Message: "no usable text in response", Cause: err}
	}

	return ParseBatchResponse(model, text, batch)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *GeminiClient) generateWithGemini(ctx context.Context, modelName string, parts []genai.Part) (*genai.GenerateContentResponse, error) {
	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(c.config.Temperature)
	model.ResponseMIMEType = "application/json"

	return model.GenerateContent(ctx, parts...)
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
