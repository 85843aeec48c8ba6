package genai

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/status"
)

// Oracle defines the interface to the semantic enrichment service. It is a
// black box that turns column text into the nine structured enrichment
// fields; callers must treat any error as "no enrichment available".
type Oracle interface {
	// EnrichColumn extracts structured metadata for one column definition.
	EnrichColumn(ctx context.Context, req EnrichmentRequest) (*ColumnEnrichment, error)

	// IsAPIKeyValid checks if the configured API key is functional.
	IsAPIKeyValid(ctx context.Context) error

	// Close cleans up any resources used by the client.
	Close() error
}

// Config holds configuration for the GenAI client.
type Config struct {
	APIKey string
	Model  string
}

// geminiClient implements the Oracle interface using the Google Gemini API.
type geminiClient struct {
	client *genai.Client
	cfg    Config
	logger *zap.SugaredLogger
}

// NewClient creates a new Gemini-backed oracle.
func NewClient(ctx context.Context, cfg Config, logger *zap.SugaredLogger) (Oracle, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cannot create Gemini client: API key is missing")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash-latest"
		logger.Infof("Gemini model not specified, defaulting to %s", cfg.Model)
	}

	return &geminiClient{
		client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Close cleans up the underlying Gemini client.
func (c *geminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// IsAPIKeyValid checks if the Gemini API key is valid by listing models.
func (c *geminiClient) IsAPIKeyValid(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("gemini client not initialized (likely missing API key)")
	}

	modelIterator := c.client.ListModels(ctx)
	_, err := modelIterator.Next() // Attempt to list one model
	if err != nil {
		if st, ok := status.FromError(err); ok {
			if st.Code() == 16 /* UNAUTHENTICATED */ || st.Code() == 7 /* PERMISSION_DENIED */ {
				return fmt.Errorf("invalid Gemini API key or insufficient permissions: %w", err)
			}
		}
		return fmt.Errorf("failed to verify Gemini API key by listing models: %w", err)
	}
	return nil
}

// EnrichColumn calls the Gemini API with the column definition and decodes
// the JSON response. One bounded retry is applied for transient errors; the
// caller substitutes DefaultEnrichment on any returned error.
func (c *geminiClient) EnrichColumn(ctx context.Context, req EnrichmentRequest) (*ColumnEnrichment, error) {
	if c.client == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}

	prompt := buildEnrichmentPrompt(req)

	model := c.client.GenerativeModel(c.cfg.Model)
	// Low temperature for structured output.
	model.SetTemperature(0.0)
	model.SetMaxOutputTokens(1000)
	model.SetTopP(0.9)
	model.SetTopK(40)

	return withRetry(ctx, DefaultRetryOptions, func(ctx context.Context) (*ColumnEnrichment, error) {
		resp, err := model.GenerateContent(ctx, genai.Text(prompt))
		if err != nil {
			return nil, classifyAPIError(err)
		}

		text, err := getFirstTextPart(resp)
		if err != nil {
			return nil, &ErrUnparseableResponse{Msg: "empty oracle response", Err: err}
		}

		return DecodeEnrichment(text)
	})
}

// classifyAPIError wraps a Gemini API error into the retryable/terminal
// error types the retry loop understands.
func classifyAPIError(err error) error {
	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case 4 /* DEADLINE_EXCEEDED */ :
			return &ErrTimeout{Msg: "oracle call timed out", Err: err}
		case 8 /* RESOURCE_EXHAUSTED */, 14 /* UNAVAILABLE */ :
			return &ErrOracleCall{Msg: "transient oracle failure", Err: err}
		}
	}
	return fmt.Errorf("oracle call failed: %w", err)
}

// getFirstTextPart extracts the first text part from a Gemini response.
func getFirstTextPart(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if resp != nil && len(resp.Candidates) > 0 {
			finishReason = resp.Candidates[0].FinishReason.String()
		}
		return "", fmt.Errorf("empty or incomplete response from Gemini API. FinishReason: %s", finishReason)
	}
	part := resp.Candidates[0].Content.Parts[0]
	text, ok := part.(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type: %T", part)
	}
	return string(text), nil
}
