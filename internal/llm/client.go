package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Client is an abstraction over LLM providers
type Client interface {
	// Generate sends a single request and returns the generated text of the first candidate
	Generate(ctx context.Context, req Request) (string, error)
	// GetModel returns the underlying provider model for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported provider %q", config.Provider)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// Generate performs one generateContent call. No retries happen here.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	modelName := c.config.GetModel(req.Tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", req.Tier)
	}

	model := c.client.GenerativeModel(modelName)
	applyParams(model, req)

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", classifyError(err)
	}

	return extractTextFromResponse(resp)
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func applyParams(model *genai.GenerativeModel, req Request) {
	p := req.Params
	if p.Temperature != nil {
		model.SetTemperature(*p.Temperature)
	}
	if p.TopK > 0 {
		model.SetTopK(p.TopK)
	}
	if p.TopP > 0 {
		model.SetTopP(p.TopP)
	}
	if p.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(p.MaxOutputTokens)
	}
	if req.SystemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemInstruction)},
		}
	}
	if req.Schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = toGenaiSchema(req.Schema)
	} else if req.JSONOutput {
		model.ResponseMIMEType = "application/json"
	}
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Items:       toGenaiSchema(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func genaiType(t SchemaType) genai.Type {
	switch t {
	case TypeString:
		return genai.TypeString
	case TypeNumber:
		return genai.TypeNumber
	case TypeInteger:
		return genai.TypeInteger
	case TypeBoolean:
		return genai.TypeBoolean
	case TypeArray:
		return genai.TypeArray
	case TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}

// classifyError maps SDK errors onto the package's error taxonomy.
func classifyError(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		reason := "unspecified"
		if blocked.PromptFeedback != nil {
			reason = blocked.PromptFeedback.BlockReason.String()
		} else if blocked.Candidate != nil {
			reason = blocked.Candidate.FinishReason.String()
		}
		return &BlockedError{Reason: reason}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &UpstreamError{
			Status:  apiErr.Code,
			Message: apiErr.Message,
			Cause:   err,
		}
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &UpstreamError{Message: "request cancelled or timed out", Cause: err}
	}

	return &UpstreamError{Message: "failed to generate content", Cause: err}
}

// extractTextFromResponse returns the first text part of the first candidate
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", &BlockedError{Reason: resp.PromptFeedback.BlockReason.String()}
		}
		return "", ErrNoCandidates
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok && string(text) != "" {
			return string(text), nil
		}
	}

	return "", ErrEmptyResponse
}
