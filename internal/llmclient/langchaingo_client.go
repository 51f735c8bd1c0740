package llmclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/googleai/vertex"
	"github.com/tmc/langchaingo/llms/mistral"
	"github.com/tmc/langchaingo/llms/openai"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/talkops-ai/k8s-autopilot-sub001/internal/config"
)

var _ LLMClient = &LangchainClient{}

// LangchainClient implements the LLMClient interface using langchaingo
type LangchainClient struct {
	model   llms.Model
	options []llms.CallOption
}

// NewLangchainClient creates a new client using the configured provider and credentials
func NewLangchainClient(ctx context.Context, cfg config.LLMConfig) (*LangchainClient, error) {
	var model llms.Model
	var err error

	switch cfg.Provider {
	case "openai":
		opts := []openai.Option{openai.WithToken(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		model, err = openai.New(opts...)
	case "anthropic":
		opts := []anthropic.Option{anthropic.WithToken(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		model, err = anthropic.New(opts...)
	case "mistral":
		opts := []mistral.Option{mistral.WithAPIKey(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, mistral.WithModel(cfg.Model))
		}
		if cfg.BaseURL != "" {
			opts = append(opts, mistral.WithEndpoint(cfg.BaseURL))
		}
		model, err = mistral.New(opts...)
	case "google":
		opts := []googleai.Option{googleai.WithAPIKey(cfg.APIKey)}
		if cfg.Model != "" {
			opts = append(opts, googleai.WithDefaultModel(cfg.Model))
		}
		model, err = googleai.New(ctx, opts...)
	case "vertex":
		opts := []googleai.Option{googleai.WithCredentialsJSON([]byte(cfg.APIKey))}
		if cfg.Model != "" {
			opts = append(opts, googleai.WithDefaultModel(cfg.Model))
		}
		model, err = vertex.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported provider: %s. Supported providers are: openai, anthropic, mistral, google, vertex", cfg.Provider)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s client: %w", cfg.Provider, err)
	}

	var callOpts []llms.CallOption
	if cfg.Temperature != nil {
		callOpts = append(callOpts, llms.WithTemperature(*cfg.Temperature))
	}
	if cfg.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(cfg.MaxTokens))
	}
	return &LangchainClient{model: model, options: callOpts}, nil
}

// NewLangchainClientFromModel wraps an already constructed model
func NewLangchainClientFromModel(model llms.Model, options ...llms.CallOption) *LangchainClient {
	return &LangchainClient{model: model, options: options}
}

// SendRequest implements the LLMClient interface
func (c *LangchainClient) SendRequest(ctx context.Context, messages []Message) (*Message, error) {
	logger := log.FromContext(ctx)

	response, err := c.model.GenerateContent(ctx, convertToLangchainMessages(messages), c.options...)
	if err != nil {
		return nil, &LLMRequestError{
			StatusCode: statusCodeOf(err),
			Message:    fmt.Sprintf("langchain API call failed: %v", err),
			Err:        err,
		}
	}

	if len(response.Choices) > 1 {
		logger.V(1).Info("LLM returned multiple choices",
			"choiceCount", len(response.Choices))
	}

	return convertFromLangchainResponse(ctx, response), nil
}

// statusCodeOf maps the error kinds langchaingo surfaces to an HTTP status.
// Zero means the provider gave no usable signal.
func statusCodeOf(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return 499
	}
	var reqErr *LLMRequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode
	}
	return 0
}

// convertToLangchainMessages converts chat messages to langchaingo format
func convertToLangchainMessages(messages []Message) []llms.MessageContent {
	langchainMessages := make([]llms.MessageContent, 0, len(messages))

	for _, message := range messages {
		var role llms.ChatMessageType
		switch message.Role {
		case RoleSystem:
			role = llms.ChatMessageTypeSystem
		case RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeHuman
		}

		langchainMessages = append(langchainMessages, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextContent{Text: message.Content}},
		})
	}

	return langchainMessages
}

// convertFromLangchainResponse takes the first non-empty choice
func convertFromLangchainResponse(ctx context.Context, response *llms.ContentResponse) *Message {
	logger := log.FromContext(ctx).WithName("langchaingo")

	message := &Message{Role: RoleAssistant}
	if response == nil || len(response.Choices) == 0 {
		logger.V(1).Info("LLM returned an empty response with no choices")
		return message
	}

	for i, choice := range response.Choices {
		if choice.Content != "" {
			logger.V(2).Info("Found content in choice",
				"choiceIndex", i,
				"contentPreview", truncateString(choice.Content, 50))
			message.Content = choice.Content
			return message
		}
	}

	logger.V(1).Info("LLM returned choices without content")
	return message
}

// truncateString truncates a string to the specified length if needed
func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}
