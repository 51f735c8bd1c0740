package llmclient

import (
	"context"

	"github.com/talkops-ai/k8s-autopilot-sub001/internal/config"
)

// NewLLMClient creates a new LLM client based on the LLM configuration
func NewLLMClient(ctx context.Context, cfg config.LLMConfig) (LLMClient, error) {
	return NewLangchainClient(ctx, cfg)
}
