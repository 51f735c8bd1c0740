package llmclient

import (
	"context"
	"fmt"
)

// Chat roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat exchange
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMClient defines the interface for interacting with LLM providers
type LLMClient interface {
	// SendRequest sends a request to the LLM and returns the response
	SendRequest(ctx context.Context, messages []Message) (*Message, error)
}

// LLMRequestError represents an error that occurred during an LLM request
// and includes HTTP status code information when the provider reports one
type LLMRequestError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *LLMRequestError) Error() string {
	return fmt.Sprintf("LLM request failed with status %d: %s", e.StatusCode, e.Message)
}

func (e *LLMRequestError) Unwrap() error {
	return e.Err
}
