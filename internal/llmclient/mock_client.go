package llmclient

import (
	"context"
	"sync"
)

// MockLLMClient is a mock implementation of LLMClient for testing
type MockLLMClient struct {
	Response              *Message
	Error                 error
	ValidateContextWindow func(contextWindow []Message) error

	mu    sync.Mutex
	Calls []MockCall
}

type MockCall struct {
	Messages []Message
}

var _ LLMClient = &MockLLMClient{}

// SendRequest implements the LLMClient interface
func (m *MockLLMClient) SendRequest(ctx context.Context, messages []Message) (*Message, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{Messages: messages})
	m.mu.Unlock()

	if m.ValidateContextWindow != nil {
		if err := m.ValidateContextWindow(messages); err != nil {
			return nil, err
		}
	}

	if m.Error != nil {
		return m.Response, m.Error
	}

	if m.Response == nil {
		return &Message{
			Role:    RoleAssistant,
			Content: "Mock response",
		}, nil
	}

	return m.Response, nil
}

// CallCount returns the number of requests seen so far
func (m *MockLLMClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
