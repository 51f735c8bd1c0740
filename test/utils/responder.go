package utils

import (
	. "github.com/onsi/ginkgo/v2" //nolint:golint,revive
	. "github.com/onsi/gomega"    //nolint:golint,revive

	"github.com/talkops-ai/k8s-autopilot-sub001/internal/agent"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/llmclient"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/validation"
)

// TestResponder wires a Responder to a mock model. Leave Reply and Err empty
// for a model that always answers "Mock response"; set NoModel for a
// Responder without an LLM.
type TestResponder struct {
	Reply   string
	Err     error
	NoModel bool

	Validator *validation.Validator
	LLM       *llmclient.MockLLMClient
	Responder *agent.Responder
}

func (t *TestResponder) Setup(opts ...agent.Option) *agent.Responder {
	By("creating the responder")
	validator, err := validation.NewValidator()
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	t.Validator = validator

	var llm llmclient.LLMClient
	if !t.NoModel {
		t.LLM = &llmclient.MockLLMClient{Error: t.Err}
		if t.Reply != "" {
			t.LLM.Response = &llmclient.Message{Role: llmclient.RoleAssistant, Content: t.Reply}
		}
		llm = t.LLM
	}

	responder, err := agent.NewResponder(llm, validator, opts...)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	t.Responder = responder
	return responder
}
