package server

import (
	"github.com/a2aproject/a2a-go/a2a"

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
)

const agentCardPath = "/.well-known/agent-card.json"

// AgentCard describes the service to A2A clients.
func AgentCard(baseURL, version string) *a2a.AgentCard {
	return &a2a.AgentCard{
		Name:               "A2UI Deployment Agent",
		Description:        "Answers with conversational text plus A2UI surfaces for Helm chart generation, review and deployment.",
		URL:                baseURL + "/v1/chat",
		Version:            version,
		ProtocolVersion:    "0.3.0",
		Capabilities:       a2a.AgentCapabilities{},
		DefaultInputModes:  []string{"text/plain"},
		DefaultOutputModes: []string{"text/plain", a2ui.MIMEType},
		Skills: []a2a.AgentSkill{
			{
				ID:          "a2ui-surfaces",
				Name:        "A2UI surfaces",
				Description: "Renders status, approval, completion, error and info surfaces for an agent response",
				Tags:        []string{"a2ui", "ui"},
				OutputModes: []string{a2ui.MIMEType},
			},
			{
				ID:          "hitl-approval",
				Name:        "Human approval",
				Description: "Collects approve or reject decisions through hitl_response actions",
				Tags:        []string{"a2ui", "hitl"},
			},
		},
	}
}
