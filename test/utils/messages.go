package utils

import (
	"encoding/json"
	"strings"

	. "github.com/onsi/gomega" //nolint:golint,revive

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
)

// RawMessages marshals each message on its own, the shape the validator and
// parser exchange.
func RawMessages(msgs ...a2ui.Message) []json.RawMessage {
	raw := make([]json.RawMessage, len(msgs))
	for i, m := range msgs {
		data, err := json.Marshal(m)
		ExpectWithOffset(1, err).NotTo(HaveOccurred())
		raw[i] = data
	}
	return raw
}

// ModelOutput formats text and msgs the way the model is prompted to answer:
// the text, the delimiter and a JSON array.
func ModelOutput(text string, msgs ...a2ui.Message) string {
	data, err := json.Marshal(msgs)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return strings.Join([]string{text, a2ui.ResponseDelimiter, string(data)}, "\n")
}

// ApprovalEvent is the userAction an approval button sends for phase.
func ApprovalEvent(decision a2ui.Decision, phase string) a2ui.ClientEvent {
	return a2ui.ClientEvent{UserAction: &a2ui.UserAction{
		Name:      a2ui.ActionHITLResponse,
		SurfaceID: "hitl-form",
		Context: map[string]interface{}{
			a2ui.ContextDecision: string(decision),
			a2ui.ContextPhase:    phase,
		},
	}}
}
