package v1alpha1

import (
	"encoding/json"
	"fmt"
)

// Action names the agent understands when a button fires.
const (
	ActionHITLResponse     = "hitl_response"
	ActionDownloadChart    = "download_chart"
	ActionDeployChart      = "deploy_chart"
	ActionUpgradeRelease   = "upgrade_release"
	ActionUninstallRelease = "uninstall_release"
)

// Context keys of a hitl_response action.
const (
	ContextDecision = "decision"
	ContextPhase    = "phase"
)

// Decision is the value of the "decision" context entry of a hitl_response action.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// Action is attached to interactive components. Context entries are
// resolved by the renderer and sent back with the user action.
type Action struct {
	// +kubebuilder:validation:Required
	// +kubebuilder:validation:MinLength=1
	Name string `json:"name"`

	// +optional
	Context []ActionContextEntry `json:"context,omitempty"`
}

// ActionContextEntry is one ordered key/value pair of an action's context.
type ActionContextEntry struct {
	Key   string     `json:"key"`
	Value BoundValue `json:"value"`
}

// ClientEvent is what a renderer sends back to the agent.
type ClientEvent struct {
	// +optional
	UserAction *UserAction `json:"userAction,omitempty"`
}

// UserAction reports that the user triggered a component's action.
// Context holds the action's context with every binding already resolved.
type UserAction struct {
	Name              string                 `json:"name"`
	SurfaceID         string                 `json:"surfaceId"`
	SourceComponentID string                 `json:"sourceComponentId,omitempty"`
	Timestamp         string                 `json:"timestamp,omitempty"`
	Context           map[string]interface{} `json:"context,omitempty"`
}

// ContextString returns a context value as a string. Numbers and booleans
// are formatted; a missing key yields "".
func (a UserAction) ContextString(key string) string {
	v, ok := a.Context[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
