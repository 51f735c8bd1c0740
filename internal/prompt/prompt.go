// Package prompt assembles the system prompt fragment that teaches a model to
// answer with A2UI messages after the response delimiter.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/prompts"

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/builder"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/validation"
)

// DefaultRole is used when SystemPrompt is called with an empty role.
const DefaultRole = "a Kubernetes deployment assistant that generates and manages Helm charts"

const systemTemplate = `You are {{.role}}.

Answer in two parts. First write your reply to the user as Markdown. Then, when a
visual surface helps the user, write the line {{.delimiter}} followed by a JSON
array of A2UI messages. Never write the delimiter more than once.

UI rules:
- Each message has exactly one of beginRendering, surfaceUpdate, dataModelUpdate or deleteSurface.
- Create a surface with beginRendering, then send its components with surfaceUpdate,
  then its data with dataModelUpdate. Remove a surface with deleteSurface.
- Components never hold data. Bind text to the data model with {"path": "/key"} and
  send the values with dataModelUpdate. Use {"literalString": "..."} only for fixed labels.
- Component ids are unique within a surface. Containers list their children by id.
- primaryColor is a hex color of the form #rrggbb.

Button actions the agent understands:
{{.actions}}
Examples:
{{.examples}}{{if .schema}}
Every message must validate against this JSON schema:
{{.schema}}
{{end}}`

var inputVariables = []string{"role", "delimiter", "actions", "examples", "schema"}

var actionCatalogue = []struct {
	name, description string
}{
	{a2ui.ActionHITLResponse, `context "decision" ("approved" or "rejected") and "phase" (the phase being reviewed)`},
	{a2ui.ActionDownloadChart, `context "chart" (chart name) and optionally "version"`},
	{a2ui.ActionDeployChart, `context "chart", "release" and "namespace"`},
	{a2ui.ActionUpgradeRelease, `context "release", "namespace" and optionally "version"`},
	{a2ui.ActionUninstallRelease, `context "release" and "namespace"`},
}

// Builder renders the A2UI system prompt.
type Builder struct {
	template      prompts.PromptTemplate
	includeSchema bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithoutSchema leaves the JSON schema out of the prompt.
func WithoutSchema() Option {
	return func(b *Builder) {
		b.includeSchema = false
	}
}

// NewBuilder returns a Builder that includes the schema unless told otherwise.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		template:      prompts.NewPromptTemplate(systemTemplate, inputVariables),
		includeSchema: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SystemPrompt renders the prompt for an agent playing role.
func (b *Builder) SystemPrompt(role string) (string, error) {
	if strings.TrimSpace(role) == "" {
		role = DefaultRole
	}
	examples, err := Examples()
	if err != nil {
		return "", err
	}
	schema := ""
	if b.includeSchema {
		schema = validation.SchemaJSON()
	}

	out, err := b.template.Format(map[string]any{
		"role":      role,
		"delimiter": a2ui.ResponseDelimiter,
		"actions":   actionList(),
		"examples":  examples,
		"schema":    schema,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render system prompt: %w", err)
	}
	return out, nil
}

func actionList() string {
	var sb strings.Builder
	for _, a := range actionCatalogue {
		fmt.Fprintf(&sb, "- %s: %s\n", a.name, a.description)
	}
	return sb.String()
}

// Examples renders sample replies built by the canned builders.
func Examples() (string, error) {
	samples := []struct {
		reply string
		msgs  []a2ui.Message
	}{
		{"I'm generating the chart templates now.",
			builder.WorkingStatus("Rendering Deployment and Service templates", "generating")},
		{"The chart is ready for review.",
			builder.HITLApproval("Please review the generated chart before it is published.", "generation", "Review chart")},
	}

	var sb strings.Builder
	for i, s := range samples {
		data, err := json.MarshalIndent(s.msgs, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode example %d: %w", i, err)
		}
		fmt.Fprintf(&sb, "%s\n%s\n%s\n\n", s.reply, a2ui.ResponseDelimiter, data)
	}
	return sb.String(), nil
}
