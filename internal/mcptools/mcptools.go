// Package mcptools exposes the A2UI validator, parser and surface router as
// MCP tools so coding agents can check and render A2UI without the HTTP API.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/talkops-ai/k8s-autopilot-sub001/internal/parser"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/router"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/validation"
)

// Tool names
const (
	ToolValidate = "validate_a2ui"
	ToolParse    = "parse_a2ui_response"
	ToolRender   = "render_surface"
)

// Toolset holds the handlers behind the MCP tools.
type Toolset struct {
	validator *validation.Validator
}

// NewToolset creates a Toolset backed by validator.
func NewToolset(validator *validation.Validator) *Toolset {
	return &Toolset{validator: validator}
}

// Tools returns the tool definitions served by NewServer.
func Tools() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(ToolValidate,
			mcp.WithDescription("Validate an A2UI message or batch of messages and report per-entry errors"),
			mcp.WithString("json",
				mcp.Required(),
				mcp.Description("A JSON array of A2UI messages or a single message object"),
			),
		),
		mcp.NewTool(ToolParse,
			mcp.WithDescription("Split an agent response into conversational text and A2UI messages"),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("Raw model output, optionally containing the ---a2ui_JSON--- delimiter"),
			),
		),
		mcp.NewTool(ToolRender,
			mcp.WithDescription("Render the A2UI surface matching an agent response state"),
			mcp.WithString("content", mcp.Description("Text shown on the surface")),
			mcp.WithBoolean("is_task_complete", mcp.Description("Whether the task finished")),
			mcp.WithBoolean("require_user_input", mcp.Description("Whether the agent waits on the user")),
			mcp.WithString("response_type", mcp.Description("Set to \"error\" to render a failure")),
			mcp.WithString("interrupt_type", mcp.Description("Interrupt that paused the agent, e.g. hitl_gate")),
			mcp.WithString("status", mcp.Description("Status label for working surfaces")),
			mcp.WithString("phase_id", mcp.Description("Workflow phase awaiting approval")),
			mcp.WithString("title", mcp.Description("Surface title")),
		),
	}
}

// NewServer builds an MCP server exposing the toolset.
func NewServer(ts *Toolset, version string) *server.MCPServer {
	s := server.NewMCPServer("a2ui-tools", version)
	handlers := map[string]server.ToolHandlerFunc{
		ToolValidate: ts.Validate,
		ToolParse:    ts.Parse,
		ToolRender:   ts.Render,
	}
	for _, tool := range Tools() {
		s.AddTool(tool, handlers[tool.Name])
	}
	return s
}

// ServeStdio serves the toolset over stdin and stdout until the input closes.
func ServeStdio(ts *Toolset, version string) error {
	return server.ServeStdio(NewServer(ts, version))
}

// Validate handles validate_a2ui.
func (ts *Toolset) Validate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, ok := stringArg(request, "json")
	if !ok || strings.TrimSpace(input) == "" {
		return toolError("json argument is required"), nil
	}

	result, err := ts.validator.ValidateJSON(ctx, []byte(input))
	if err != nil {
		return toolError(err.Error()), nil
	}
	if result.Valid() {
		return mcp.NewToolResultText(fmt.Sprintf("valid: %d message(s)", len(result.Entries))), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "invalid: %d of %d message(s) rejected\n", len(result.Invalid()), len(result.Entries))
	for _, e := range result.Errors() {
		b.WriteString(e.Error())
		b.WriteString("\n")
	}
	return toolError(strings.TrimSuffix(b.String(), "\n")), nil
}

// Parse handles parse_a2ui_response.
func (ts *Toolset) Parse(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, _ := stringArg(request, "content")
	text, msgs := parser.ParseResponse(ctx, content)
	out, err := json.Marshal(struct {
		Text     string            `json:"text"`
		Messages []json.RawMessage `json:"messages"`
	}{text, msgs})
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}

// Render handles render_surface.
func (ts *Toolset) Render(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	resp := router.Response{
		IsTaskComplete:   boolArg(request, "is_task_complete"),
		RequireUserInput: boolArg(request, "require_user_input"),
		Metadata:         map[string]interface{}{},
	}
	if content, ok := stringArg(request, "content"); ok {
		resp.Content = content
	}
	resp.ResponseType, _ = stringArg(request, "response_type")
	for arg, key := range map[string]string{
		"interrupt_type": router.MetadataInterruptType,
		"status":         router.MetadataStatus,
		"phase_id":       router.MetadataPhaseID,
		"title":          router.MetadataTitle,
	} {
		if v, ok := stringArg(request, arg); ok && v != "" {
			resp.Metadata[key] = v
		}
	}

	msgs := router.Build(resp)
	out, err := json.Marshal(msgs)
	if err != nil {
		return nil, err
	}
	log.FromContext(ctx).V(1).Info("Rendered surface", "archetype", router.Select(resp))
	return mcp.NewToolResultText(string(out)), nil
}

func stringArg(request mcp.CallToolRequest, name string) (string, bool) {
	v, ok := request.Params.Arguments[name].(string)
	return v, ok
}

func boolArg(request mcp.CallToolRequest, name string) bool {
	v, _ := request.Params.Arguments[name].(bool)
	return v
}

func toolError(msg string) *mcp.CallToolResult {
	result := mcp.NewToolResultText(msg)
	result.IsError = true
	return result
}
