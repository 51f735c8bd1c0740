// Package agent drives one chat turn end to end: prompt assembly, the model
// call, response parsing and validation, with the canned builders as the
// fallback whenever the model gives no usable UI.
package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/a2aproject/a2a-go/a2a"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"sigs.k8s.io/controller-runtime/pkg/log"

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/adapters"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/builder"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/llmclient"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/parser"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/prompt"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/router"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/validation"
)

const instrumentationName = "github.com/talkops-ai/k8s-autopilot-sub001/internal/agent"

// Source says where the messages of a Reply came from.
type Source string

const (
	SourceModel   Source = "model"
	SourceBuilder Source = "builder"
	// SourceText marks a reply that carries no A2UI messages.
	SourceText Source = "text"
)

const unrenderedReply = "The agent's reply could not be displayed."

// Request is one user turn.
type Request struct {
	Message string `json:"message"`

	// +optional
	History []llmclient.Message `json:"history,omitempty"`

	// Context carries the flags used to pick a canned surface when the model
	// produces none. Its Content defaults to the model's text.
	// +optional
	Context router.Response `json:"context,omitempty"`
}

// Reply is the agent's answer to a Request.
type Reply struct {
	Text     string         `json:"text"`
	Messages []a2ui.Message `json:"messages"`
	Parts    []a2a.Part     `json:"-"`
	Source   Source         `json:"source"`
}

// Responder answers chat turns with text plus an A2UI surface.
type Responder struct {
	llm       llmclient.LLMClient
	validator *validation.Validator
	prompts   *prompt.Builder
	role      string
	tracer    trace.Tracer

	mu      sync.RWMutex
	actions map[string]ActionHandler

	replies   metric.Int64Counter
	fallbacks metric.Int64Counter
}

// Option configures a Responder.
type Option func(*Responder)

// WithRole sets the persona of the system prompt.
func WithRole(role string) Option {
	return func(r *Responder) { r.role = role }
}

// WithPromptBuilder replaces the default prompt builder.
func WithPromptBuilder(b *prompt.Builder) Option {
	return func(r *Responder) { r.prompts = b }
}

// WithTracer replaces the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(r *Responder) { r.tracer = t }
}

// NewResponder wires a Responder. llm may be nil, in which case Respond
// always fails with ErrNoModel while actions keep working.
func NewResponder(llm llmclient.LLMClient, validator *validation.Validator, opts ...Option) (*Responder, error) {
	r := &Responder{
		llm:       llm,
		validator: validator,
		prompts:   prompt.NewBuilder(),
		tracer:    otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.actions = map[string]ActionHandler{
		a2ui.ActionHITLResponse: handleHITLResponse,
	}

	meter := otel.Meter(instrumentationName)
	var err error
	if r.replies, err = meter.Int64Counter("a2ui.agent.replies",
		metric.WithDescription("Replies by the source of their A2UI messages")); err != nil {
		return nil, fmt.Errorf("failed to create replies counter: %w", err)
	}
	if r.fallbacks, err = meter.Int64Counter("a2ui.agent.fallbacks",
		metric.WithDescription("Model replies whose A2UI payload was dropped")); err != nil {
		return nil, fmt.Errorf("failed to create fallbacks counter: %w", err)
	}
	return r, nil
}

// HasModel reports whether an LLM is configured.
func (r *Responder) HasModel() bool {
	return r.llm != nil
}

// Respond runs one turn. Model transport failures do not fail the call: they
// produce an error surface so the user always gets a reply.
func (r *Responder) Respond(ctx context.Context, req Request) (*Reply, error) {
	if r.llm == nil {
		return nil, ErrNoModel
	}
	ctx, span := r.tracer.Start(ctx, "Respond", trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	logger := log.FromContext(ctx)

	systemPrompt, err := r.prompts.SystemPrompt(r.role)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "prompt assembly failed")
		return nil, err
	}

	window := make([]llmclient.Message, 0, len(req.History)+2)
	window = append(window, llmclient.Message{Role: llmclient.RoleSystem, Content: systemPrompt})
	window = append(window, req.History...)
	window = append(window, llmclient.Message{Role: llmclient.RoleUser, Content: req.Message})

	output, err := r.sendLLMRequest(ctx, window)
	if err != nil {
		logger.Error(err, "LLM request failed")
		span.SetStatus(codes.Error, "LLM request failed")
		return r.finish(ctx, span, "", router.Build(router.Response{
			ResponseType: router.ResponseTypeError,
			Content:      "The language model could not be reached. Please try again.",
			Metadata:     map[string]interface{}{router.MetadataTitle: "Model Unavailable"},
		}), SourceBuilder)
	}

	text, raw := parser.ParseResponse(ctx, output.Content)
	if len(raw) == 0 {
		if before, _, found := parser.SplitResponse(output.Content); found {
			// The payload could not be decoded. Only the conversational part is
			// shown and no interactive surface is built from it.
			r.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "decode")))
			return r.plainText(ctx, span, before)
		}
	} else {
		result := r.validator.ValidateBatch(ctx, raw)
		if result.Valid() {
			return r.finish(ctx, span, text, result.Messages(), SourceModel)
		}
		logger.Info("Model produced invalid A2UI messages, using a canned surface",
			"invalid", len(result.Invalid()), "total", len(raw), "error", result.Aggregate().Error())
		r.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", "invalid")))
	}

	fallback := req.Context
	if fallback.Content == nil {
		fallback.Content = text
	}
	return r.finish(ctx, span, text, router.Build(fallback), SourceBuilder)
}

func (r *Responder) sendLLMRequest(ctx context.Context, window []llmclient.Message) (*llmclient.Message, error) {
	ctx, span := r.tracer.Start(ctx, "LLMRequest", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.Int("a2ui.context_window.messages", len(window)))

	output, err := r.llm.SendRequest(ctx, window)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "LLM request failed")
		return nil, err
	}
	if output == nil {
		output = &llmclient.Message{Role: llmclient.RoleAssistant}
	}
	span.SetStatus(codes.Ok, "")
	return output, nil
}

func (r *Responder) finish(ctx context.Context, span trace.Span, text string, msgs []a2ui.Message, source Source) (*Reply, error) {
	parts, err := adapters.ResponseParts(text, msgs)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("a2ui.source", string(source)),
		attribute.Int("a2ui.messages", len(msgs)),
	)
	r.replies.Add(ctx, 1, metric.WithAttributes(attribute.String("source", string(source))))
	return &Reply{Text: text, Messages: msgs, Parts: parts, Source: source}, nil
}

// plainText replies with text alone. An empty text still gets a
// non-interactive info surface so the reply is never blank.
func (r *Responder) plainText(ctx context.Context, span trace.Span, text string) (*Reply, error) {
	if text == "" {
		return r.finish(ctx, span, "", builder.Info(unrenderedReply, ""), SourceBuilder)
	}
	return r.finish(ctx, span, text, []a2ui.Message{}, SourceText)
}
