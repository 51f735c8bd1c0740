package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/a2aproject/a2a-go/a2a"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"sigs.k8s.io/controller-runtime/pkg/log"

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/adapters"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/builder"
)

var (
	// ErrNoModel is returned by Respond when no LLM is configured.
	ErrNoModel = errors.New("no language model configured")
	// ErrUnknownAction is returned for an action name with no handler.
	ErrUnknownAction = errors.New("unknown action")
	// ErrInvalidAction is returned when an action's context is unusable.
	ErrInvalidAction = errors.New("invalid action context")
)

// ActionResult is the follow-up to a user action.
type ActionResult struct {
	Action string `json:"action"`
	// +optional
	Decision a2ui.Decision `json:"decision,omitempty"`
	// +optional
	Phase    string         `json:"phase,omitempty"`
	Messages []a2ui.Message `json:"messages"`
	Parts    []a2a.Part     `json:"-"`
}

// ActionHandler turns a user action into follow-up messages.
type ActionHandler func(ctx context.Context, action a2ui.UserAction) (*ActionResult, error)

// RegisterAction installs or replaces the handler for name. It is safe to
// call while actions are being handled.
func (r *Responder) RegisterAction(name string, handler ActionHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[name] = handler
}

func (r *Responder) actionHandler(name string) (ActionHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, ok := r.actions[name]
	return handler, ok
}

// HandleAction dispatches a user action to its handler.
func (r *Responder) HandleAction(ctx context.Context, action a2ui.UserAction) (*ActionResult, error) {
	ctx, span := r.tracer.Start(ctx, "HandleAction")
	defer span.End()
	span.SetAttributes(
		attribute.String("a2ui.action.name", action.Name),
		attribute.String("a2ui.surface_id", action.SurfaceID),
	)
	logger := log.FromContext(ctx).WithValues("action", action.Name, "surfaceId", action.SurfaceID)

	handler, ok := r.actionHandler(action.Name)
	if !ok {
		span.SetStatus(codes.Error, "unknown action")
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action.Name)
	}

	result, err := handler(ctx, action)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if result.Action == "" {
		result.Action = action.Name
	}
	if result.Parts, err = adapters.PartsFromMessages(result.Messages); err != nil {
		return nil, err
	}
	logger.Info("Handled user action", "decision", result.Decision, "phase", result.Phase)
	return result, nil
}

// handleHITLResponse closes the approval form and shows what happens next.
func handleHITLResponse(_ context.Context, action a2ui.UserAction) (*ActionResult, error) {
	decision := a2ui.Decision(action.ContextString(a2ui.ContextDecision))
	phase := action.ContextString(a2ui.ContextPhase)

	msgs := []a2ui.Message{builder.DeleteSurface(builder.ArchetypeApproval)}
	switch decision {
	case a2ui.DecisionApproved:
		msgs = append(msgs, builder.WorkingStatus(describePhase("Approved", phase)+" Resuming...", "resuming")...)
	case a2ui.DecisionRejected:
		msgs = append(msgs, builder.Info(describePhase("Rejected", phase)+" No changes were applied.", "Changes Rejected")...)
	default:
		return nil, fmt.Errorf("%w: decision must be %q or %q, got %q",
			ErrInvalidAction, a2ui.DecisionApproved, a2ui.DecisionRejected, decision)
	}
	return &ActionResult{Decision: decision, Phase: phase, Messages: msgs}, nil
}

func describePhase(verb, phase string) string {
	if phase == "" {
		return verb + "."
	}
	return fmt.Sprintf("%s %s.", verb, phase)
}
