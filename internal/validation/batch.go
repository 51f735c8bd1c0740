package validation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"k8s.io/apimachinery/pkg/util/validation/field"
	"sigs.k8s.io/controller-runtime/pkg/log"

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
)

// Validator runs the full per-message pipeline over a batch.
type Validator struct {
	schema schemaChecker
}

// EntryResult is the validation outcome of one batch element.
type EntryResult struct {
	Index int
	// Message is set only when every stage passed.
	Message *a2ui.Message
	Errors  field.ErrorList
}

// Valid reports whether the entry passed every stage.
func (e EntryResult) Valid() bool {
	return len(e.Errors) == 0 && e.Message != nil
}

// BatchResult holds one EntryResult per input element, in input order.
type BatchResult struct {
	Entries []EntryResult
}

// Valid reports whether every entry is valid. An empty batch is valid.
func (r *BatchResult) Valid() bool {
	for _, e := range r.Entries {
		if !e.Valid() {
			return false
		}
	}
	return true
}

// Messages returns the well-formed messages, in input order.
func (r *BatchResult) Messages() []a2ui.Message {
	out := make([]a2ui.Message, 0, len(r.Entries))
	for _, e := range r.Entries {
		if e.Valid() {
			out = append(out, *e.Message)
		}
	}
	return out
}

// Invalid returns the entries that failed.
func (r *BatchResult) Invalid() []EntryResult {
	var out []EntryResult
	for _, e := range r.Entries {
		if !e.Valid() {
			out = append(out, e)
		}
	}
	return out
}

// Errors returns every diagnostic across the batch.
func (r *BatchResult) Errors() field.ErrorList {
	allErrs := field.ErrorList{}
	for _, e := range r.Entries {
		allErrs = append(allErrs, e.Errors...)
	}
	return allErrs
}

// Aggregate returns nil when the batch is valid.
func (r *BatchResult) Aggregate() error {
	if agg := r.Errors().ToAggregate(); agg != nil {
		return agg
	}
	return nil
}

// NewValidator compiles the embedded message schema.
func NewValidator() (*Validator, error) {
	sc, err := newSchemaChecker()
	if err != nil {
		return nil, err
	}
	return &Validator{schema: sc}, nil
}

// SchemaEnabled reports whether the JSON schema stage is compiled in.
func (v *Validator) SchemaEnabled() bool {
	return v.schema.Enabled()
}

// ValidateBatch validates every element of raw independently. A bad element
// never prevents its siblings from being checked.
func (v *Validator) ValidateBatch(ctx context.Context, raw []json.RawMessage) *BatchResult {
	logger := log.FromContext(ctx)
	root := field.NewPath("messages")

	result := &BatchResult{Entries: make([]EntryResult, 0, len(raw))}
	for i, r := range raw {
		entry := v.validateOne(r, root.Index(i))
		entry.Index = i
		if !entry.Valid() {
			logger.V(1).Info("A2UI message failed validation", "index", i, "errors", entry.Errors.ToAggregate().Error())
		}
		result.Entries = append(result.Entries, entry)
	}
	return result
}

func (v *Validator) validateOne(raw json.RawMessage, fldPath *field.Path) EntryResult {
	if errs := CheckExclusivity(raw, fldPath); len(errs) > 0 {
		return EntryResult{Errors: errs}
	}
	if errs := v.schema.Check(raw, fldPath); len(errs) > 0 {
		return EntryResult{Errors: errs}
	}

	var msg a2ui.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		return EntryResult{Errors: field.ErrorList{field.Invalid(fldPath, field.OmitValueType{}, err.Error())}}
	}
	if errs := ValidateMessage(&msg, fldPath); len(errs) > 0 {
		return EntryResult{Errors: errs}
	}
	return EntryResult{Message: &msg}
}

// ValidateJSON accepts a single message object or an array of messages.
func (v *Validator) ValidateJSON(ctx context.Context, data []byte) (*BatchResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty input")
	}
	switch trimmed[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode message batch: %w", err)
		}
		return v.ValidateBatch(ctx, raw), nil
	case '{':
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("failed to decode message: invalid JSON")
		}
		return v.ValidateBatch(ctx, []json.RawMessage{trimmed}), nil
	default:
		return nil, fmt.Errorf("expected a JSON object or array, got %q", truncate(string(trimmed), 16))
	}
}

// ValidateAll is the all-or-nothing form of ValidateBatch.
func (v *Validator) ValidateAll(ctx context.Context, raw []json.RawMessage) ([]a2ui.Message, error) {
	result := v.ValidateBatch(ctx, raw)
	if err := result.Aggregate(); err != nil {
		return nil, err
	}
	return result.Messages(), nil
}
