package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/a2aproject/a2a-go/a2a"

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
)

// MetadataMIMETypeKey is the part metadata key that marks an A2UI data part.
const MetadataMIMETypeKey = "mimeType"

// NewA2UIPart wraps one A2UI message into an A2A data part
func NewA2UIPart(msg a2ui.Message) (a2a.DataPart, error) {
	data, err := msg.ToMap()
	if err != nil {
		return a2a.DataPart{}, fmt.Errorf("failed to convert A2UI message: %w", err)
	}
	return a2a.DataPart{
		Data:     data,
		Metadata: map[string]any{MetadataMIMETypeKey: a2ui.MIMEType},
	}, nil
}

// PartsFromMessages wraps every message, preserving order
func PartsFromMessages(msgs []a2ui.Message) ([]a2a.Part, error) {
	parts := make([]a2a.Part, 0, len(msgs))
	for i, msg := range msgs {
		part, err := NewA2UIPart(msg)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// ResponseParts returns the text part (when text is not empty) followed by
// one data part per message.
func ResponseParts(text string, msgs []a2ui.Message) ([]a2a.Part, error) {
	dataParts, err := PartsFromMessages(msgs)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return dataParts, nil
	}
	return append([]a2a.Part{a2a.TextPart{Text: text}}, dataParts...), nil
}

// IsA2UIPart reports whether part is a data part tagged with the A2UI MIME type
func IsA2UIPart(part a2a.Part) bool {
	_, ok := a2uiData(part)
	return ok
}

// MessagesFromParts decodes the A2UI data parts and skips every other part
func MessagesFromParts(parts []a2a.Part) ([]a2ui.Message, error) {
	var msgs []a2ui.Message
	for i, part := range parts {
		data, ok := a2uiData(part)
		if !ok {
			continue
		}
		msg, err := a2ui.MessageFromMap(data)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// RawMessagesFromParts returns the JSON of every A2UI data part without
// decoding it, for callers that validate before decoding.
func RawMessagesFromParts(parts []a2a.Part) ([]json.RawMessage, error) {
	var out []json.RawMessage
	for i, part := range parts {
		data, ok := a2uiData(part)
		if !ok {
			continue
		}
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("part %d: %w", i, err)
		}
		out = append(out, raw)
	}
	return out, nil
}

func a2uiData(part a2a.Part) (map[string]any, bool) {
	var dp a2a.DataPart
	switch p := part.(type) {
	case a2a.DataPart:
		dp = p
	case *a2a.DataPart:
		if p == nil {
			return nil, false
		}
		dp = *p
	default:
		return nil, false
	}
	if mt, _ := dp.Metadata[MetadataMIMETypeKey].(string); mt != a2ui.MIMEType {
		return nil, false
	}
	return dp.Data, true
}
