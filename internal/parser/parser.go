// Package parser splits an LLM reply into conversational text and the A2UI
// message batch that follows the response delimiter.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sigs.k8s.io/controller-runtime/pkg/log"

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
)

const codeFence = "```"

// ErrNotMessages is returned by DecodeBatch when the JSON is neither an object
// nor an array.
var ErrNotMessages = errors.New("A2UI payload must be a JSON object or array")

// SplitResponse splits content on the first delimiter. found is false when
// there is no delimiter, in which case text is the whole content.
func SplitResponse(content string) (text, payload string, found bool) {
	before, after, found := strings.Cut(content, a2ui.ResponseDelimiter)
	if !found {
		return content, "", false
	}
	return strings.TrimSpace(before), after, true
}

// StripCodeFence removes a Markdown code fence around s: the opening line
// (which may carry a language tag) and a trailing ``` marker.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, codeFence) {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, codeFence)
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, codeFence)
	return strings.TrimSpace(s)
}

// DecodeBatch decodes a JSON payload into raw messages. A single object is
// returned as a one-element batch.
func DecodeBatch(payload string) ([]json.RawMessage, error) {
	data := bytes.TrimSpace([]byte(payload))
	if len(data) == 0 {
		return nil, fmt.Errorf("empty A2UI payload")
	}
	switch data[0] {
	case '[':
		var batch []json.RawMessage
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, err
		}
		return batch, nil
	case '{':
		if !json.Valid(data) {
			var probe map[string]json.RawMessage
			return nil, json.Unmarshal(data, &probe)
		}
		return []json.RawMessage{json.RawMessage(data)}, nil
	default:
		if !json.Valid(data) {
			var probe interface{}
			return nil, json.Unmarshal(data, &probe)
		}
		return nil, ErrNotMessages
	}
}

// ParseResponse returns the conversational text and the message batch of an
// LLM reply. It never fails: without a delimiter the whole content is text,
// and when the payload cannot be decoded the original content comes back
// unchanged with no messages and a warning is logged.
func ParseResponse(ctx context.Context, content string) (string, []json.RawMessage) {
	text, payload, found := SplitResponse(content)
	if !found {
		return content, []json.RawMessage{}
	}

	batch, err := DecodeBatch(StripCodeFence(payload))
	if err != nil {
		log.FromContext(ctx).Info("Failed to decode A2UI payload, falling back to text",
			"error", err.Error(), "payload", truncate(payload, 200))
		return content, []json.RawMessage{}
	}
	return text, batch
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
