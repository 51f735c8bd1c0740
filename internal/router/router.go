// Package router picks the canned surface for an agent response.
package router

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/a2aproject/a2a-go/a2a"

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/adapters"
	"github.com/talkops-ai/k8s-autopilot-sub001/internal/builder"
)

// ResponseTypeError forces the error surface whatever the other flags say.
const ResponseTypeError = "error"

// Metadata keys read by the router.
const (
	MetadataStatus        = "status"
	MetadataTitle         = "title"
	MetadataPhaseID       = "phase_id"
	MetadataInterruptType = "interrupt_type"
)

// DefaultContent is shown when a response carries no content.
const DefaultContent = "Processing..."

// Response is the structured context an agent step produced.
type Response struct {
	// Content is a string, or a map whose "message" key holds the display text
	// +optional
	Content interface{} `json:"content,omitempty"`

	// +optional
	IsTaskComplete bool `json:"is_task_complete,omitempty"`

	// +optional
	RequireUserInput bool `json:"require_user_input,omitempty"`

	// ResponseType "error" selects the error surface
	// +optional
	ResponseType string `json:"response_type,omitempty"`

	// +optional
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Select returns the archetype for resp. First match wins: an error response,
// then a request for user input (approval or info), then completion, and
// otherwise a working status.
func Select(resp Response) builder.Archetype {
	switch {
	case resp.ResponseType == ResponseTypeError:
		return builder.ArchetypeError
	case resp.RequireUserInput:
		if IsApprovalRequest(NormalizeContent(resp.Content), resp.Metadata) {
			return builder.ArchetypeApproval
		}
		return builder.ArchetypeInfo
	case resp.IsTaskComplete:
		return builder.ArchetypeCompletion
	default:
		return builder.ArchetypeStatus
	}
}

// Build runs the builder Select picks.
func Build(resp Response) []a2ui.Message {
	content := NormalizeContent(resp.Content)
	title := metadataString(resp.Metadata, MetadataTitle)

	switch Select(resp) {
	case builder.ArchetypeError:
		return builder.Error(content, title)
	case builder.ArchetypeApproval:
		return builder.HITLApproval(content, metadataString(resp.Metadata, MetadataPhaseID), title)
	case builder.ArchetypeInfo:
		return builder.Info(content, title)
	case builder.ArchetypeCompletion:
		return builder.Completion(content, title)
	default:
		return builder.WorkingStatus(content, metadataString(resp.Metadata, MetadataStatus))
	}
}

// BuildParts is Build wrapped as A2A transport parts.
func BuildParts(resp Response) ([]a2a.Part, error) {
	return adapters.PartsFromMessages(Build(resp))
}

// NormalizeContent turns response content into display text. A map yields its
// "message" entry, or its JSON form when there is none. Empty content, and
// zero values such as false or 0, yield DefaultContent.
func NormalizeContent(content interface{}) string {
	var s string
	switch c := content.(type) {
	case string:
		s = c
	case map[string]interface{}:
		if msg, ok := c["message"]; ok && !isEmpty(msg) {
			s = stringify(msg)
		} else if len(c) > 0 {
			s = stringify(c)
		}
	default:
		if !isEmpty(c) {
			s = stringify(c)
		}
	}
	if strings.TrimSpace(s) == "" {
		return DefaultContent
	}
	return s
}

func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	default:
		return rv.IsZero()
	}
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func metadataString(md map[string]interface{}, key string) string {
	v, ok := md[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
