// Package v1alpha1 contains the A2UI wire types: the messages an agent sends to
// drive a client-side surface, and the events a client sends back.
//
// Every union in the grammar (message, component, binding value, data value,
// children) is a struct of optional pointers with an UnmarshalJSON that accepts
// exactly one populated variant. Decoding a value therefore proves its shape;
// the validation package checks enums and the remaining semantic rules.
package v1alpha1

import (
	"encoding/json"
)

const (
	// ResponseDelimiter separates conversational text from the A2UI JSON in a model response
	ResponseDelimiter = "---a2ui_JSON---"

	// MIMEType marks an A2A data part as carrying one A2UI message
	MIMEType = "application/json+a2ui"

	// DataModelRoot addresses the whole data model; updates at this path replace it
	DataModelRoot = "/"
)

// MessageKind is the wire key of a message variant.
type MessageKind string

const (
	MessageBeginRendering  MessageKind = "beginRendering"
	MessageSurfaceUpdate   MessageKind = "surfaceUpdate"
	MessageDataModelUpdate MessageKind = "dataModelUpdate"
	MessageDeleteSurface   MessageKind = "deleteSurface"
)

// MessageKinds lists the top-level keys of a message in lifecycle order.
var MessageKinds = []MessageKind{MessageBeginRendering, MessageSurfaceUpdate, MessageDataModelUpdate, MessageDeleteSurface}

// Message is the atomic protocol unit. Exactly one field is set.
type Message struct {
	// +optional
	BeginRendering *BeginRendering `json:"beginRendering,omitempty"`
	// +optional
	SurfaceUpdate *SurfaceUpdate `json:"surfaceUpdate,omitempty"`
	// +optional
	DataModelUpdate *DataModelUpdate `json:"dataModelUpdate,omitempty"`
	// +optional
	DeleteSurface *DeleteSurface `json:"deleteSurface,omitempty"`
}

// BeginRendering declares a surface and the id of its root component.
type BeginRendering struct {
	// +kubebuilder:validation:Required
	SurfaceID string `json:"surfaceId"`

	// Root is the id of the component rendered at the top of the surface
	// +kubebuilder:validation:Required
	Root string `json:"root"`

	// +optional
	Styles *Styles `json:"styles,omitempty"`
}

// Styles carries surface-wide theming hints.
type Styles struct {
	// +optional
	Font string `json:"font,omitempty"`

	// PrimaryColor is a #rrggbb hex color
	// +kubebuilder:validation:Pattern=`^#[0-9a-fA-F]{6}$`
	// +optional
	PrimaryColor string `json:"primaryColor,omitempty"`
}

// SurfaceUpdate adds or replaces components on a surface, keyed by component id.
type SurfaceUpdate struct {
	// +kubebuilder:validation:Required
	SurfaceID string `json:"surfaceId"`

	// +kubebuilder:validation:MinItems=1
	Components []ComponentInstance `json:"components"`
}

// DataModelUpdate writes Contents at Path in the surface's data model.
// Path "/" replaces the whole model.
type DataModelUpdate struct {
	// +kubebuilder:validation:Required
	SurfaceID string `json:"surfaceId"`

	// +optional
	Path string `json:"path,omitempty"`

	Contents []DataEntry `json:"contents"`
}

// DeleteSurface removes a surface and everything attached to it.
type DeleteSurface struct {
	// +kubebuilder:validation:Required
	SurfaceID string `json:"surfaceId"`
}

func NewBeginRendering(surfaceID, root string, styles *Styles) Message {
	return Message{BeginRendering: &BeginRendering{SurfaceID: surfaceID, Root: root, Styles: styles}}
}

func NewSurfaceUpdate(surfaceID string, components ...ComponentInstance) Message {
	return Message{SurfaceUpdate: &SurfaceUpdate{SurfaceID: surfaceID, Components: components}}
}

func NewDataModelUpdate(surfaceID, path string, contents ...DataEntry) Message {
	if contents == nil {
		contents = []DataEntry{}
	}
	return Message{DataModelUpdate: &DataModelUpdate{SurfaceID: surfaceID, Path: path, Contents: contents}}
}

func NewDeleteSurface(surfaceID string) Message {
	return Message{DeleteSurface: &DeleteSurface{SurfaceID: surfaceID}}
}

func (m Message) variants() []variant {
	return []variant{
		{string(MessageBeginRendering), m.BeginRendering != nil},
		{string(MessageSurfaceUpdate), m.SurfaceUpdate != nil},
		{string(MessageDataModelUpdate), m.DataModelUpdate != nil},
		{string(MessageDeleteSurface), m.DeleteSurface != nil},
	}
}

// Check returns a UnionError unless exactly one variant is set.
func (m Message) Check() error {
	return checkUnion("Message", m.variants()...)
}

// Kind reports the populated variant, or "" for an ambiguous message.
func (m Message) Kind() MessageKind {
	if m.Check() != nil {
		return ""
	}
	switch {
	case m.BeginRendering != nil:
		return MessageBeginRendering
	case m.SurfaceUpdate != nil:
		return MessageSurfaceUpdate
	case m.DataModelUpdate != nil:
		return MessageDataModelUpdate
	default:
		return MessageDeleteSurface
	}
}

// SurfaceID returns the surface the message targets.
func (m Message) SurfaceID() string {
	switch m.Kind() {
	case MessageBeginRendering:
		return m.BeginRendering.SurfaceID
	case MessageSurfaceUpdate:
		return m.SurfaceUpdate.SurfaceID
	case MessageDataModelUpdate:
		return m.DataModelUpdate.SurfaceID
	case MessageDeleteSurface:
		return m.DeleteSurface.SurfaceID
	}
	return ""
}

// UnmarshalJSON decodes a message and rejects zero or multiple populated
// variants. Keys outside the four variants are ignored.
func (m *Message) UnmarshalJSON(data []byte) error {
	type plain Message
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if err := Message(p).Check(); err != nil {
		return err
	}
	*m = Message(p)
	return nil
}

// MarshalJSON refuses to encode an ambiguous message.
func (m Message) MarshalJSON() ([]byte, error) {
	if err := m.Check(); err != nil {
		return nil, err
	}
	type plain Message
	return json.Marshal(plain(m))
}

// ToMap converts the message to its generic JSON object form.
func (m Message) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MessageFromMap is the inverse of ToMap.
func MessageFromMap(in map[string]interface{}) (Message, error) {
	var m Message
	data, err := json.Marshal(in)
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(data, &m)
	return m, err
}
