package v1alpha1

import (
	"encoding/json"
)

// BindingKind names the populated variant of a binding value.
// The values double as the wire keys.
type BindingKind string

const (
	BindingLiteralString  BindingKind = "literalString"
	BindingLiteralNumber  BindingKind = "literalNumber"
	BindingLiteralBoolean BindingKind = "literalBoolean"
	BindingPath           BindingKind = "path"
)

// StringValue is a string-typed binding: either a literal or a path into
// the surface's data model, resolved by the renderer.
type StringValue struct {
	// +optional
	LiteralString *string `json:"literalString,omitempty"`

	// Path is a slash separated pointer into the data model, e.g. "/title"
	// +optional
	Path *string `json:"path,omitempty"`
}

// Literal returns a StringValue holding s.
func Literal(s string) StringValue {
	return StringValue{LiteralString: &s}
}

// Bound returns a StringValue bound to the data model at path.
func Bound(path string) StringValue {
	return StringValue{Path: &path}
}

// Kind reports which variant is populated, or "" when none or several are.
func (v StringValue) Kind() BindingKind {
	switch {
	case v.LiteralString != nil && v.Path == nil:
		return BindingLiteralString
	case v.Path != nil && v.LiteralString == nil:
		return BindingPath
	}
	return ""
}

func (v StringValue) check() error {
	return checkUnion("StringValue",
		variant{string(BindingLiteralString), v.LiteralString != nil},
		variant{string(BindingPath), v.Path != nil},
	)
}

// UnmarshalJSON enforces that exactly one variant is present.
func (v *StringValue) UnmarshalJSON(data []byte) error {
	type plain StringValue
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if err := StringValue(p).check(); err != nil {
		return err
	}
	*v = StringValue(p)
	return nil
}

// NumberValue is a number-typed binding.
type NumberValue struct {
	// +optional
	LiteralNumber *float64 `json:"literalNumber,omitempty"`
	// +optional
	Path *string `json:"path,omitempty"`
}

// Kind reports which variant is populated.
func (v NumberValue) Kind() BindingKind {
	switch {
	case v.LiteralNumber != nil && v.Path == nil:
		return BindingLiteralNumber
	case v.Path != nil && v.LiteralNumber == nil:
		return BindingPath
	}
	return ""
}

// UnmarshalJSON enforces that exactly one variant is present.
func (v *NumberValue) UnmarshalJSON(data []byte) error {
	type plain NumberValue
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if err := checkUnion("NumberValue",
		variant{string(BindingLiteralNumber), p.LiteralNumber != nil},
		variant{string(BindingPath), p.Path != nil},
	); err != nil {
		return err
	}
	*v = NumberValue(p)
	return nil
}

// BooleanValue is a boolean-typed binding.
type BooleanValue struct {
	// +optional
	LiteralBoolean *bool `json:"literalBoolean,omitempty"`
	// +optional
	Path *string `json:"path,omitempty"`
}

// Kind reports which variant is populated.
func (v BooleanValue) Kind() BindingKind {
	switch {
	case v.LiteralBoolean != nil && v.Path == nil:
		return BindingLiteralBoolean
	case v.Path != nil && v.LiteralBoolean == nil:
		return BindingPath
	}
	return ""
}

// UnmarshalJSON enforces that exactly one variant is present.
func (v *BooleanValue) UnmarshalJSON(data []byte) error {
	type plain BooleanValue
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if err := checkUnion("BooleanValue",
		variant{string(BindingLiteralBoolean), p.LiteralBoolean != nil},
		variant{string(BindingPath), p.Path != nil},
	); err != nil {
		return err
	}
	*v = BooleanValue(p)
	return nil
}

// BoundValue accepts any literal type or a path. It is used where the
// consumer decides the type, such as action context entries.
type BoundValue struct {
	// +optional
	LiteralString *string `json:"literalString,omitempty"`
	// +optional
	LiteralNumber *float64 `json:"literalNumber,omitempty"`
	// +optional
	LiteralBoolean *bool `json:"literalBoolean,omitempty"`
	// +optional
	Path *string `json:"path,omitempty"`
}

// LiteralStringValue returns a BoundValue holding the literal s.
func LiteralStringValue(s string) BoundValue {
	return BoundValue{LiteralString: &s}
}

// PathValue returns a BoundValue bound to path.
func PathValue(path string) BoundValue {
	return BoundValue{Path: &path}
}

func (v BoundValue) variants() []variant {
	return []variant{
		{string(BindingLiteralString), v.LiteralString != nil},
		{string(BindingLiteralNumber), v.LiteralNumber != nil},
		{string(BindingLiteralBoolean), v.LiteralBoolean != nil},
		{string(BindingPath), v.Path != nil},
	}
}

// Kind reports which variant is populated, or "" when none or several are.
func (v BoundValue) Kind() BindingKind {
	var kind BindingKind
	for _, vr := range v.variants() {
		if !vr.set {
			continue
		}
		if kind != "" {
			return ""
		}
		kind = BindingKind(vr.key)
	}
	return kind
}

// UnmarshalJSON enforces that exactly one variant is present.
func (v *BoundValue) UnmarshalJSON(data []byte) error {
	type plain BoundValue
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if err := checkUnion("BoundValue", BoundValue(p).variants()...); err != nil {
		return err
	}
	*v = BoundValue(p)
	return nil
}
