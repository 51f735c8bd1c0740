package validation

import (
	"fmt"
	"regexp"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"
	"k8s.io/apimachinery/pkg/util/validation/field"

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
)

var primaryColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidateMessage checks a decoded message against the rules the type system
// cannot express: required fields, closed enums, color format and component id
// uniqueness. fldPath is the path of the message itself and may be nil.
func ValidateMessage(m *a2ui.Message, fldPath *field.Path) field.ErrorList {
	allErrs := field.ErrorList{}
	if m == nil {
		return append(allErrs, field.Required(fldPath, "message must not be null"))
	}
	if err := m.Check(); err != nil {
		return append(allErrs, field.Invalid(fldPath, populatedKeys(m), oneOfDetail()))
	}

	switch m.Kind() {
	case a2ui.MessageBeginRendering:
		allErrs = append(allErrs, validateBeginRendering(m.BeginRendering, fldPath.Child(string(a2ui.MessageBeginRendering)))...)
	case a2ui.MessageSurfaceUpdate:
		allErrs = append(allErrs, validateSurfaceUpdate(m.SurfaceUpdate, fldPath.Child(string(a2ui.MessageSurfaceUpdate)))...)
	case a2ui.MessageDataModelUpdate:
		allErrs = append(allErrs, validateDataModelUpdate(m.DataModelUpdate, fldPath.Child(string(a2ui.MessageDataModelUpdate)))...)
	case a2ui.MessageDeleteSurface:
		allErrs = append(allErrs, validateSurfaceID(m.DeleteSurface.SurfaceID, fldPath.Child(string(a2ui.MessageDeleteSurface)))...)
	}
	return allErrs
}

// ValidateMessages validates a batch of decoded messages, indexing errors by position.
func ValidateMessages(msgs []a2ui.Message) field.ErrorList {
	allErrs := field.ErrorList{}
	root := field.NewPath("messages")
	for i := range msgs {
		allErrs = append(allErrs, ValidateMessage(&msgs[i], root.Index(i))...)
	}
	return allErrs
}

func oneOfDetail() string {
	keys := make([]string, 0, len(a2ui.MessageKinds))
	for _, k := range a2ui.MessageKinds {
		keys = append(keys, string(k))
	}
	return fmt.Sprintf("exactly one of %s must be set", strings.Join(keys, ", "))
}

func populatedKeys(m *a2ui.Message) []string {
	var keys []string
	if m.BeginRendering != nil {
		keys = append(keys, string(a2ui.MessageBeginRendering))
	}
	if m.SurfaceUpdate != nil {
		keys = append(keys, string(a2ui.MessageSurfaceUpdate))
	}
	if m.DataModelUpdate != nil {
		keys = append(keys, string(a2ui.MessageDataModelUpdate))
	}
	if m.DeleteSurface != nil {
		keys = append(keys, string(a2ui.MessageDeleteSurface))
	}
	return keys
}

func validateSurfaceID(id string, fldPath *field.Path) field.ErrorList {
	if id == "" {
		return field.ErrorList{field.Required(fldPath.Child("surfaceId"), "")}
	}
	return nil
}

func validateBeginRendering(br *a2ui.BeginRendering, fldPath *field.Path) field.ErrorList {
	allErrs := validateSurfaceID(br.SurfaceID, fldPath)
	if br.Root == "" {
		allErrs = append(allErrs, field.Required(fldPath.Child("root"), "root component id is required"))
	}
	if br.Styles != nil && br.Styles.PrimaryColor != "" && !primaryColorPattern.MatchString(br.Styles.PrimaryColor) {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("styles", "primaryColor"), br.Styles.PrimaryColor,
			"must be a hex color of the form #rrggbb"))
	}
	return allErrs
}

func validateSurfaceUpdate(su *a2ui.SurfaceUpdate, fldPath *field.Path) field.ErrorList {
	allErrs := validateSurfaceID(su.SurfaceID, fldPath)
	compPath := fldPath.Child("components")
	if len(su.Components) == 0 {
		return append(allErrs, field.Required(compPath, "at least one component is required"))
	}

	seen := sets.New[string]()
	for i, ci := range su.Components {
		idxPath := compPath.Index(i)
		switch {
		case ci.ID == "":
			allErrs = append(allErrs, field.Required(idxPath.Child("id"), ""))
		case seen.Has(ci.ID):
			allErrs = append(allErrs, field.Duplicate(idxPath.Child("id"), ci.ID))
		default:
			seen.Insert(ci.ID)
		}
		allErrs = append(allErrs, ValidateComponent(ci.Component, idxPath.Child("component"))...)
	}
	return allErrs
}

// ValidateComponent checks one component variant and its bindings.
func ValidateComponent(c a2ui.Component, fldPath *field.Path) field.ErrorList {
	allErrs := field.ErrorList{}
	kind := c.Kind()
	if kind == "" {
		return append(allErrs, field.Invalid(fldPath, field.OmitValueType{},
			fmt.Sprintf("exactly one component type must be set, one of %s", strings.Join(sets.List(a2ui.ValidComponentKinds), ", "))))
	}

	p := fldPath.Child(string(kind))
	switch kind {
	case a2ui.ComponentText:
		allErrs = append(allErrs, validateStringValue(c.Text.Text, p.Child("text"))...)
		allErrs = append(allErrs, validateEnum(string(c.Text.UsageHint), a2ui.ValidTextUsageHints, p.Child("usageHint"))...)
	case a2ui.ComponentImage:
		allErrs = append(allErrs, validateStringValue(c.Image.URL, p.Child("url"))...)
		allErrs = append(allErrs, validateEnum(string(c.Image.Fit), a2ui.ValidImageFits, p.Child("fit"))...)
		allErrs = append(allErrs, validateEnum(string(c.Image.UsageHint), a2ui.ValidImageUsageHints, p.Child("usageHint"))...)
	case a2ui.ComponentIcon:
		allErrs = append(allErrs, validateStringValue(c.Icon.Name, p.Child("name"))...)
		if c.Icon.Name.Kind() == a2ui.BindingLiteralString {
			name := *c.Icon.Name.LiteralString
			if !a2ui.ValidIconNames.Has(name) {
				allErrs = append(allErrs, field.NotSupported(p.Child("name", "literalString"), name, sets.List(a2ui.ValidIconNames)))
			}
		}
	case a2ui.ComponentRow:
		allErrs = append(allErrs, validateChildren(c.Row.Children, p.Child("children"))...)
		allErrs = append(allErrs, validateEnum(string(c.Row.Distribution), a2ui.ValidDistributions, p.Child("distribution"))...)
		allErrs = append(allErrs, validateEnum(string(c.Row.Alignment), a2ui.ValidAlignments, p.Child("alignment"))...)
	case a2ui.ComponentColumn:
		allErrs = append(allErrs, validateChildren(c.Column.Children, p.Child("children"))...)
		allErrs = append(allErrs, validateEnum(string(c.Column.Distribution), a2ui.ValidDistributions, p.Child("distribution"))...)
		allErrs = append(allErrs, validateEnum(string(c.Column.Alignment), a2ui.ValidAlignments, p.Child("alignment"))...)
	case a2ui.ComponentList:
		allErrs = append(allErrs, validateChildren(c.List.Children, p.Child("children"))...)
		allErrs = append(allErrs, validateEnum(string(c.List.Direction), a2ui.ValidListDirections, p.Child("direction"))...)
		allErrs = append(allErrs, validateEnum(string(c.List.Alignment), a2ui.ValidAlignments, p.Child("alignment"))...)
	case a2ui.ComponentCard:
		if c.Card.Child == "" {
			allErrs = append(allErrs, field.Required(p.Child("child"), ""))
		}
	case a2ui.ComponentDivider:
		allErrs = append(allErrs, validateEnum(string(c.Divider.Axis), a2ui.ValidDividerAxes, p.Child("axis"))...)
	case a2ui.ComponentButton:
		if c.Button.Child == "" {
			allErrs = append(allErrs, field.Required(p.Child("child"), ""))
		}
		allErrs = append(allErrs, ValidateAction(c.Button.Action, p.Child("action"))...)
	case a2ui.ComponentTextField:
		allErrs = append(allErrs, validateStringValue(c.TextField.Label, p.Child("label"))...)
		if c.TextField.Text != nil {
			allErrs = append(allErrs, validateStringValue(*c.TextField.Text, p.Child("text"))...)
		}
		allErrs = append(allErrs, validateEnum(string(c.TextField.TextFieldType), a2ui.ValidTextFieldTypes, p.Child("textFieldType"))...)
		if re := c.TextField.ValidationRegexp; re != "" {
			if _, err := regexp.Compile(re); err != nil {
				allErrs = append(allErrs, field.Invalid(p.Child("validationRegexp"), re, err.Error()))
			}
		}
	case a2ui.ComponentCheckBox:
		allErrs = append(allErrs, validateStringValue(c.CheckBox.Label, p.Child("label"))...)
		if c.CheckBox.Value.Kind() == "" {
			allErrs = append(allErrs, bindingError(p.Child("value"), c.CheckBox.Value.LiteralBoolean != nil && c.CheckBox.Value.Path != nil,
				a2ui.BindingLiteralBoolean, a2ui.BindingPath))
		} else if c.CheckBox.Value.Path != nil && *c.CheckBox.Value.Path == "" {
			allErrs = append(allErrs, field.Required(p.Child("value", "path"), ""))
		}
	}
	return allErrs
}

// ValidateAction checks an action name and its context entries.
func ValidateAction(a a2ui.Action, fldPath *field.Path) field.ErrorList {
	allErrs := field.ErrorList{}
	if a.Name == "" {
		allErrs = append(allErrs, field.Required(fldPath.Child("name"), ""))
	}
	for i, entry := range a.Context {
		entryPath := fldPath.Child("context").Index(i)
		if entry.Key == "" {
			allErrs = append(allErrs, field.Required(entryPath.Child("key"), ""))
		}
		if entry.Value.Kind() == "" {
			populated := 0
			for _, set := range []bool{entry.Value.LiteralString != nil, entry.Value.LiteralNumber != nil,
				entry.Value.LiteralBoolean != nil, entry.Value.Path != nil} {
				if set {
					populated++
				}
			}
			allErrs = append(allErrs, bindingError(entryPath.Child("value"), populated > 1,
				a2ui.BindingLiteralString, a2ui.BindingLiteralNumber, a2ui.BindingLiteralBoolean, a2ui.BindingPath))
		}
	}
	return allErrs
}

func validateStringValue(v a2ui.StringValue, fldPath *field.Path) field.ErrorList {
	if v.Kind() == "" {
		return field.ErrorList{bindingError(fldPath, v.LiteralString != nil && v.Path != nil, a2ui.BindingLiteralString, a2ui.BindingPath)}
	}
	if v.Path != nil && *v.Path == "" {
		return field.ErrorList{field.Required(fldPath.Child("path"), "")}
	}
	return nil
}

func bindingError(fldPath *field.Path, multiple bool, kinds ...a2ui.BindingKind) *field.Error {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	detail := fmt.Sprintf("exactly one of %s must be set", strings.Join(names, ", "))
	if multiple {
		return field.Invalid(fldPath, field.OmitValueType{}, detail)
	}
	return field.Required(fldPath, detail)
}

func validateChildren(c a2ui.Children, fldPath *field.Path) field.ErrorList {
	allErrs := field.ErrorList{}
	switch {
	case c.ExplicitList != nil && c.Template != nil:
		allErrs = append(allErrs, field.Invalid(fldPath, field.OmitValueType{}, "only one of explicitList or template may be set"))
	case c.ExplicitList == nil && c.Template == nil:
		allErrs = append(allErrs, field.Required(fldPath, "one of explicitList or template must be set"))
	case c.Template != nil:
		if c.Template.ComponentID == "" {
			allErrs = append(allErrs, field.Required(fldPath.Child("template", "componentId"), ""))
		}
		if c.Template.DataBinding == "" {
			allErrs = append(allErrs, field.Required(fldPath.Child("template", "dataBinding"), ""))
		}
	default:
		for i, id := range c.ExplicitList {
			if id == "" {
				allErrs = append(allErrs, field.Required(fldPath.Child("explicitList").Index(i), "child id must not be empty"))
			}
		}
	}
	return allErrs
}

func validateEnum(value string, valid sets.Set[string], fldPath *field.Path) field.ErrorList {
	if value == "" || valid.Has(value) {
		return nil
	}
	return field.ErrorList{field.NotSupported(fldPath, value, sets.List(valid))}
}

func validateDataModelUpdate(du *a2ui.DataModelUpdate, fldPath *field.Path) field.ErrorList {
	allErrs := validateSurfaceID(du.SurfaceID, fldPath)
	if du.Path != "" && !strings.HasPrefix(du.Path, "/") {
		allErrs = append(allErrs, field.Invalid(fldPath.Child("path"), du.Path, "must start with /"))
	}
	allErrs = append(allErrs, ValidateDataEntries(du.Contents, fldPath.Child("contents"))...)
	return allErrs
}

// ValidateDataEntries checks keys and value exclusivity, recursing into valueMap.
func ValidateDataEntries(entries []a2ui.DataEntry, fldPath *field.Path) field.ErrorList {
	allErrs := field.ErrorList{}
	for i, e := range entries {
		idxPath := fldPath.Index(i)
		if e.Key == "" {
			allErrs = append(allErrs, field.Required(idxPath.Child("key"), ""))
		}
		if err := e.Check(); err != nil {
			allErrs = append(allErrs, field.Invalid(idxPath, field.OmitValueType{},
				"exactly one of valueString, valueNumber, valueBoolean, valueMap must be set"))
			continue
		}
		if e.ValueMap != nil {
			allErrs = append(allErrs, ValidateDataEntries(e.ValueMap, idxPath.Child("valueMap"))...)
		}
	}
	return allErrs
}
