package validation

import (
	"encoding/json"

	"k8s.io/apimachinery/pkg/util/validation/field"

	a2ui "github.com/talkops-ai/k8s-autopilot-sub001/api/v1alpha1"
)

// CheckExclusivity reports whether raw is a JSON object carrying exactly one of
// the four message keys. The message schema declares the four branches as plain
// properties, so this check is what makes a two-key message invalid. Keys other
// than the four are allowed and ignored.
func CheckExclusivity(raw json.RawMessage, fldPath *field.Path) field.ErrorList {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return field.ErrorList{field.TypeInvalid(fldPath, truncate(string(raw), 64), "message must be a JSON object")}
	}

	var present []string
	for _, kind := range a2ui.MessageKinds {
		if v, ok := obj[string(kind)]; ok && string(v) != "null" {
			present = append(present, string(kind))
		}
	}
	switch len(present) {
	case 1:
		return nil
	case 0:
		return field.ErrorList{field.Required(fldPath, oneOfDetail())}
	default:
		return field.ErrorList{field.Invalid(fldPath, present, oneOfDetail())}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
