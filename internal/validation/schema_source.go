package validation

import (
	_ "embed"
	"encoding/json"
	"strconv"
	"strings"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

const schemaURL = "https://a2ui.schemas.local/v0.8/message.json"

//go:embed schema/a2ui_message.json
var messageSchema string

// SchemaJSON returns the JSON schema of a single A2UI message.
func SchemaJSON() string {
	return messageSchema
}

// schemaChecker is the JSON schema stage of the validation pipeline.
type schemaChecker interface {
	Check(raw json.RawMessage, fldPath *field.Path) field.ErrorList
	Enabled() bool
}

// pointerToPath converts a JSON pointer such as /surfaceUpdate/components/0/id
// into a field path rooted at base.
func pointerToPath(base *field.Path, pointer string) *field.Path {
	p := base
	if pointer == "" || pointer == "/" {
		return p
	}
	for _, seg := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		if idx, err := strconv.Atoi(seg); err == nil {
			p = p.Index(idx)
			continue
		}
		p = p.Child(seg)
	}
	return p
}
