//go:build a2ui_noschema

package validation

import (
	"encoding/json"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Built with a2ui_noschema: the JSON schema stage is compiled out and always
// passes. Exclusivity, decoding and semantic checks still run.
type noopSchemaChecker struct{}

func newSchemaChecker() (schemaChecker, error) {
	return noopSchemaChecker{}, nil
}

func (noopSchemaChecker) Enabled() bool { return false }

func (noopSchemaChecker) Check(json.RawMessage, *field.Path) field.ErrorList { return nil }
