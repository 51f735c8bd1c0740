//go:build !a2ui_noschema

package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

type jsonSchemaChecker struct {
	schema *jsonschema.Schema
}

func newSchemaChecker() (schemaChecker, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7
	if err := c.AddResource(schemaURL, strings.NewReader(messageSchema)); err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &jsonSchemaChecker{schema: schema}, nil
}

func (j *jsonSchemaChecker) Enabled() bool { return true }

func (j *jsonSchemaChecker) Check(raw json.RawMessage, fldPath *field.Path) field.ErrorList {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return field.ErrorList{field.TypeInvalid(fldPath, truncate(string(raw), 64), "not valid JSON: "+err.Error())}
	}
	err := j.schema.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return field.ErrorList{field.InternalError(fldPath, err)}
	}
	allErrs := field.ErrorList{}
	for _, leaf := range leafCauses(ve) {
		allErrs = append(allErrs, field.Invalid(pointerToPath(fldPath, leaf.InstanceLocation), field.OmitValueType{},
			fmt.Sprintf("%s (schema %s)", leaf.Message, leaf.KeywordLocation)))
	}
	return allErrs
}

// leafCauses flattens the cause tree to the errors that name a concrete keyword.
func leafCauses(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leafCauses(c)...)
	}
	return out
}
