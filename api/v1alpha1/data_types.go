package v1alpha1

import (
	"encoding/json"
)

// DataEntry is one key of a surface's data model with exactly one typed value.
// ValueMap nests further entries, so the data model is a tree of maps.
type DataEntry struct {
	// +kubebuilder:validation:Required
	Key string `json:"key"`

	// +optional
	ValueString *string `json:"valueString,omitempty"`
	// +optional
	ValueNumber *float64 `json:"valueNumber,omitempty"`
	// +optional
	ValueBoolean *bool `json:"valueBoolean,omitempty"`
	// +optional
	ValueMap []DataEntry `json:"valueMap,omitempty"`
}

// StringEntry returns a DataEntry holding a string.
func StringEntry(key, value string) DataEntry {
	return DataEntry{Key: key, ValueString: &value}
}

// NumberEntry returns a DataEntry holding a number.
func NumberEntry(key string, value float64) DataEntry {
	return DataEntry{Key: key, ValueNumber: &value}
}

// BoolEntry returns a DataEntry holding a boolean.
func BoolEntry(key string, value bool) DataEntry {
	return DataEntry{Key: key, ValueBoolean: &value}
}

// MapEntry returns a DataEntry holding nested entries.
func MapEntry(key string, entries ...DataEntry) DataEntry {
	if entries == nil {
		entries = []DataEntry{}
	}
	return DataEntry{Key: key, ValueMap: entries}
}

func (e DataEntry) variants() []variant {
	return []variant{
		{"valueString", e.ValueString != nil},
		{"valueNumber", e.ValueNumber != nil},
		{"valueBoolean", e.ValueBoolean != nil},
		{"valueMap", e.ValueMap != nil},
	}
}

// Check reports a UnionError unless exactly one value is set.
func (e DataEntry) Check() error {
	return checkUnion("DataEntry", e.variants()...)
}

// UnmarshalJSON enforces that exactly one value variant is present.
func (e *DataEntry) UnmarshalJSON(data []byte) error {
	type plain DataEntry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if err := DataEntry(p).Check(); err != nil {
		return err
	}
	*e = DataEntry(p)
	return nil
}

// MarshalJSON emits an empty valueMap as [] rather than dropping it.
func (e DataEntry) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{"key": e.Key}
	if e.ValueString != nil {
		out["valueString"] = *e.ValueString
	}
	if e.ValueNumber != nil {
		out["valueNumber"] = *e.ValueNumber
	}
	if e.ValueBoolean != nil {
		out["valueBoolean"] = *e.ValueBoolean
	}
	if e.ValueMap != nil {
		out["valueMap"] = e.ValueMap
	}
	return json.Marshal(out)
}

// Value returns the Go value held by the entry; nested maps become map[string]interface{}.
func (e DataEntry) Value() interface{} {
	switch {
	case e.ValueString != nil:
		return *e.ValueString
	case e.ValueNumber != nil:
		return *e.ValueNumber
	case e.ValueBoolean != nil:
		return *e.ValueBoolean
	case e.ValueMap != nil:
		return EntriesToMap(e.ValueMap)
	}
	return nil
}

// EntriesToMap flattens entries into a plain map, last key wins.
func EntriesToMap(entries []DataEntry) map[string]interface{} {
	out := make(map[string]interface{}, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value()
	}
	return out
}
