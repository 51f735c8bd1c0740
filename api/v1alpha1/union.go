package v1alpha1

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoVariant is matched by a UnionError with nothing populated
	ErrNoVariant = errors.New("no variant populated")
	// ErrMultipleVariants is matched by a UnionError with more than one variant populated
	ErrMultipleVariants = errors.New("multiple variants populated")
)

// UnionError reports a union value that does not have exactly one populated variant.
type UnionError struct {
	// Union is the Go type name of the union, e.g. "Message" or "StringValue"
	Union string
	// Populated lists the wire keys that were set
	Populated []string
}

func (e *UnionError) Error() string {
	if len(e.Populated) == 0 {
		return fmt.Sprintf("%s: exactly one variant must be set, got none", e.Union)
	}
	return fmt.Sprintf("%s: exactly one variant must be set, got %s", e.Union, strings.Join(e.Populated, ", "))
}

// Is lets callers match with errors.Is(err, ErrNoVariant) / errors.Is(err, ErrMultipleVariants).
func (e *UnionError) Is(target error) bool {
	switch target {
	case ErrNoVariant:
		return len(e.Populated) == 0
	case ErrMultipleVariants:
		return len(e.Populated) > 1
	}
	return false
}

type variant struct {
	key string
	set bool
}

func checkUnion(union string, variants ...variant) error {
	var populated []string
	for _, v := range variants {
		if v.set {
			populated = append(populated, v.key)
		}
	}
	if len(populated) != 1 {
		return &UnionError{Union: union, Populated: populated}
	}
	return nil
}
