package bible

import (
	"errors"
	"fmt"

	"github.com/samber/oops"
)

// Kind classifies a World Bible error. The string value doubles as the oops
// error code so transports can map it without inspecting messages.
type Kind string

// Error kinds.
const (
	KindMissingField      Kind = "MISSING_FIELD"
	KindInvalidEnum       Kind = "INVALID_ENUM"
	KindInvalidRange      Kind = "INVALID_RANGE"
	KindInvalidAttribute  Kind = "INVALID_ATTRIBUTE"
	KindConsistency       Kind = "CONSISTENCY_ERROR"
	KindDuplicateName     Kind = "DUPLICATE_NAME"
	KindWorldNotFound     Kind = "WORLD_NOT_FOUND"
	KindUnknownField      Kind = "UNKNOWN_FIELD"
	KindCharacterNotFound Kind = "CHARACTER_NOT_FOUND"
)

// Sentinel errors, one per Kind. Every error produced by this module wraps
// exactly one of them, so errors.Is works through any amount of wrapping.
var (
	ErrMissingField      = errors.New("missing field")
	ErrInvalidEnum       = errors.New("invalid enum value")
	ErrInvalidRange      = errors.New("value out of range")
	ErrInvalidAttribute  = errors.New("invalid attribute")
	ErrConsistency       = errors.New("world consistency violated")
	ErrDuplicateName     = errors.New("duplicate name")
	ErrWorldNotFound     = errors.New("world not found")
	ErrUnknownField      = errors.New("unknown field")
	ErrCharacterNotFound = errors.New("character not found")
)

// Kinds lists every error kind in a stable order.
var Kinds = []Kind{
	KindMissingField,
	KindInvalidEnum,
	KindInvalidRange,
	KindInvalidAttribute,
	KindConsistency,
	KindDuplicateName,
	KindWorldNotFound,
	KindUnknownField,
	KindCharacterNotFound,
}

var sentinels = map[Kind]error{
	KindMissingField:      ErrMissingField,
	KindInvalidEnum:       ErrInvalidEnum,
	KindInvalidRange:      ErrInvalidRange,
	KindInvalidAttribute:  ErrInvalidAttribute,
	KindConsistency:       ErrConsistency,
	KindDuplicateName:     ErrDuplicateName,
	KindWorldNotFound:     ErrWorldNotFound,
	KindUnknownField:      ErrUnknownField,
	KindCharacterNotFound: ErrCharacterNotFound,
}

// Err returns the sentinel error for k, or nil for an unknown kind.
func (k Kind) Err() error {
	return sentinels[k]
}

// NewError builds an error of the given kind naming the offending field.
//
// Precondition: kind is one of Kinds.
// Postcondition: errors.Is(result, kind.Err()) is true and FieldsOf(result) == []string{field}.
func NewError(kind Kind, field string, format string, args ...any) error {
	return oops.
		Code(string(kind)).
		With("field", field).
		Wrapf(kind.Err(), format, args...)
}

// newMultiFieldError builds an error naming several conflicting fields.
func newMultiFieldError(kind Kind, fields []string, format string, args ...any) error {
	return oops.
		Code(string(kind)).
		With("fields", append([]string(nil), fields...)).
		Wrapf(kind.Err(), format, args...)
}

// KindOf reports the kind of err, or "" when err was not produced by this package.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range Kinds {
		if errors.Is(err, sentinels[k]) {
			return k
		}
	}
	return ""
}

// FieldsOf returns the offending field path(s) recorded on err.
//
// Postcondition: Returns nil when err carries no field context.
func FieldsOf(err error) []string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}
	ctx := oopsErr.Context()
	if fields, ok := ctx["fields"].([]string); ok {
		return fields
	}
	if field, ok := ctx["field"].(string); ok && field != "" {
		return []string{field}
	}
	return nil
}

// Describe renders err as "<KIND>: <message>" for transports that only carry text.
func Describe(err error) string {
	if k := KindOf(err); k != "" {
		return fmt.Sprintf("%s: %v", k, err)
	}
	return err.Error()
}
