package helper

import (
	"strings"

	"github.com/nasadm/truenasctl/internal/errors"
)

// OneOf validates an enum-valued field against its allowed values. A nil
// value passes; absence is checked by the caller if the field is required.
func OneOf(field string, v any, allowed ...string) error {
	if v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return errors.Newf(errors.CodeUsageError, "%s must be a string, got %T", field, v)
	}
	for _, a := range allowed {
		if s == a {
			return nil
		}
	}
	return errors.Newf(errors.CodeUsageError,
		"%s must be one of %s", field, strings.Join(allowed, ", "))
}

// StringValue extracts a string field, treating absence and nil as "".
func StringValue(v any) string {
	s, _ := v.(string)
	return s
}
