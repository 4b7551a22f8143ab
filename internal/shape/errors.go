package shape

import (
	"errors"
	"fmt"
	"strings"
)

// ShapeError reports a value a transformer has no mapping for.
type ShapeError struct {
	Shape  string
	Field  string
	Value  any
	Reason string
}

func (e *ShapeError) Error() string {
	msg := "shape " + e.Shape
	if e.Field != "" {
		msg += ": field " + e.Field
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" = %v", e.Value)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// wrapField prefixes nested shape errors with the parent field so the
// message carries the full path, e.g. "features[1].price.usage_model".
func wrapField(shapeName, field string, err error) error {
	var shapeErr *ShapeError
	if errors.As(err, &shapeErr) {
		copied := *shapeErr
		switch {
		case copied.Field == "":
			copied.Field = field
		case strings.HasPrefix(copied.Field, "["):
			copied.Field = field + copied.Field
		default:
			copied.Field = field + "." + copied.Field
		}
		return &copied
	}
	return &ShapeError{Shape: shapeName, Field: field, Reason: err.Error()}
}
