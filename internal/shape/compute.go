package shape

import "fmt"

// Nested applies t to the object stored under key. Absent or null values
// stay unset.
func Nested(key string, t *Transformer) ComputeFunc {
	return func(src Object) (any, error) {
		raw, ok := src[key]
		if !ok || raw == nil {
			return nil, nil
		}
		obj, ok := raw.(Object)
		if !ok {
			return nil, &ShapeError{Shape: t.Name, Value: raw, Reason: "expected an object"}
		}
		return t.Apply(obj)
	}
}

// Each applies t to every object of the array stored under key.
func Each(key string, t *Transformer) ComputeFunc {
	return func(src Object) (any, error) {
		raw, ok := src[key]
		if !ok || raw == nil {
			return nil, nil
		}
		items, ok := raw.([]any)
		if !ok {
			return nil, &ShapeError{Shape: t.Name, Value: raw, Reason: "expected an array"}
		}
		out := make([]any, 0, len(items))
		for i, item := range items {
			obj, ok := item.(Object)
			if !ok {
				return nil, &ShapeError{Shape: t.Name, Field: fmt.Sprintf("[%d]", i), Value: item, Reason: "expected an object"}
			}
			mapped, err := t.Apply(obj)
			if err != nil {
				return nil, wrapField(t.Name, fmt.Sprintf("[%d]", i), err)
			}
			out = append(out, mapped)
		}
		return out, nil
	}
}

// Const always yields v.
func Const(v any) ComputeFunc {
	return func(Object) (any, error) { return v, nil }
}

// Truthy reports whether key holds boolean true.
func Truthy(key string) Predicate {
	return func(src Object) bool {
		v, _ := src[key].(bool)
		return v
	}
}

// IsZero reports whether key is absent or holds its zero value.
func IsZero(key string) Predicate {
	return func(src Object) bool {
		switch v := src[key].(type) {
		case nil:
			return true
		case bool:
			return !v
		case string:
			return v == ""
		case float64:
			return v == 0
		case int:
			return v == 0
		case []any:
			return len(v) == 0
		case Object:
			return len(v) == 0
		default:
			return false
		}
	}
}

// Not negates p.
func Not(p Predicate) Predicate {
	return func(src Object) bool { return !p(src) }
}
