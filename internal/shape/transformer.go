// Package shape interprets declarative field mappings between the wire,
// internal and source representations of catalog entities.
//
// A Transformer is applied in a fixed order: Copy, Rename, Flatten, Compute,
// Defaults, Omit, then the Required check. Compute functions always read the
// untouched source object. When a Discriminator is configured the case is
// resolved first, then the shared fields and the case's own fields are applied.
package shape

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Object is a decoded JSON object.
type Object = map[string]any

// ComputeFunc derives a target value from the full source object. A nil
// value leaves the target unset.
type ComputeFunc func(src Object) (any, error)

// Predicate inspects the source object.
type Predicate func(src Object) bool

type Transformer struct {
	// Name identifies the transformer in ShapeError messages.
	Name string

	Copy     []string
	Rename   map[string]string
	Flatten  map[string]string
	Compute  map[string]ComputeFunc
	Defaults map[string]any
	Omit     map[string]Predicate
	Required []string

	Discriminator string
	Cases         map[string]*Transformer
	Default       *Transformer
}

// Apply maps src into a new object. src is never modified.
func (t *Transformer) Apply(src Object) (Object, error) {
	if src == nil {
		return nil, &ShapeError{Shape: t.Name, Reason: "source object is missing"}
	}

	var selected *Transformer
	if t.Discriminator != "" {
		var err error
		if selected, err = t.selectCase(src); err != nil {
			return nil, err
		}
	}

	out := Object{}
	if err := t.applyFields(src, out); err != nil {
		return nil, err
	}
	if selected != nil {
		caseOut, err := selected.Apply(src)
		if err != nil {
			return nil, err
		}
		maps.Copy(out, caseOut)
	}

	for _, key := range t.Required {
		if _, ok := out[key]; !ok {
			return nil, &ShapeError{Shape: t.Name, Field: key, Reason: "required field is missing"}
		}
	}
	return out, nil
}

// ApplyAll maps every element of items, failing on the first error.
func (t *Transformer) ApplyAll(items []Object) ([]Object, error) {
	out := make([]Object, 0, len(items))
	for i, item := range items {
		mapped, err := t.Apply(item)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", t.Name, i, err)
		}
		out = append(out, mapped)
	}
	return out, nil
}

func (t *Transformer) selectCase(src Object) (*Transformer, error) {
	raw, present := src[t.Discriminator]
	value, isString := raw.(string)
	if present && isString {
		if c, ok := t.Cases[value]; ok {
			return c, nil
		}
	}
	if t.Default != nil {
		return t.Default, nil
	}
	if !present {
		return nil, &ShapeError{Shape: t.Name, Field: t.Discriminator, Reason: "discriminator is missing"}
	}
	return nil, &ShapeError{Shape: t.Name, Field: t.Discriminator, Value: raw, Reason: "no mapping for value"}
}

func (t *Transformer) applyFields(src, out Object) error {
	for _, key := range t.Copy {
		if v, ok := src[key]; ok && v != nil {
			out[key] = v
		}
	}

	for _, from := range slices.Sorted(maps.Keys(t.Rename)) {
		if v, ok := src[from]; ok && v != nil {
			out[t.Rename[from]] = v
		}
	}

	for _, path := range slices.Sorted(maps.Keys(t.Flatten)) {
		if v, ok := Lookup(src, path); ok && v != nil {
			out[t.Flatten[path]] = v
		}
	}

	for _, key := range slices.Sorted(maps.Keys(t.Compute)) {
		v, err := t.Compute[key](src)
		if err != nil {
			return wrapField(t.Name, key, err)
		}
		if v != nil {
			out[key] = v
		}
	}

	for _, key := range slices.Sorted(maps.Keys(t.Defaults)) {
		if _, ok := out[key]; !ok {
			out[key] = cloneValue(t.Defaults[key])
		}
	}

	for _, key := range slices.Sorted(maps.Keys(t.Omit)) {
		if t.Omit[key](src) {
			delete(out, key)
		}
	}
	return nil
}

// Lookup resolves a dotted path through nested objects. Numeric segments
// index into arrays.
func Lookup(src Object, path string) (any, bool) {
	var current any = src
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case Object:
			v, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func cloneValue(v any) any {
	switch value := v.(type) {
	case Object:
		out := make(Object, len(value))
		for k, item := range value {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, item := range value {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
