package macros

import (
	"fmt"
	"reflect"
	"strings"
)

// FieldAccessor reads a named field from a record. The Model chooses one
// for each read: Raw while macros are inactive and MacroSubstituting while
// they are active.
type FieldAccessor[T any] interface {
	Get(obj T, name string) (any, error)
}

// Raw returns field values exactly as they are stored
type Raw[T any] struct {
	m *Model[T]
}

// Get returns the stored value of the named field
func (a Raw[T]) Get(obj T, name string) (any, error) {
	return a.m.reader(obj, name)
}

// MacroSubstituting returns field values with the macros of any macro
// field replaced. Other fields are returned as stored.
type MacroSubstituting[T any] struct {
	m *Model[T]
}

// Get returns the value of the named field, substituting macros if it is a
// macro field
func (a MacroSubstituting[T]) Get(obj T, name string) (any, error) {
	v, err := a.m.reader(obj, name)
	if err != nil || !a.m.fields[name] {
		return v, err
	}

	return a.m.substituteValue(obj, name, v)
}

// substituteValue applies Substitute to a stored field value, keeping its
// type. Empty and nil values are returned unchanged.
func (m *Model[T]) substituteValue(obj T, name string, v any) (any, error) {
	switch s := v.(type) {
	case nil:
		return v, nil
	case string:
		return m.Substitute(obj, s)
	case *string:
		if s == nil {
			return s, nil
		}
		newS, err := m.Substitute(obj, *s)
		if err != nil {
			return nil, err
		}
		if newS == *s {
			return s, nil
		}
		return &newS, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return nil, fmt.Errorf("model %s: %w: %q has type %T",
			m.name, ErrNotText, name, v)
	}
	newS, err := m.Substitute(obj, rv.String())
	if err != nil {
		return nil, err
	}
	return reflect.ValueOf(newS).Convert(rv.Type()).Interface(), nil
}

// Substitute replaces every macro in value with the text given by the
// macro's function, called with obj. The value is scanned once from left
// to right; macros do not nest and replacement text is not scanned
// again. Bracketed text that is not a known macro key is left as it
// is. An empty value is returned unchanged. The first error from a macro
// function is returned as it is.
//
// Substitute does not depend on whether the Model is active.
func (m *Model[T]) Substitute(obj T, value string) (string, error) {
	if value == "" || m.re == nil {
		return value, nil
	}

	matches := m.re.FindAllStringSubmatchIndex(value, -1)
	if len(matches) == 0 {
		return value, nil
	}

	var b strings.Builder
	last := 0
	for _, match := range matches {
		text, err := m.funcs[value[match[2]:match[3]]](obj)
		if err != nil {
			return "", err
		}
		b.WriteString(value[last:match[0]])
		b.WriteString(text)
		last = match[1]
	}
	b.WriteString(value[last:])

	return b.String(), nil
}

// reflectReader reads a field of a struct (or pointer to one) by name or
// an entry of a map with string keys
func reflectReader[T any](obj T, name string) (any, error) {
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, fmt.Errorf("cannot read %q from a nil record", name)
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Invalid:
		return nil, fmt.Errorf("cannot read %q from a nil record", name)
	case reflect.Struct:
		f := v.FieldByName(name)
		if !f.IsValid() || !f.CanInterface() {
			return nil, fmt.Errorf("%w: %q", ErrNoSuchField, name)
		}
		return f.Interface(), nil
	case reflect.Map:
		kt := v.Type().Key()
		if kt.Kind() != reflect.String {
			break
		}
		e := v.MapIndex(reflect.ValueOf(name).Convert(kt))
		if !e.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrNoSuchField, name)
		}
		return e.Interface(), nil
	}

	return nil, fmt.Errorf("cannot read %q from a record of type %s",
		name, v.Type())
}
