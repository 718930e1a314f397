package macros

import (
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/nickwells/location.mod/location"
)

// DfltMStart is the default start string for a macro
// DfltMEnd is the default end string for a macro
//
// They are used by Substitute to find macro keys in a field value
const (
	DfltMStart = "["
	DfltMEnd   = "]"
)

// MacroFunc computes the replacement text for a macro from the record
// whose field is being read. Any error it returns is passed back unchanged
// to the caller of the read.
type MacroFunc[T any] func(obj T) (string, error)

// Sprint adapts a function returning any value into a MacroFunc. The value
// is converted to text as fmt.Sprint would do it.
func Sprint[T any](f func(obj T) any) MacroFunc[T] {
	return func(obj T) (string, error) {
		return fmt.Sprint(f(obj)), nil
	}
}

// FieldReader reads the stored value of the named field from the record
type FieldReader[T any] func(obj T, name string) (any, error)

// Model records the macro configuration of a record type together with
// the current macro mode.
//
// You should create a new Model with NewModel, giving the macro fields and
// the macro functions as options. While the Model is active, reads of the
// macro fields made through Get or GetString have their macros
// substituted. Reads of any other field are never changed.
//
// A Model is safe for concurrent use.
type Model[T any] struct {
	name       string
	fields     map[string]bool
	fieldNames []string
	keys       []string
	funcs      map[string]MacroFunc[T]
	mStart     string
	mEnd       string
	cache      *fileCache
	reader     FieldReader[T]
	logger     *slog.Logger
	loc        *location.L
	re         *regexp.Regexp

	mu       sync.Mutex
	explicit bool
	depth    int
}

// NewModel creates a new Model called name. The options are applied in
// order and the first error stops construction.
func NewModel[T any](name string, opts ...OptFunc[T]) (*Model[T], error) {
	m := &Model[T]{
		name:   name,
		fields: make(map[string]bool),
		funcs:  make(map[string]MacroFunc[T]),
		mStart: DfltMStart,
		mEnd:   DfltMEnd,
		cache:  newFileCache(),
		logger: slog.New(slog.DiscardHandler),
		loc:    location.New("model " + name),
	}

	for _, o := range opts {
		m.loc.Incr()
		if err := o(m); err != nil {
			return nil, err
		}
	}

	if m.reader == nil {
		if err := m.checkFields(); err != nil {
			return nil, err
		}
		m.reader = reflectReader[T]
	}

	if len(m.keys) > 0 {
		quoted := make([]string, 0, len(m.keys))
		for _, k := range m.keys {
			quoted = append(quoted, regexp.QuoteMeta(k))
		}
		m.re = regexp.MustCompile(regexp.QuoteMeta(m.mStart) +
			"(" + strings.Join(quoted, "|") + ")" +
			regexp.QuoteMeta(m.mEnd))
	}

	return m, nil
}

// checkFields makes sure that every macro field is a text field of the
// record type. Only struct record types can be checked in advance.
func (m *Model[T]) checkFields() error {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	for _, name := range m.fieldNames {
		sf, ok := t.FieldByName(name)
		if !ok || !sf.IsExported() {
			return fmt.Errorf("model %s: %w: %q", m.name, ErrNoSuchField, name)
		}
		if !isTextType(sf.Type) {
			return fmt.Errorf("model %s: %w: %q has type %s",
				m.name, ErrNotText, name, sf.Type)
		}
	}
	return nil
}

// isTextType reports whether values of type t can hold macros
func isTextType(t reflect.Type) bool {
	if t.Kind() == reflect.String {
		return true
	}
	return t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.String
}

// Name returns the name of the model
func (m *Model[T]) Name() string {
	return m.name
}

// Fields returns the macro field names in the order they were given
func (m *Model[T]) Fields() []string {
	return append([]string(nil), m.fieldNames...)
}

// Keys returns the macro keys in the order they were given
func (m *Model[T]) Keys() []string {
	return append([]string(nil), m.keys...)
}

// IsMacroField reports whether the named field is subject to macro
// substitution
func (m *Model[T]) IsMacroField(name string) bool {
	return m.fields[name]
}

// Activate switches macros on for every record read through the
// Model. It is an error to activate a Model without any macros. Activating
// an active Model does nothing.
func (m *Model[T]) Activate() error {
	if err := m.canActivate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.explicit {
		return nil
	}
	m.explicit = true
	m.logger.Debug("macros activated", "model", m.name)

	return nil
}

// IsActive reports whether macros are currently substituted, either
// because the Model has been activated or because a Scope is open on it.
func (m *Model[T]) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.explicit || m.depth > 0
}

// Deactivate reverses Activate. Any Scope still open on the Model keeps
// macros active until it is closed. Deactivating a Model that was not
// activated does nothing.
func (m *Model[T]) Deactivate() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.explicit {
		return
	}
	m.explicit = false
	m.logger.Debug("macros deactivated", "model", m.name, "scopes", m.depth)
}

// canActivate returns an error if macros can never be activated on the
// Model
func (m *Model[T]) canActivate() error {
	if len(m.keys) == 0 {
		return fmt.Errorf("model %s: %w", m.name, ErrNoMacroMap)
	}
	return nil
}

func (m *Model[T]) isNil() bool {
	return m == nil
}

// hold takes one nested hold on macro mode
func (m *Model[T]) hold() error {
	if err := m.canActivate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.depth++
	m.logger.Debug("macro scope opened", "model", m.name, "depth", m.depth)

	return nil
}

// release gives back a hold taken by hold
func (m *Model[T]) release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.depth == 0 {
		return
	}
	m.depth--
	m.logger.Debug("macro scope closed", "model", m.name, "depth", m.depth)
}

// Accessor returns the FieldAccessor to use for a read made now: one that
// substitutes macros if the Model is active and one that returns the raw
// value otherwise.
func (m *Model[T]) Accessor() FieldAccessor[T] {
	if m.IsActive() {
		return MacroSubstituting[T]{m: m}
	}
	return Raw[T]{m: m}
}

// MacroAccessor returns a FieldAccessor that always substitutes macros,
// whatever the current macro mode of the Model.
func (m *Model[T]) MacroAccessor() FieldAccessor[T] {
	return MacroSubstituting[T]{m: m}
}

// Get returns the value of the named field of obj, with any macros
// substituted if the field is a macro field and the Model is active.
func (m *Model[T]) Get(obj T, name string) (any, error) {
	return m.Accessor().Get(obj, name)
}

// GetString is like Get but the field must hold text. A nil string
// pointer gives an empty string.
func (m *Model[T]) GetString(obj T, name string) (string, error) {
	v, err := m.Get(obj, name)
	if err != nil {
		return "", err
	}
	return asString(v, name)
}

func asString(v any, name string) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case *string:
		if s == nil {
			return "", nil
		}
		return *s, nil
	case nil:
		return "", nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), nil
	}
	return "", fmt.Errorf("%w: %q has type %T", ErrNotText, name, v)
}
