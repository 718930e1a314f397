package macros

import (
	"fmt"
	"log/slog"
)

// OptFunc is the type of an option passed to NewModel
type OptFunc[T any] func(m *Model[T]) error

// Fields returns an OptFunc that will add the field names to the set of
// fields in which macros are substituted
func Fields[T any](names ...string) OptFunc[T] {
	return func(m *Model[T]) error {
		for _, n := range names {
			if m.fields[n] {
				continue
			}
			m.fields[n] = true
			m.fieldNames = append(m.fieldNames, n)
		}

		return nil
	}
}

// Macro returns an OptFunc that will add the macro key with the function
// giving its value. The key is given without the start and end strings; it
// is matched literally. Keys are tried in the order they are added.
func Macro[T any](key string, f MacroFunc[T]) OptFunc[T] {
	return func(m *Model[T]) error {
		return m.addMacro(key, f)
	}
}

func (m *Model[T]) addMacro(key string, f MacroFunc[T]) error {
	if key == "" {
		return fmt.Errorf("model %s: %w: the key must not be empty",
			m.name, ErrBadMacroKey)
	}
	if f == nil {
		return fmt.Errorf("model %s: %w: no function given for %q",
			m.name, ErrBadMacroKey, key)
	}
	if _, ok := m.funcs[key]; ok {
		return fmt.Errorf("model %s: %w: %q is already defined",
			m.name, ErrBadMacroKey, key)
	}

	m.funcs[key] = f
	m.keys = append(m.keys, key)

	return nil
}

// Dirs returns an OptFunc that will add the directory names to the,
// initially empty, set of directories to be searched by FileMacro. Each of
// the passed values must be a directory, an error will be returned if not
// and none of the passed values will be added.
func Dirs[T any](dirs ...string) OptFunc[T] {
	return func(m *Model[T]) error {
		return m.cache.addDirs(dirs...)
	}
}

// Suffix returns an OptFunc that will add a suffix to the list of strings to
// be tried as suffixes. Any suffix must be complete and include the
// separator (if any). For instance ".txt". The suffixes are tried in the
// order they are added and there is always a first, empty suffix so that a
// macro key will always match a file with the exact same name.
func Suffix[T any](suffix string) OptFunc[T] {
	return func(m *Model[T]) error {
		m.cache.addSuffix(suffix)

		return nil
	}
}

// FileMacro returns an OptFunc that will add a macro whose value is the
// contents of the file named after the key in one of the macro
// directories. The file must exist when the option is applied, so the Dirs
// and Suffix options must come before it. It is read the first time the
// macro is substituted and the text is then reused.
func FileMacro[T any](key string) OptFunc[T] {
	return func(m *Model[T]) error {
		path, err := m.cache.locate(key, m.loc)
		if err != nil {
			return err
		}
		m.logger.Debug("macro file found",
			"model", m.name, "macro", key, "path", path)

		return m.addMacro(key, func(T) (string, error) {
			text, fresh, err := m.cache.read(key)
			if err != nil {
				return "", err
			}
			if fresh {
				m.logger.Debug("macro file read",
					"model", m.name, "macro", key, "path", path)
			}
			return text, nil
		})
	}
}

// StartEndStr returns an OptFunc that will change the strings that are used
// to bracket a macro in a field value. The default values are given by
// DfltMStart and DfltMEnd
func StartEndStr[T any](start, end string) OptFunc[T] {
	return func(m *Model[T]) error {
		if start == "" || end == "" {
			return fmt.Errorf("model %s: the macro start and end strings"+
				" must not be empty", m.name)
		}
		m.mStart = start
		m.mEnd = end

		return nil
	}
}

// Reader returns an OptFunc that will set the function used to read field
// values from a record. By default struct fields and map entries are read
// by name. No check is made that the macro fields exist when a Reader is
// given.
func Reader[T any](r FieldReader[T]) OptFunc[T] {
	return func(m *Model[T]) error {
		m.reader = r

		return nil
	}
}

// Logger returns an OptFunc that will set the logger the Model reports its
// changes of macro mode to. A nil logger is ignored.
func Logger[T any](l *slog.Logger) OptFunc[T] {
	return func(m *Model[T]) error {
		if l != nil {
			m.logger = l
		}

		return nil
	}
}
