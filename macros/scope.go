package macros

import "fmt"

// Capable is the interface of a model on which macros can be switched on
// and off. It is satisfied by any *Model.
type Capable interface {
	Name() string
	Activate() error
	Deactivate()
	IsActive() bool

	canActivate() error
	hold() error
	release()
	isNil() bool
}

// Scope keeps macros active on a model between a call to Enter and the
// matching call to Exit. Scopes on the same model may nest or overlap;
// macros stay active until the last of them exits. A Scope should not be
// shared between goroutines.
type Scope struct {
	model Capable
	held  bool
}

// NewScope creates a Scope for the model. It returns an error wrapping
// ErrNotCapable if the model does not support macros or is a nil *Model.
func NewScope(model any) (*Scope, error) {
	c, ok := model.(Capable)
	if !ok || c.isNil() {
		return nil, fmt.Errorf("%w: %T", ErrNotCapable, model)
	}

	return &Scope{model: c}, nil
}

// Enter activates macros on the model and returns it. Entering a Scope
// that has already been entered does nothing.
func (s *Scope) Enter() (Capable, error) {
	if s.held {
		return s.model, nil
	}
	if err := s.model.hold(); err != nil {
		return nil, err
	}
	s.held = true

	return s.model, nil
}

// Exit ends the Scope. It may be called more than once and need not follow
// a successful Enter, so it can always be deferred.
func (s *Scope) Exit() {
	if !s.held {
		return
	}
	s.held = false
	s.model.release()
}

// Do runs fn with macros active on the model and returns its error. The
// Scope is exited however fn finishes, including by panicking.
func Do(model any, fn func(Capable) error) error {
	s, err := NewScope(model)
	if err != nil {
		return err
	}

	defer s.Exit()

	c, err := s.Enter()
	if err != nil {
		return err
	}

	return fn(c)
}

// With runs fn with macros active on the Model, see Do.
func (m *Model[T]) With(fn func(*Model[T]) error) error {
	return Do(m, func(Capable) error { return fn(m) })
}
