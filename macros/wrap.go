package macros

// Wrap returns a function that calls f with macros active on the
// model. Each call opens and closes its own Scope.
//
// Wrap, Wrap1 and Wrap2 only take functions returning an error, which is
// also used to report that macros could not be activated. Use MustWrap and
// MustWrap1 for functions that cannot fail.
func Wrap(model Capable, f func() error) func() error {
	return func() error {
		return Do(model, func(Capable) error { return f() })
	}
}

// Wrap1 is like Wrap for a function of one argument and one result
func Wrap1[A, R any](model Capable, f func(A) (R, error)) func(A) (R, error) {
	return func(a A) (R, error) {
		var r R
		err := Do(model, func(Capable) error {
			var err error
			r, err = f(a)
			return err
		})
		return r, err
	}
}

// Wrap2 is like Wrap for a function of two arguments and one result
func Wrap2[A, B, R any](model Capable, f func(A, B) (R, error)) func(A, B) (R, error) {
	return func(a A, b B) (R, error) {
		var r R
		err := Do(model, func(Capable) error {
			var err error
			r, err = f(a, b)
			return err
		})
		return r, err
	}
}

// MustWrap is like Wrap for a function that cannot fail. It panics if
// macros can never be activated on the model; this is checked when f is
// wrapped.
func MustWrap(model Capable, f func()) func() {
	mustBeActivatable(model)

	return func() {
		err := Do(model, func(Capable) error {
			f()
			return nil
		})
		if err != nil {
			panic(err)
		}
	}
}

// MustWrap1 is like MustWrap for a function of one argument and one result
func MustWrap1[A, R any](model Capable, f func(A) R) func(A) R {
	mustBeActivatable(model)

	return func(a A) R {
		var r R
		err := Do(model, func(Capable) error {
			r = f(a)
			return nil
		})
		if err != nil {
			panic(err)
		}
		return r
	}
}

func mustBeActivatable(model Capable) {
	if model == nil || model.isNil() {
		panic(ErrNotCapable)
	}
	if err := model.canActivate(); err != nil {
		panic(err)
	}
}
