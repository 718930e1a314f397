package macros

import "errors"

// These errors are returned (possibly wrapped) when a Model is badly
// configured or misused. Use errors.Is to test for them.
var (
	ErrNoMacroMap  = errors.New("no pattern mapping specified")
	ErrNotCapable  = errors.New("not a macro-capable model")
	ErrNoSuchField = errors.New("no such field")
	ErrNotText     = errors.New("macro field is not a string")
	ErrBadMacroKey = errors.New("bad macro key")
)
