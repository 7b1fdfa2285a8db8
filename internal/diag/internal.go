package diag

import (
	"errors"
	"fmt"
)

// InternalError reports a broken compiler invariant. It is never produced by
// well-typed input and is kept apart from user diagnostics.
type InternalError struct {
	Op  string
	Msg string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal compiler error in %s: %s", e.Op, e.Msg)
}

// Invariantf panics with an *InternalError.
func Invariantf(op, format string, args ...any) {
	panic(&InternalError{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// RecoverInternal converts a panicking *InternalError into *err.
// Other panics are re-raised.
//
//	defer diag.RecoverInternal(&err)
func RecoverInternal(err *error) {
	r := recover()
	if r == nil {
		return
	}
	var ie *InternalError
	if e, ok := r.(error); ok && errors.As(e, &ie) {
		*err = ie
		return
	}
	panic(r)
}
