package diag

// Result holds either a value or a non-empty, ordered list of diagnostics.
// Independent sub-results are combined with Map2/Map3/All, which concatenate
// the diagnostics of every failed operand instead of stopping at the first.
type Result[T any] struct {
	value T
	errs  []Diagnostic
}

// Ok wraps a valid value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail builds a failed result. Calling it without diagnostics is a bug.
func Fail[T any](errs ...Diagnostic) Result[T] {
	if len(errs) == 0 {
		Invariantf("diag.Fail", "failed result without diagnostics")
	}
	return Result[T]{errs: errs}
}

// FailWith forwards the diagnostics of another failed result under a new type.
func FailWith[T, U any](r Result[U]) Result[T] {
	return Fail[T](r.errs...)
}

// OK reports whether the result carries a value.
func (r Result[T]) OK() bool { return len(r.errs) == 0 }

// Value returns the wrapped value; the zero value for failed results.
func (r Result[T]) Value() T { return r.value }

// Errors returns the diagnostics of a failed result.
func (r Result[T]) Errors() []Diagnostic { return r.errs }

// Get returns value and diagnostics together.
func (r Result[T]) Get() (T, []Diagnostic) { return r.value, r.errs }

// Map transforms the value of a valid result.
func Map[T, U any](r Result[T], f func(T) U) Result[U] {
	if !r.OK() {
		return Result[U]{errs: r.errs}
	}
	return Ok(f(r.value))
}

// Bind chains a dependent step; the step runs only when r is valid.
func Bind[T, U any](r Result[T], f func(T) Result[U]) Result[U] {
	if !r.OK() {
		return Result[U]{errs: r.errs}
	}
	return f(r.value)
}

// Map2 combines two independent results.
func Map2[A, B, C any](a Result[A], b Result[B], f func(A, B) C) Result[C] {
	if errs := concat(a.errs, b.errs); len(errs) > 0 {
		return Result[C]{errs: errs}
	}
	return Ok(f(a.value, b.value))
}

// Bind2 combines two independent results with a step that may itself fail.
func Bind2[A, B, C any](a Result[A], b Result[B], f func(A, B) Result[C]) Result[C] {
	if errs := concat(a.errs, b.errs); len(errs) > 0 {
		return Result[C]{errs: errs}
	}
	return f(a.value, b.value)
}

// Map3 combines three independent results.
func Map3[A, B, C, D any](a Result[A], b Result[B], c Result[C], f func(A, B, C) D) Result[D] {
	if errs := concat(a.errs, b.errs, c.errs); len(errs) > 0 {
		return Result[D]{errs: errs}
	}
	return Ok(f(a.value, b.value, c.value))
}

// All collects a list of independent results into a result of a list.
func All[T any](rs []Result[T]) Result[[]T] {
	var errs []Diagnostic
	out := make([]T, 0, len(rs))
	for _, r := range rs {
		if !r.OK() {
			errs = append(errs, r.errs...)
			continue
		}
		out = append(out, r.value)
	}
	if len(errs) > 0 {
		return Result[[]T]{errs: errs}
	}
	return Ok(out)
}

// Check attaches extra validation diagnostics to a result. The value is kept
// only when neither r nor the extra diagnostics report a problem.
func Check[T any](r Result[T], extra ...Diagnostic) Result[T] {
	if len(extra) == 0 {
		return r
	}
	return Result[T]{errs: concat(r.errs, extra)}
}

// Merge concatenates diagnostic lists preserving order.
func Merge(lists ...[]Diagnostic) []Diagnostic {
	return concat(lists...)
}

func concat(lists ...[]Diagnostic) []Diagnostic {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	if n == 0 {
		return nil
	}
	out := make([]Diagnostic, 0, n)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
