// Package tentative implements the Tentative[V, W, E] value used by every
// parse/write stage in the fcs module: a successful-so-far value paired
// with accumulated warnings and accumulated recoverable errors, plus a
// DeferredResult lifting it into an outer fatal failure.
package tentative

// Tentative carries a value that was produced despite zero or more
// recoverable Errs, plus zero or more Warnings that never block progress.
// Nothing in this package panics or unwinds; every branch returns a
// Tentative.
type Tentative[V any, W any, E any] struct {
	Value    V
	Warnings []W
	Errors   []E
}

// Of wraps a clean value with no warnings or errors.
func Of[V any, W any, E any](v V) Tentative[V, W, E] {
	return Tentative[V, W, E]{Value: v}
}

// WithWarning appends a warning and returns the receiver for chaining.
func (t Tentative[V, W, E]) WithWarning(w W) Tentative[V, W, E] {
	t.Warnings = append(t.Warnings, w)
	return t
}

// WithWarnings appends zero or more warnings.
func (t Tentative[V, W, E]) WithWarnings(ws ...W) Tentative[V, W, E] {
	t.Warnings = append(t.Warnings, ws...)
	return t
}

// WithError appends a recoverable error and returns the receiver.
func (t Tentative[V, W, E]) WithError(e E) Tentative[V, W, E] {
	t.Errors = append(t.Errors, e)
	return t
}

// WithErrors appends zero or more recoverable errors.
func (t Tentative[V, W, E]) WithErrors(es ...E) Tentative[V, W, E] {
	t.Errors = append(t.Errors, es...)
	return t
}

// HasErrors reports whether any recoverable error has been accumulated.
func (t Tentative[V, W, E]) HasErrors() bool {
	return len(t.Errors) > 0
}

// Map transforms the value, leaving warnings/errors untouched. Map must
// be a plain function (not a method) since Go forbids generic methods
// with additional type parameters.
func Map[V, W, E, V2 any](t Tentative[V, W, E], f func(V) V2) Tentative[V2, W, E] {
	return Tentative[V2, W, E]{Value: f(t.Value), Warnings: t.Warnings, Errors: t.Errors}
}

// AndThen sequences a dependent stage: f receives the prior value and
// returns a new Tentative, whose warnings/errors are appended after the
// receiver's. This is the monadic bind the orchestrator uses to combine
// stages.
func AndThen[V, W, E, V2 any](t Tentative[V, W, E], f func(V) Tentative[V2, W, E]) Tentative[V2, W, E] {
	next := f(t.Value)
	return Tentative[V2, W, E]{
		Value:    next.Value,
		Warnings: append(append([]W{}, t.Warnings...), next.Warnings...),
		Errors:   append(append([]E{}, t.Errors...), next.Errors...),
	}
}

// ZipWith combines two independent Tentatives (neither depends on the
// other's value) into one, concatenating warnings and errors in the
// order a, then b.
func ZipWith[VA, VB, W, E, V2 any](a Tentative[VA, W, E], b Tentative[VB, W, E], f func(VA, VB) V2) Tentative[V2, W, E] {
	return Tentative[V2, W, E]{
		Value:    f(a.Value, b.Value),
		Warnings: append(append([]W{}, a.Warnings...), b.Warnings...),
		Errors:   append(append([]E{}, a.Errors...), b.Errors...),
	}
}

// PromoteErrorsToWarnings moves every accumulated error into the warning
// channel using the supplied conversion, clearing Errors. Used where
// policy downgrades a class of recoverable error to a warning.
func PromoteErrorsToWarnings[V, W, E any](t Tentative[V, W, E], toWarning func(E) W) Tentative[V, W, E] {
	for _, e := range t.Errors {
		t.Warnings = append(t.Warnings, toWarning(e))
	}
	t.Errors = nil
	return t
}

// PromoteWarningsToErrors moves every accumulated warning into the error
// channel. Used to implement the terminal warnings_are_errors policy.
func PromoteWarningsToErrors[V, W, E any](t Tentative[V, W, E], toError func(W) E) Tentative[V, W, E] {
	for _, w := range t.Warnings {
		t.Errors = append(t.Errors, toError(w))
	}
	t.Warnings = nil
	return t
}

// DeferredResult lifts a Tentative into an outer fatal-failure channel:
// either the pipeline produced a Tentative value (possibly still carrying
// recoverable errors the caller chose not to fail on), or it hit a fatal
// condition (I/O failure, or promotion of recoverable errors into a
// terminal failure) captured in Reason.
type DeferredResult[V any, W any, E any] struct {
	Tentative *Tentative[V, W, E]
	Reason    string
	Fatal     error
}

// Ok wraps a successful Tentative as a DeferredResult.
func Ok[V, W, E any](t Tentative[V, W, E]) DeferredResult[V, W, E] {
	return DeferredResult[V, W, E]{Tentative: &t}
}

// Fail produces a fatal DeferredResult carrying no value.
func Fail[V, W, E any](reason string, err error) DeferredResult[V, W, E] {
	return DeferredResult[V, W, E]{Reason: reason, Fatal: err}
}

// IsFatal reports whether the pipeline terminated with a fatal failure.
func (d DeferredResult[V, W, E]) IsFatal() bool {
	return d.Fatal != nil
}

// Promote converts a DeferredResult whose Tentative carries recoverable
// errors into a fatal DeferredResult when failOnErrors is true (the
// "promoted into a terminal failure carrying the list of errors plus all
// prior warnings" behavior). errorsToErr formats the
// accumulated errors into a single fatal error.
func Promote[V, W, E any](d DeferredResult[V, W, E], reason string, failOnErrors bool, errorsToErr func([]E) error) DeferredResult[V, W, E] {
	if d.IsFatal() || d.Tentative == nil {
		return d
	}
	if failOnErrors && d.Tentative.HasErrors() {
		return DeferredResult[V, W, E]{Reason: reason, Fatal: errorsToErr(d.Tentative.Errors)}
	}
	return d
}

// DeferredAndThen sequences a dependent stage on a DeferredResult: once
// fatal, always fatal; otherwise passes the whole Tentative (value,
// warnings and errors) to f and returns f's result as is, so carrying the
// earlier warnings/errors forward is up to f.
func DeferredAndThen[V, W, E, V2 any](d DeferredResult[V, W, E], f func(Tentative[V, W, E]) DeferredResult[V2, W, E]) DeferredResult[V2, W, E] {
	if d.IsFatal() || d.Tentative == nil {
		return DeferredResult[V2, W, E]{Reason: d.Reason, Fatal: d.Fatal}
	}
	return f(*d.Tentative)
}
