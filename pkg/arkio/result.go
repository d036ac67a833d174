package arkio

import (
	"context"
)

// Result is the outcome of an API operation whose HTTP exchange succeeded.
// When the API reported an application error, AppError is set and Value is
// the zero value of T. Transport failures are never carried by a Result; they
// are returned as the operation's error instead.
type Result[T any] struct {
	Value    T
	AppError *APIError
}

// NewResult returns a successful result carrying value.
func NewResult[T any](value T) *Result[T] {
	return &Result[T]{Value: value}
}

// NewAppErrorResult returns a result carrying an application error and no value.
func NewAppErrorResult[T any](appErr *APIError) *Result[T] {
	return &Result[T]{AppError: appErr}
}

// OK reports whether the result carries a value and no application error.
func (r *Result[T]) OK() bool {
	return r != nil && r.AppError == nil
}

// Unwrap returns the value and the application error as a plain error, for
// callers that do not need to distinguish the two error channels.
func (r *Result[T]) Unwrap() (T, error) {
	if r == nil {
		var zero T

		return zero, nil
	}

	if r.AppError != nil {
		return r.Value, r.AppError
	}

	return r.Value, nil
}

// Operation is a blocking API call, typically a Session method value bound to
// its arguments.
type Operation[T any] func(ctx context.Context) (*Result[T], error)

// SuccessFunc receives the payload of a completed exchange and the
// application error, if any.
type SuccessFunc[T any] func(value T, appErr *APIError)

// FailureFunc receives the transport error of a failed exchange.
type FailureFunc func(err error)

// Dispatch runs op on its own goroutine and invokes exactly one of success or
// failure when it completes. The returned channel is closed after the
// callback has returned. Either callback may be nil.
func Dispatch[T any](ctx context.Context, op Operation[T], success SuccessFunc[T], failure FailureFunc) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		result, err := op(ctx)
		if err != nil {
			if failure != nil {
				failure(err)
			}

			return
		}

		if result == nil {
			result = &Result[T]{}
		}

		if success != nil {
			success(result.Value, result.AppError)
		}
	}()

	return done
}
