// SPDX-License-Identifier: EPL-2.0

package codec

// Status tags a Result.
type Status int

const (
	StatusOutput Status = iota
	StatusNeedInput
	StatusEndOfStream
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOutput:
		return "output"
	case StatusNeedInput:
		return "need-input"
	case StatusEndOfStream:
		return "end-of-stream"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one Receive call. Value is set only for
// StatusOutput and Err only for StatusError.
type Result[T any] struct {
	Status Status
	Value  T
	Err    error
}

func Output[T any](v T) Result[T]       { return Result[T]{Status: StatusOutput, Value: v} }
func NeedInput[T any]() Result[T]       { return Result[T]{Status: StatusNeedInput} }
func EndOfStream[T any]() Result[T]     { return Result[T]{Status: StatusEndOfStream} }
func Failed[T any](err error) Result[T] { return Result[T]{Status: StatusError, Err: err} }

func (r Result[T]) IsOutput() bool      { return r.Status == StatusOutput }
func (r Result[T]) IsNeedInput() bool   { return r.Status == StatusNeedInput }
func (r Result[T]) IsEndOfStream() bool { return r.Status == StatusEndOfStream }
