package errors

// ErrorCode identifies a class of failure. Codes are stable strings so
// they can be logged and matched without string-comparing messages.
type ErrorCode string

// Error is a domain error carrying a code, an optional wrapped cause
// and optional structured data.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory creates domain errors
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
