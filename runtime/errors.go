package runtime

import "fmt"

// ErrorKind classifies engine failures. Every kind is catchable by scripts.
type ErrorKind string

const (
	ReferenceError     ErrorKind = "ReferenceError"
	RedeclarationError ErrorKind = "RedeclarationError"
	IndexError         ErrorKind = "IndexError"
	TypeError          ErrorKind = "TypeError"
	RangeError         ErrorKind = "RangeError"
)

// Error is an engine failure raised by the environment or a built-in.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewErrorRecord builds the value a script sees when it catches an
// engine failure.
func NewErrorRecord(kind ErrorKind, message string) Value {
	r := NewRecord()
	r.Set("name", NewString(string(kind)))
	r.Set("message", NewString(message))
	return NewRecordValue(r)
}
