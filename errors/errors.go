package errors

import (
	"github.com/doquedb-oss/doquedb-go/codes"
)

// Error contains every field a server ExceptionData payload can carry,
// flattened out of whatever decorator chain produced it.
type Error struct {
	Code           codes.Code
	Message        string
	Detail         string
	Hint           string
	Severity       Severity
	ConstraintName string
	Source         *Source
}

// Source represents whenever possible the module/file/line of a given error.
type Source struct {
	File     string
	Line     int32
	Function string
}

// Flatten walks err's decorator chain and collects every attached field into
// a single Error value.
func Flatten(err error) Error {
	if err == nil {
		return Error{
			Code:     codes.Uncategorized,
			Message:  "unknown error, an internal process attempted to throw an error",
			Severity: LevelFatal,
		}
	}

	return Error{
		Code:           GetCode(err),
		Message:        err.Error(),
		Detail:         GetDetail(err),
		Hint:           GetHint(err),
		Severity:       DefaultSeverity(GetSeverity(err)),
		ConstraintName: GetConstraintName(err),
		Source:         GetSource(err),
	}
}

// ---------------------------------------------------------------------------
// Exception taxonomy
//
// Grounded on exception/exceptions.py: Warning and Error sit at the root,
// DatabaseError carries the server-reported error_message/state_code/
// error_code triple, and its six subclasses classify a DatabaseError by the
// state-code class attached to it (see codes.Code and NewDatabaseError).
// InterfaceError and UnexpectedError are raised client-side and never carry
// a state code from the server.
// ---------------------------------------------------------------------------

// Warning mirrors the original's Warning exception: raised for conditions the
// caller may want to surface without aborting the operation that produced it.
type Warning struct {
	Message string
}

func (e *Warning) Error() string { return e.Message }

// UnexpectedError mirrors the original's UnexpectedError: raised when the
// client observes a condition the protocol does not otherwise account for,
// such as having no control Connection to send a request through.
type UnexpectedError struct {
	Message string
}

func (e *UnexpectedError) Error() string { return e.Message }

// InterfaceError mirrors the original's InterfaceError: raised client-side
// when the exchange with the server cannot be interpreted (a result-set
// status the client does not recognize, for example) rather than for
// anything the server reported in an ExceptionData payload.
type InterfaceError struct {
	Message string
}

func (e *InterfaceError) Error() string { return e.Message }

// DatabaseError mirrors the original's DatabaseError: the base for every
// exception that carries a server-reported ExceptionData payload.
type DatabaseError struct {
	Message string
	Code    codes.Code
	ErrNo   int32
}

func (e *DatabaseError) Error() string { return e.Message }

// databaseError is implemented by *DatabaseError and, through struct
// embedding, by every one of its classified subclasses below — letting a
// caller test for the whole hierarchy in one assertion the way the
// original's `except exceptions.DatabaseError:` catches any of its
// subclasses via Python inheritance.
type databaseError interface {
	error
	isDatabaseError()
}

func (e *DatabaseError) isDatabaseError() {}

// IsDatabaseError reports whether err is a *DatabaseError or one of its
// classified subclasses (DataError, IntegrityError, OperationalError,
// InternalError, ProgrammingError, NotSupportedError).
func IsDatabaseError(err error) bool {
	_, ok := err.(databaseError)
	return ok
}

// DataError mirrors the original's DataError subclass (Class 22 conditions:
// truncation, range, format, division by zero).
type DataError struct{ DatabaseError }

// OperationalError mirrors the original's OperationalError subclass
// (conditions outside the program's control: transaction state, rollback).
type OperationalError struct{ DatabaseError }

// IntegrityError mirrors the original's IntegrityError subclass (Class 23
// constraint violations).
type IntegrityError struct{ DatabaseError }

// InternalError mirrors the original's InternalError subclass (server-side
// resource or system failures, Class 53/57/58).
type InternalError struct{ DatabaseError }

// ProgrammingError mirrors the original's ProgrammingError subclass (Class 42
// syntax and access-rule violations).
type ProgrammingError struct{ DatabaseError }

// NotSupportedError mirrors the original's NotSupportedError subclass
// (Class 0A feature-not-supported conditions).
type NotSupportedError struct{ DatabaseError }

// NewDatabaseError classifies a server-reported error into the narrowest
// DatabaseError subclass its code identifies, mirroring how the original
// picks an exception class for a given errno.
func NewDatabaseError(message string, code codes.Code, errno int32) error {
	base := DatabaseError{Message: message, Code: code, ErrNo: errno}

	switch codeClass(code) {
	case "22":
		return &DataError{base}
	case "23":
		return &IntegrityError{base}
	case "25", "40":
		return &OperationalError{base}
	case "42":
		return &ProgrammingError{base}
	case "0A":
		return &NotSupportedError{base}
	case "53", "57", "58":
		return &InternalError{base}
	default:
		return &base
	}
}

func codeClass(code codes.Code) string {
	if len(code) < 2 {
		return ""
	}

	return string(code)[:2]
}
