// Package errors defines the typed errors surfaced by the transcript parser,
// the metrics engine and the surrounding infrastructure. Every error carries a
// stable code so callers can branch on the kind without string matching.
package errors

import (
	"errors"
	"fmt"
)

// Standard error codes for the application.
const (
	CodeUnknown       = "UNKNOWN"
	CodeDecode        = "DECODE"
	CodeParse         = "PARSE"
	CodeInvalidFilter = "INVALID_FILTER"
	CodeConfig        = "CONFIG"
	CodeDatabase      = "DATABASE"
)

// ApplicationError is the interface that all our custom errors implement.
type ApplicationError interface {
	error
	Code() string
	Unwrap() error
}

// Error represents a basic application error.
type Error struct {
	code    string
	message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}

	return e.message
}

func (e *Error) Code() string {
	return e.code
}

func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the code of the first ApplicationError in err's chain,
// or CodeUnknown if there is none.
func Code(err error) string {
	var appErr ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}

	return CodeUnknown
}

// DecodeError reports raw input that is not valid UTF-8 text.
// Offset is the byte position of the first invalid sequence.
type DecodeError struct {
	base   Error
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s (byte offset %d)", e.base.Error(), e.Offset)
}

func (e *DecodeError) Code() string {
	return e.base.Code()
}

func (e *DecodeError) Unwrap() error {
	return e.base.Unwrap()
}

func NewDecodeError(message string, offset int, cause error) error {
	return &DecodeError{
		base: Error{
			code:    CodeDecode,
			message: message,
			err:     cause,
		},
		Offset: offset,
	}
}

// ParseError reports a transcript that does not follow the export format.
// Line is 1-based; zero means the problem is not tied to a single line.
type ParseError struct {
	base Error
	Line int
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.base.Error())
	}
	return e.base.Error()
}

func (e *ParseError) Code() string {
	return e.base.Code()
}

func (e *ParseError) Unwrap() error {
	return e.base.Unwrap()
}

func NewParseError(line int, message string, cause error) error {
	return &ParseError{
		base: Error{
			code:    CodeParse,
			message: message,
			err:     cause,
		},
		Line: line,
	}
}

// InvalidFilterError is returned when a metric that only makes sense for the
// whole chat is requested for a single participant.
type InvalidFilterError struct {
	base   Error
	Filter string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("%s (filter %q)", e.base.Error(), e.Filter)
}

func (e *InvalidFilterError) Code() string {
	return e.base.Code()
}

func (e *InvalidFilterError) Unwrap() error {
	return e.base.Unwrap()
}

func NewInvalidFilterError(filter, message string) error {
	return &InvalidFilterError{
		base: Error{
			code:    CodeInvalidFilter,
			message: message,
		},
		Filter: filter,
	}
}

type ConfigError struct {
	base Error
}

func (e *ConfigError) Error() string {
	return e.base.Error()
}

func (e *ConfigError) Code() string {
	return e.base.Code()
}

func (e *ConfigError) Unwrap() error {
	return e.base.Unwrap()
}

func NewConfigError(message string, cause error) error {
	return &ConfigError{
		base: Error{
			code:    CodeConfig,
			message: message,
			err:     cause,
		},
	}
}

type DatabaseError struct {
	base Error
}

func (e *DatabaseError) Error() string {
	return e.base.Error()
}

func (e *DatabaseError) Code() string {
	return e.base.Code()
}

func (e *DatabaseError) Unwrap() error {
	return e.base.Unwrap()
}

func NewDatabaseError(message string, cause error) error {
	return &DatabaseError{
		base: Error{
			code:    CodeDatabase,
			message: message,
			err:     cause,
		},
	}
}
