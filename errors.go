package sqlb

import (
	"errors"
	"fmt"
)

/*
Error codes. You probably shouldn't use this directly; instead, use the `Err`
variables with `errors.Is`.
*/
type ErrCode string

const (
	ErrCodeUnknown             ErrCode = ""
	ErrCodeInvalidInput        ErrCode = "InvalidInput"
	ErrCodeMissingArgument     ErrCode = "MissingArgument"
	ErrCodeUnexpectedParameter ErrCode = "UnexpectedParameter"
	ErrCodeUnusedArgument      ErrCode = "UnusedArgument"
	ErrCodeOrdinalOutOfBounds  ErrCode = "OrdinalOutOfBounds"
	ErrCodeUnknownField        ErrCode = "UnknownField"
	ErrCodeUnknownDialect      ErrCode = "UnknownDialect"
	ErrCodeScan                ErrCode = "Scan"
	ErrCodeInternal            ErrCode = "Internal"
)

/*
Use blank error variables to detect error types:

	if errors.Is(err, sqlb.ErrMissingArgument) {
		// Handle specific error.
	}

Note that errors returned by this package can't be compared via `==` because
they may include additional details about the circumstances. When compared by
`errors.Is`, they compare `.Cause` and fall back on `.Code`.
*/
var (
	ErrInvalidInput        = Err{Code: ErrCodeInvalidInput, Cause: errors.New(`invalid input`)}
	ErrMissingArgument     = Err{Code: ErrCodeMissingArgument, Cause: errors.New(`missing argument`)}
	ErrUnexpectedParameter = Err{Code: ErrCodeUnexpectedParameter, Cause: errors.New(`unexpected parameter`)}
	ErrUnusedArgument      = Err{Code: ErrCodeUnusedArgument, Cause: errors.New(`unused argument`)}
	ErrOrdinalOutOfBounds  = Err{Code: ErrCodeOrdinalOutOfBounds, Cause: errors.New(`ordinal parameter exceeds arguments`)}
	ErrUnknownField        = Err{Code: ErrCodeUnknownField, Cause: errors.New(`unknown field`)}
	ErrUnknownDialect      = Err{Code: ErrCodeUnknownDialect, Cause: errors.New(`unknown dialect`)}
	ErrScan                = Err{Code: ErrCodeScan, Cause: errors.New(`scan failure`)}
	ErrInternal            = Err{Code: ErrCodeInternal, Cause: errors.New(`internal error`)}
)

// Type of errors returned by this package.
type Err struct {
	Code  ErrCode
	While string
	Cause error
}

// Implement `error`.
func (self Err) Error() string {
	if self.Code == ErrCodeUnknown && self.While == `` && self.Cause == nil {
		return ``
	}
	msg := `[sqlb]`
	if self.Code != ErrCodeUnknown {
		msg += ` ` + string(self.Code)
	} else {
		msg += ` error`
	}
	if self.While != `` {
		msg += ` while ` + self.While
	}
	if self.Cause != nil {
		msg += `: ` + self.Cause.Error()
	}
	return msg
}

// Implement a hidden interface in "errors".
func (self Err) Is(other error) bool {
	if self.Cause != nil && errors.Is(self.Cause, other) {
		return true
	}
	err, ok := other.(Err)
	return ok && err.Code != ErrCodeUnknown && err.Code == self.Code
}

// Implement a hidden interface in "errors".
func (self Err) Unwrap() error { return self.Cause }

func errf(pattern string, args ...any) error { return fmt.Errorf(pattern, args...) }

func errInvalidInput(while string, cause error) Err {
	return Err{Code: ErrCodeInvalidInput, While: while, Cause: cause}
}

func errMissingOrdinal(val OrdinalParam) Err {
	return Err{
		Code:  ErrCodeMissingArgument,
		While: `building SQL expression`,
		Cause: errf(`missing ordinal argument %q (index %v)`, val, val.Index()),
	}
}

func errMissingNamed(val string) Err {
	return Err{
		Code:  ErrCodeMissingArgument,
		While: `building SQL expression`,
		Cause: errf(`missing named argument %q`, val),
	}
}

func errMissingArgs(while string) Err {
	return Err{
		Code:  ErrCodeMissingArgument,
		While: while,
		Cause: errors.New(`expected arguments, got none`),
	}
}

func errUnexpectedArgs(while string, dict ArgDict) Err {
	return Err{
		Code:  ErrCodeUnexpectedParameter,
		While: while,
		Cause: errf(`expected no arguments, got %#v`, dict),
	}
}

func errUnusedOrdinal(val OrdinalParam) Err {
	return Err{
		Code:  ErrCodeUnusedArgument,
		While: `building SQL expression`,
		Cause: errf(`unused ordinal argument %q (index %v)`, val, val.Index()),
	}
}

func errUnusedNamed(val string) Err {
	return Err{
		Code:  ErrCodeUnusedArgument,
		While: `building SQL expression`,
		Cause: errf(`unused named argument %q`, val),
	}
}

func errOrdinalOutOfBounds(while string, val OrdinalParam, count int) Err {
	return Err{
		Code:  ErrCodeOrdinalOutOfBounds,
		While: while,
		Cause: errf(`ordinal parameter %v exceeds argument count %v`, val, count),
	}
}

func errUnknownField(while, name, typ string) Err {
	return Err{
		Code:  ErrCodeUnknownField,
		While: while,
		Cause: errf(`no DB field corresponding to %q in type %v`, name, typ),
	}
}
