package validation

import "errors"

// Result is the outcome of validating one document. Err is nil when the
// document is valid.
type Result struct {
	File string
	Err  error
}

func (r Result) Valid() bool {
	return r.Err == nil
}

// Message renders Err the way it is printed next to the file name.
func (r Result) Message() string {
	if r.Err == nil {
		return ""
	}
	return Describe(r.Err)
}

// Describe renders a per-file error. Parse errors and violations print as
// they are; everything else is reported as unexpected.
func Describe(err error) string {
	var parseErr *ParseError
	var violationErr *ViolationError

	switch {
	case errors.As(err, &parseErr):
		return parseErr.Error()
	case errors.As(err, &violationErr):
		return violationErr.Error()
	default:
		return "Unexpected error: " + err.Error()
	}
}
