package pipeline

import (
	"errors"
	"fmt"
	"net/http"
)

// Stage is a step of the conversion.
type Stage int

const (
	StageFetching Stage = iota
	StageParsing
	StageAssembling
)

// String implements fmt.Stringer
func (s Stage) String() string {
	switch s {
	case StageFetching:
		return "fetching"
	case StageParsing:
		return "parsing"
	case StageAssembling:
		return "assembling"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Error reports the stage at which a conversion failed.
type Error struct {
	Stage Stage
	URL   string
	Err   error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.URL != "" {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// StatusError is returned for responses with a non-success status code.
type StatusError struct {
	Code int
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d %s", e.Code, http.StatusText(e.Code))
}

// StageOf returns the stage of a conversion error and whether err carries one.
func StageOf(err error) (Stage, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Stage, true
	}
	return 0, false
}
