package common

import (
	"errors"
	"fmt"
)

var (
	ErrValidation                       = errors.New("invalid descriptor")
	ErrMissingFile                      = errors.New("file not found")
	ErrIO                               = errors.New("cannot read descriptor")
	ErrHistoryUnavailable               = errors.New("history unavailable")
	ErrIndexingProcessHasAlreadyStarted = errors.New("indexing process has already started")
)

// ValidationError names the descriptor field that failed a check.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
	}

	return fmt.Sprintf("field %q: %s (got %v)", e.Field, e.Reason, e.Value)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// MissingFileError reports a declared tool file that does not exist.
type MissingFileError struct {
	Kind string // "main" or "additional"
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s file %q not found", e.Kind, e.Path)
}

func (e *MissingFileError) Is(target error) bool {
	return target == ErrMissingFile
}
