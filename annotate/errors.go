package annotate

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineInit is matched by every error returned from New.
	ErrEngineInit = errors.New("engine initialization failed")

	// ErrAnnotation is matched by every error returned from Annotate.
	ErrAnnotation = errors.New("annotation failed")
)

// InitError is returned when the engine can not be configured with the given
// models.
type InitError struct {
	// Model is the offending model path, if known.
	Model string
	Err   error
}

func (e *InitError) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("%s: model %q: %v", ErrEngineInit, e.Model, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrEngineInit, e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

func (e *InitError) Is(target error) bool { return target == ErrEngineInit }

// AnnotationError is returned when the engine fails to analyse a text. Err
// carries the engine diagnostic.
type AnnotationError struct {
	Err error
}

func (e *AnnotationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrAnnotation, e.Err)
}

func (e *AnnotationError) Unwrap() error { return e.Err }

func (e *AnnotationError) Is(target error) bool { return target == ErrAnnotation }
