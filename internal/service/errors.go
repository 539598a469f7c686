package service

import (
	"errors"

	"github.com/matthewbaird/schemagen/internal/analyzer"
	"github.com/matthewbaird/schemagen/internal/render"
	"github.com/matthewbaird/schemagen/internal/schema"
)

// Kind classifies a generation failure.
type Kind string

const (
	KindMalformed          Kind = "malformed"
	KindUnsupportedType    Kind = "unsupported_type"
	KindUnknownTarget      Kind = "unknown_target"
	KindUnsupportedDefault Kind = "unsupported_default"
	KindSessionNotFound    Kind = "session_not_found"
	KindInternal           Kind = "internal"
)

// Classify maps an error from this package or the generator onto a Kind.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, schema.ErrMalformed):
		return KindMalformed
	case errors.Is(err, analyzer.ErrUnsupportedType):
		return KindUnsupportedType
	case errors.Is(err, render.ErrUnknownTarget):
		return KindUnknownTarget
	case errors.Is(err, render.ErrUnsupportedDefault):
		return KindUnsupportedDefault
	case errors.Is(err, ErrSessionNotFound):
		return KindSessionNotFound
	}
	return KindInternal
}
