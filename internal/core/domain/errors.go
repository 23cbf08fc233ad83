package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCaseNotFound     = errors.New("case not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrTemporary        = errors.New("temporary failure")

	// Pipeline taxonomy.
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrExtractionFailed   = errors.New("text extraction failed")
	ErrBackendUnavailable = errors.New("llm backend unavailable")
	ErrUnknownDraftKind   = errors.New("unknown draft kind")
	ErrMoveFailed         = errors.New("file move failed")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
