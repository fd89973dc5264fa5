package prediction

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotLoaded is returned at prediction time when the model bundle never
	// finished loading. Fatal to the request, not to the process.
	ErrNotLoaded = errors.New("model bundle not loaded")

	ErrArtifactMissing = errors.New("model artifact missing")
	ErrArtifactCorrupt = errors.New("model artifact corrupt")

	// ErrPersistence wraps storage failures. The prediction itself already
	// succeeded when this is returned.
	ErrPersistence = errors.New("failed to persist patient analysis")
)

// SchemaError reports intake fields that are required by the model schema but
// could not be coerced to a numeric value.
type SchemaError struct {
	Fields []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("non-numeric values for required fields: %s", strings.Join(e.Fields, ", "))
}
