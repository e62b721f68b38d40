package ingestion

import "fmt"

// ExtractionError describes why a document produced no usable text
type ExtractionError struct {
	Document string
	Message  string
	Cause    error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed for %s: %s: %v", e.Document, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed for %s: %s", e.Document, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
