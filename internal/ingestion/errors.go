package ingestion

import "fmt"

// UnsupportedInputError is returned when a document cannot be converted to text.
// Message is safe to show to the person who uploaded the file.
type UnsupportedInputError struct {
	Filename string
	Format   Format
	Reason   string
	Cause    error
}

func (e *UnsupportedInputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unsupported input %q: %s: %v", e.Filename, e.Reason, e.Cause)
	}
	return fmt.Sprintf("unsupported input %q: %s", e.Filename, e.Reason)
}

func (e *UnsupportedInputError) Unwrap() error {
	return e.Cause
}

// Message returns the user-facing explanation without internal error detail.
func (e *UnsupportedInputError) Message() string {
	return "We could not read this resume: " + e.Reason + ". Please upload a PDF, DOCX or plain text file, or paste the text directly."
}
