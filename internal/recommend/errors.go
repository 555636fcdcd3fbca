package recommend

import (
	"fmt"
	"strings"

	"github.com/jonathan/internmatch/internal/types"
)

// ValidationError reports profile fields that must be present before any
// source is queried.
type ValidationError struct {
	Fields []types.ProfileField
	// Extracted is set when the fields were derived from resume text rather
	// than submitted directly.
	Extracted bool
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	if e.Extracted {
		return fmt.Sprintf("could not find %s in the resume", strings.Join(names, ", "))
	}
	return fmt.Sprintf("missing required fields: %s", strings.Join(names, ", "))
}
