// Package extraction derives a CandidateProfile from free-form resume text.
package extraction

import (
	"github.com/jonathan/internmatch/internal/ingestion"
	"github.com/jonathan/internmatch/internal/patterns"
	"github.com/jonathan/internmatch/internal/types"
)

// Extractor applies a pattern Library to resume text.
type Extractor struct {
	lib *patterns.Library
}

// New creates an Extractor over lib. A nil lib uses patterns.Default().
func New(lib *patterns.Library) *Extractor {
	if lib == nil {
		lib = patterns.Default()
	}
	return &Extractor{lib: lib}
}

// Extract never fails: fields no strategy matched are left empty.
func (e *Extractor) Extract(text string) types.CandidateProfile {
	text = ingestion.CleanText(text)
	if text == "" {
		return types.CandidateProfile{}
	}

	p := types.CandidateProfile{
		Email:          patterns.FirstMatch(e.lib.Email, text),
		Phone:          patterns.FirstMatch(e.lib.Phone, text),
		Name:           patterns.FirstMatch(e.lib.Name, text),
		Location:       patterns.FirstMatch(e.lib.Location, text),
		Skills:         patterns.FirstMatch(e.lib.Skills, text),
		Experience:     patterns.FirstMatch(e.lib.Experience, text),
		ProjectSummary: patterns.FirstMatch(e.lib.Projects, text),
		PreferredRole:  patterns.FirstMatch(e.lib.PreferredRole, text),
	}
	if city, ok := e.lib.CityIn(p.Location); ok {
		p.City = city
	}
	return p
}

var defaultExtractor = New(nil)

// Extract runs the default extractor.
func Extract(text string) types.CandidateProfile {
	return defaultExtractor.Extract(text)
}
