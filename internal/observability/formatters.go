// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/internmatch/internal/aggregate"
	"github.com/jonathan/internmatch/internal/recommend"
	"github.com/jonathan/internmatch/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// fit pads or truncates s to exactly width runes.
func fit(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-len(r))
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", fit(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", fit(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProfile outputs the extracted candidate profile and the fields that
// were not found.
func (p *Printer) PrintProfile(profile types.CandidateProfile) {
	var sb strings.Builder

	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		sb.WriteString(fmt.Sprintf("%-10s %s\n", label+":", value))
	}
	row("Name", profile.Name)
	row("Email", profile.Email)
	row("Phone", profile.Phone)
	row("Location", profile.Location)
	row("City", profile.City)
	row("Role", profile.PreferredRole)
	row("Experience", profile.Experience)

	if skills := profile.SkillList(); len(skills) > 0 {
		sb.WriteString("\nSkills:\n")
		count := min(len(skills), maxItemsToShow*2)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", skills[i]))
		}
		if len(skills) > count {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-count))
		}
	}

	if missing := profile.MissingFields(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		sb.WriteString("\nNot found: " + strings.Join(names, ", ") + "\n")
	}

	p.printBox("EXTRACTED PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSourceReport outputs one line per queried source.
func (p *Printer) PrintSourceReport(report aggregate.Report) {
	if len(report.Sources) == 0 {
		return
	}

	var sb strings.Builder
	for _, s := range report.Sources {
		status := fmt.Sprintf("%d listings", s.Listings)
		if s.Failed() {
			status = "FAILED: " + s.Error
		}
		name := s.Source
		if s.Fallback {
			name += " (fallback)"
		}
		sb.WriteString(fmt.Sprintf("%-22s %5dms  %s\n", name, s.DurationMS, status))
	}
	sb.WriteString(fmt.Sprintf("\nFetched %d, kept %d after the location filter", report.Total, report.Kept))

	p.printBox("SOURCES", sb.String())
}

// PrintRankedListings outputs the top n listings with their scores.
func (p *Printer) PrintRankedListings(listings []types.RankedListing, n int) {
	if len(listings) == 0 {
		p.printBox("RECOMMENDATIONS", "No matching internships found.")
		return
	}
	if n <= 0 {
		n = maxItemsToShow
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total matches: %d\n\n", len(listings)))

	count := min(len(listings), n)
	for i := 0; i < count; i++ {
		l := listings[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, l.Title))
		sb.WriteString(fmt.Sprintf("    %s · %s · score %d\n", l.Company, l.Location, l.MatchScore))
		sb.WriteString(fmt.Sprintf("    %s\n", l.Link))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(listings) > count {
		sb.WriteString(fmt.Sprintf("\n... and %d more", len(listings)-count))
	}

	p.printBox("RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProgress outputs a one-line progress event.
//
//nolint:errcheck // writing to stderr; errors are not recoverable
func (p *Printer) PrintProgress(event recommend.ProgressEvent) {
	fmt.Fprintf(p.out, "[%s] %s\n", event.Step, event.Message)
}
