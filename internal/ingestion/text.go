// Package ingestion turns uploaded resume documents into clean plain text.
package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	spaceRunRe  = regexp.MustCompile(`\s+`)
	blankRunRe  = regexp.MustCompile(`\n\n\n+`)
	invisibleRe = regexp.MustCompile("[\u00a0\u2007\u202f]")
)

// CleanText cleans and normalizes text content while preserving structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF → LF) and non-breaking spaces
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = invisibleRe.ReplaceAllString(content, " ")

	// 2. Process each line
	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	// 3. Collapse blank runs to a single blank line
	result := blankRunRe.ReplaceAllString(strings.Join(cleanedLines, "\n"), "\n\n")

	return strings.TrimSpace(result)
}

// cleanLine trims a single line and collapses internal whitespace. Bullet markers
// keep their indentation so nested lists stay readable.
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")
	content := spaceRunRe.ReplaceAllString(trimmed, " ")
	if isBulletLine(trimmed) {
		if indent := len(line) - len(trimmed); indent > 0 {
			return strings.Repeat(" ", indent) + content
		}
	}
	return content
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "· ")
}

// IngestFromFile reads a resume document from disk and returns its cleaned text with metadata.
func IngestFromFile(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, fmt.Errorf("file not found: %w", err)
		}
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}

	return Ingest(filepath.Base(path), content)
}

// Ingest converts an in-memory document and cleans the result.
func Ingest(filename string, data []byte) (string, *Metadata, error) {
	format, raw, err := Convert(filename, data)
	if err != nil {
		return "", nil, err
	}

	cleaned := CleanText(raw)
	if cleaned == "" {
		return "", nil, &UnsupportedInputError{
			Filename: filename,
			Format:   format,
			Reason:   "the document contains no readable text",
		}
	}
	return cleaned, NewMetadata(cleaned, filename, format), nil
}
