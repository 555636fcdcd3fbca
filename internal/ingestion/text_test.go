package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText_PreserveBulletLists(t *testing.T) {
	input := "- Go\n- Docker\n* Redis\n  • nested"
	result := CleanText(input)

	assert.Contains(t, result, "- Go")
	assert.Contains(t, result, "- Docker")
	assert.Contains(t, result, "* Redis")
	assert.Contains(t, result, "  • nested")
}

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	input := "Skills:    React,    Node.js\t\tGo"
	result := CleanText(input)

	assert.Equal(t, "Skills: React, Node.js Go", result)
}

func TestCleanText_StripsLeadingIndentOnText(t *testing.T) {
	assert.Equal(t, "Name: Asha Rao\nCity: Pune", CleanText("    Name: Asha Rao\n\tCity: Pune"))
}

func TestCleanText_NonBreakingSpaces(t *testing.T) {
	assert.Equal(t, "Asha Rao", CleanText("Asha\u00a0Rao"))
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	input := "Line 1\n\n\n\n\nLine 2\n \n\t\nLine 3"
	result := CleanText(input)

	assert.Equal(t, "Line 1\n\nLine 2\n\nLine 3", result)
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	input := "Line 1\r\nLine 2\rLine 3\nLine 4"
	result := CleanText(input)

	assert.Equal(t, "Line 1\nLine 2\nLine 3\nLine 4", result)
}

func TestCleanText_DeterministicOutput(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	assert.Equal(t, CleanText(input), CleanText(input))
}

func TestCleanText_EmptyInput(t *testing.T) {
	assert.Empty(t, CleanText(""))
	assert.Empty(t, CleanText("   \n  \n  "))
}

func TestCleanText_SpecialCharacters(t *testing.T) {
	input := "Test with émojis 🚀 and spéciàl chàracters"
	result := CleanText(input)

	assert.Contains(t, result, "émojis")
	assert.Contains(t, result, "🚀")
	assert.Contains(t, result, "spéciàl chàracters")
}

func TestIngestFromFile_Success(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "resume.txt")
	require.NoError(t, os.WriteFile(testFile, []byte("Name: Asha Rao\r\n\r\n\r\nSkills: Go"), 0644))

	cleanedText, metadata, err := IngestFromFile(testFile)
	require.NoError(t, err)

	assert.Equal(t, "Name: Asha Rao\n\nSkills: Go", cleanedText)
	require.NotNil(t, metadata)
	assert.Equal(t, "resume.txt", metadata.Filename)
	assert.Equal(t, FormatText, metadata.Format)
	assert.Len(t, metadata.Hash, 64)
	assert.NotEmpty(t, metadata.Timestamp)
	assert.Equal(t, len([]rune(cleanedText)), metadata.Chars)
}

func TestIngestFromFile_FileNotFound(t *testing.T) {
	cleanedText, metadata, err := IngestFromFile("/nonexistent/file.txt")

	assert.Error(t, err)
	assert.Empty(t, cleanedText)
	assert.Nil(t, metadata)
	assert.Contains(t, err.Error(), "file not found")
}

func TestIngest_HashStability(t *testing.T) {
	_, m1, err := Ingest("a.txt", []byte("Content 1"))
	require.NoError(t, err)
	_, m2, err := Ingest("b.txt", []byte("Content 1"))
	require.NoError(t, err)
	_, m3, err := Ingest("c.txt", []byte("Content 2"))
	require.NoError(t, err)

	assert.Equal(t, m1.Hash, m2.Hash)
	assert.NotEqual(t, m1.Hash, m3.Hash)
}

func TestIngest_WhitespaceOnlyDocument(t *testing.T) {
	_, _, err := Ingest("blank.txt", []byte(" \n\t\n"))

	var unsupported *UnsupportedInputError
	require.ErrorAs(t, err, &unsupported)
	assert.Contains(t, unsupported.Message(), "no readable text")
}

func TestMetadata_ToJSON(t *testing.T) {
	m := NewMetadata("hello", "cv.pdf", FormatPDF)

	data, err := m.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"format": "pdf"`)
	assert.Contains(t, string(data), `"chars": 5`)
}
