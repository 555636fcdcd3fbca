package ingestion

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Format identifies a supported document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatText Format = "text"
)

// MaxDocumentSize bounds uploads accepted by Convert.
const MaxDocumentSize = 10 << 20

var (
	xmlTagRe     = regexp.MustCompile(`<[^>]+>`)
	xmlParaEndRe = regexp.MustCompile(`</w:p>|<w:br/>|<w:cr/>`)
)

// DetectFormat chooses a format from the file extension, falling back to content sniffing.
func DetectFormat(filename string, data []byte) (Format, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, true
	case ".docx":
		return FormatDOCX, true
	case ".txt", ".md", ".text":
		return FormatText, true
	case "":
	default:
		return "", false
	}

	sniff := http.DetectContentType(data)
	switch {
	case sniff == "application/pdf":
		return FormatPDF, true
	case strings.HasPrefix(sniff, "text/plain"):
		return FormatText, true
	}
	return "", false
}

// Convert extracts raw text from a PDF, DOCX or plain-text document. Any failure is
// reported as an *UnsupportedInputError.
func Convert(filename string, data []byte) (Format, string, error) {
	if len(data) == 0 {
		return "", "", &UnsupportedInputError{Filename: filename, Reason: "the file is empty"}
	}
	if len(data) > MaxDocumentSize {
		return "", "", &UnsupportedInputError{Filename: filename, Reason: "the file is larger than 10 MB"}
	}

	format, ok := DetectFormat(filename, data)
	if !ok {
		return "", "", &UnsupportedInputError{Filename: filename, Reason: "only PDF, DOCX and text files are supported"}
	}

	var (
		text string
		err  error
	)
	switch format {
	case FormatPDF:
		text, err = pdfText(data)
	case FormatDOCX:
		text, err = docxText(data)
	default:
		if !utf8.Valid(data) {
			err = errors.New("invalid UTF-8")
		}
		text = string(data)
	}
	if err != nil {
		return format, "", &UnsupportedInputError{
			Filename: filename,
			Format:   format,
			Reason:   fmt.Sprintf("the %s file could not be read", format),
			Cause:    err,
		}
	}
	return format, text, nil
}

func pdfText(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	rs, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, rs); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var doc []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		doc, err = io.ReadAll(io.LimitReader(rc, MaxDocumentSize))
		_ = rc.Close()
		if err != nil {
			return "", err
		}
		break
	}
	if len(doc) == 0 {
		return "", errors.New("no word/document.xml found in docx")
	}

	s := xmlParaEndRe.ReplaceAllString(string(doc), "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")
	s = xmlTagRe.ReplaceAllString(s, "")
	return html.UnescapeString(s), nil
}
