// Package textsource turns resume documents, OCR responses and job posting
// pages into the plain text the keyword matcher consumes.
package textsource

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"mime"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimePlain = "text/plain"
	MimePDF   = "application/pdf"
	MimeDocx  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// MaxExtractedChars caps the resume text kept from any document.
	MaxExtractedChars = 20000
	// MinTextChars is the shortest extracted text that is not treated as a
	// scanned (image only) PDF.
	MinTextChars = 80
)

var ErrUnsupportedMime = errors.New("unsupported file type")

var (
	// paragraph, break and tab elements separate words; run boundaries do not
	docxBreakRe = regexp.MustCompile(`</w:p>|<w:br\b[^>]*/?>|<w:tab\b[^>]*/?>|<w:cr\b[^>]*/?>`)
	xmlTagRe    = regexp.MustCompile(`<[^>]+>`)
)

// ExtractResumeText returns the text content of a resume file.
func ExtractResumeText(mimeType string, data []byte) (string, error) {
	switch baseMime(mimeType) {
	case MimePlain:
		return string(data), nil

	case MimePDF:
		return extractPDFText(bytes.NewReader(data), int64(len(data)))

	case MimeDocx:
		return extractDocxText(bytes.NewReader(data), int64(len(data)))

	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMime, mimeType)
	}
}

func baseMime(m string) string {
	mt, _, err := mime.ParseMediaType(m)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(m))
	}
	return mt
}

func extractPDFText(reader io.ReaderAt, size int64) (string, error) {
	pdfReader, err := pdf.NewReader(reader, size)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}
	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

func extractDocxText(reader io.ReaderAt, size int64) (string, error) {
	doc, err := docx.ReadDocxFromMemory(reader, size)
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return docxPlainText(doc.Editable().GetContent()), nil
}

// docxPlainText strips the WordprocessingML markup around the text runs.
func docxPlainText(content string) string {
	text := docxBreakRe.ReplaceAllString(content, " ")
	text = xmlTagRe.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(html.UnescapeString(text)), " ")
}

// NeedsOCR reports whether extracted text is too short to be a text PDF.
func NeedsOCR(text string) bool {
	return len([]rune(strings.TrimSpace(text))) < MinTextChars
}

// ClampExtracted trims text and caps it at MaxExtractedChars runes.
func ClampExtracted(text string) string {
	text = strings.TrimSpace(text)
	r := []rune(text)
	if len(r) > MaxExtractedChars {
		return string(r[:MaxExtractedChars])
	}
	return text
}
