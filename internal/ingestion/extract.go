// Package ingestion turns resume documents and job description files into bounded, normalized text.
package ingestion

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-evaluator/internal/logger"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

const (
	// DefaultMaxChars is the resume text budget
	DefaultMaxChars = 3000
	// DefaultMaxPages bounds how many PDF pages are read
	DefaultMaxPages = 3
	// maxDocumentBytes caps how much of a document stream is read
	maxDocumentBytes = 20 << 20
)

// Method names the path that produced an extraction
type Method string

// Extraction methods
const (
	MethodPlainText Method = "plain_text"
	MethodPDF       Method = "pdf"
	MethodNone      Method = "none"
)

// Options bounds extraction work
type Options struct {
	MaxChars int
	MaxPages int
}

// DefaultOptions returns the default extraction budget.
func DefaultOptions() Options {
	return Options{MaxChars: DefaultMaxChars, MaxPages: DefaultMaxPages}
}

// Extraction is the outcome of reading one document.
// Text is empty only when Degraded is true.
type Extraction struct {
	Text         string
	Method       Method
	PagesRead    int
	PagesSkipped int
	Degraded     bool
	Err          error
}

// pageSource is the paginated view of a document used by the PDF path
type pageSource interface {
	NumPage() int
	PageText(i int) (string, error)
}

// Extractor reads documents within a character and page budget
type Extractor struct {
	opts    Options
	logger  *zap.Logger
	openPDF func(data []byte) (pageSource, error)
}

// NewExtractor creates an Extractor. Zero option values take defaults.
func NewExtractor(opts Options, log *zap.Logger) *Extractor {
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = DefaultMaxPages
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{opts: opts, logger: log, openPDF: openLedongthucPDF}
}

// Extract returns lowercase text truncated to the character budget.
// It never fails: unreadable documents yield an empty, degraded Extraction.
func (e *Extractor) Extract(doc Document) Extraction {
	if doc.Reader == nil {
		return e.degrade(doc, "document has no content", nil)
	}

	data, err := io.ReadAll(io.LimitReader(doc.Reader, maxDocumentBytes))
	if err != nil {
		return e.degrade(doc, "failed to read document", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return e.degrade(doc, "document is empty", nil)
	}

	sniffed := DetectMIMEType(data)
	if doc.MIMEType != "" && doc.MIMEType != sniffed {
		e.logger.Debug("declared type differs from content",
			zap.String(logger.FieldResume, doc.Name),
			zap.String("declared", doc.MIMEType),
			zap.String("detected", sniffed))
	}
	if sniffed != MIMETypePDF && utf8.Valid(data) {
		text := e.finish(string(data))
		if text == "" {
			return e.degrade(doc, "document contains only whitespace", nil)
		}
		return Extraction{Text: text, Method: MethodPlainText}
	}

	return e.extractPDF(doc, data)
}

func (e *Extractor) extractPDF(doc Document, data []byte) Extraction {
	source, err := e.safeOpen(data)
	if err != nil {
		return e.degrade(doc, "failed to open PDF", err)
	}

	result := Extraction{Method: MethodPDF}
	var sb strings.Builder
	for i := 1; i <= source.NumPage() && result.PagesRead+result.PagesSkipped < e.opts.MaxPages; i++ {
		text, err := safePageText(source, i)
		if err != nil {
			result.PagesSkipped++
			e.logger.Debug("skipping unreadable page",
				zap.String(logger.FieldResume, doc.Name),
				zap.Int("page", i),
				zap.Error(err))
			continue
		}
		result.PagesRead++
		sb.WriteString(text)
		sb.WriteString("\n")
		if sb.Len() >= e.opts.MaxChars {
			break
		}
	}

	result.Text = e.finish(sb.String())
	if result.Text == "" {
		return e.degrade(doc, fmt.Sprintf("no text on %d page(s)", result.PagesRead+result.PagesSkipped), nil)
	}
	return result
}

func (e *Extractor) finish(raw string) string {
	return Truncate(strings.ToLower(CleanText(raw)), e.opts.MaxChars)
}

func (e *Extractor) degrade(doc Document, message string, cause error) Extraction {
	err := &ExtractionError{Document: doc.Name, Message: message, Cause: cause}
	e.logger.Warn("resume text extraction failed", zap.String(logger.FieldResume, doc.Name), zap.Error(err))
	return Extraction{Method: MethodNone, Degraded: true, Err: err}
}

// safeOpen guards against parsers that panic on malformed input.
func (e *Extractor) safeOpen(data []byte) (source pageSource, err error) {
	defer func() {
		if r := recover(); r != nil {
			source, err = nil, fmt.Errorf("pdf parser panic: %v", r)
		}
	}()
	return e.openPDF(data)
}

func safePageText(source pageSource, i int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf page %d panic: %v", i, r)
		}
	}()
	return source.PageText(i)
}

// ledongthucSource adapts pdf.Reader to pageSource
type ledongthucSource struct {
	reader *pdf.Reader
}

func openLedongthucPDF(data []byte) (pageSource, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	return &ledongthucSource{reader: reader}, nil
}

func (s *ledongthucSource) NumPage() int {
	return s.reader.NumPage()
}

func (s *ledongthucSource) PageText(i int) (string, error) {
	page := s.reader.Page(i)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is empty", i)
	}
	return page.GetPlainText(nil)
}
