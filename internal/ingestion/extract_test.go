package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePages struct {
	pages []string
	fail  map[int]bool
	panic map[int]bool
	calls []int
}

func (f *fakePages) NumPage() int { return len(f.pages) }

func (f *fakePages) PageText(i int) (string, error) {
	f.calls = append(f.calls, i)
	if f.panic[i] {
		panic("broken xref")
	}
	if f.fail[i] {
		return "", errors.New("bad font")
	}
	return f.pages[i-1], nil
}

func newFakeExtractor(opts Options, pages *fakePages) *Extractor {
	e := NewExtractor(opts, nil)
	e.openPDF = func([]byte) (pageSource, error) { return pages, nil }
	return e
}

func pdfDoc(name string) Document {
	return NewDocument(name, []byte("%PDF-1.4 fake"), MIMETypePDF)
}

// buildPDF writes a minimal PDF with one line of Helvetica text per page.
func buildPDF(pages ...string) []byte {
	var buf bytes.Buffer
	var offsets []int
	object := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	fontID := 3 + 2*len(pages)
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	object("<< /Type /Catalog /Pages 2 0 R >>")
	object(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	for i, text := range pages {
		object(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontID, 4+2*i))
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		object(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}
	object("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func TestExtract_PlainText(t *testing.T) {
	e := NewExtractor(DefaultOptions(), nil)

	got := e.Extract(NewDocument("cv.txt", []byte("Senior  PYTHON Developer\r\nReact"), ""))

	assert.False(t, got.Degraded)
	assert.NoError(t, got.Err)
	assert.Equal(t, MethodPlainText, got.Method)
	assert.Equal(t, "senior python developer\nreact", got.Text)
}

func TestExtract_TruncatesToBudget(t *testing.T) {
	e := NewExtractor(Options{MaxChars: 10}, nil)

	got := e.Extract(NewDocument("cv.txt", []byte(strings.Repeat("abc ", 100)), MIMETypePlain))

	assert.Len(t, []rune(got.Text), 10)
}

func TestExtract_DefaultBudget(t *testing.T) {
	e := NewExtractor(Options{}, nil)

	got := e.Extract(NewDocument("cv.txt", []byte(strings.Repeat("x", 5000)), ""))

	assert.Len(t, got.Text, DefaultMaxChars)
}

func TestExtract_EmptyDocument(t *testing.T) {
	e := NewExtractor(DefaultOptions(), nil)

	tests := []struct {
		name string
		doc  Document
	}{
		{"no reader", Document{Name: "nil.pdf"}},
		{"zero bytes", NewDocument("empty.txt", nil, "")},
		{"whitespace", NewDocument("blank.txt", []byte(" \n\t "), "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.doc)
			assert.True(t, got.Degraded)
			assert.Empty(t, got.Text)

			var extractionErr *ExtractionError
			require.ErrorAs(t, got.Err, &extractionErr)
			assert.Equal(t, tt.doc.Name, extractionErr.Document)
		})
	}
}

func TestExtract_CorruptBinary(t *testing.T) {
	e := NewExtractor(DefaultOptions(), nil)

	got := e.Extract(NewDocument("broken.pdf", []byte{0xff, 0xfe, 0x00, 0x81, 0x9f, 0x01}, ""))

	assert.True(t, got.Degraded)
	assert.Empty(t, got.Text)
	assert.Error(t, got.Err)
}

func TestExtract_TextNamedAsPDF(t *testing.T) {
	e := NewExtractor(DefaultOptions(), nil)

	got := e.Extract(NewDocument("cv.pdf", []byte("Experienced Python Developer"), MIMETypePDF))

	require.False(t, got.Degraded)
	assert.NoError(t, got.Err)
	assert.Equal(t, MethodPlainText, got.Method)
	assert.Equal(t, "experienced python developer", got.Text)
}

func TestExtract_TruncatedPDF(t *testing.T) {
	e := NewExtractor(DefaultOptions(), nil)
	data := buildPDF("Python Developer")

	got := e.Extract(NewDocument("cut.pdf", data[:len(data)/2], MIMETypePDF))

	assert.True(t, got.Degraded)
	assert.Empty(t, got.Text)
	var extractionErr *ExtractionError
	require.ErrorAs(t, got.Err, &extractionErr)
	assert.Equal(t, "failed to open PDF", extractionErr.Message)
}

func TestExtract_RealPDF(t *testing.T) {
	e := NewExtractor(DefaultOptions(), nil)

	got := e.Extract(NewDocument("cv.pdf", buildPDF("Python Developer", "React Skills"), ""))

	require.False(t, got.Degraded, "%v", got.Err)
	assert.Equal(t, MethodPDF, got.Method)
	assert.Equal(t, 2, got.PagesRead)
	assert.Contains(t, got.Text, "python developer")
	assert.Contains(t, got.Text, "react skills")
	assert.Equal(t, strings.ToLower(got.Text), got.Text)
}

func TestExtract_RealPDFStopsAtPageLimit(t *testing.T) {
	e := NewExtractor(Options{MaxPages: 3}, nil)
	data := buildPDF("Python Developer", "React Skills", "Docker", "Kubernetes")

	got := e.Extract(NewDocument("long.pdf", data, MIMETypePDF))

	require.False(t, got.Degraded, "%v", got.Err)
	assert.Equal(t, 3, got.PagesRead)
	assert.Contains(t, got.Text, "python developer")
	assert.Contains(t, got.Text, "react skills")
	assert.Contains(t, got.Text, "docker")
	assert.NotContains(t, got.Text, "kubernetes")
}

func TestExtract_PDFPages(t *testing.T) {
	pages := &fakePages{pages: []string{"Page One GO", "Page Two SQL"}}
	e := newFakeExtractor(DefaultOptions(), pages)

	got := e.Extract(pdfDoc("cv.pdf"))

	require.False(t, got.Degraded)
	assert.Equal(t, MethodPDF, got.Method)
	assert.Equal(t, 2, got.PagesRead)
	assert.Equal(t, "page one go\npage two sql", got.Text)
}

func TestExtract_PDFSkipsFailingPages(t *testing.T) {
	pages := &fakePages{
		pages: []string{"first", "broken", "third"},
		fail:  map[int]bool{2: true},
	}
	e := newFakeExtractor(DefaultOptions(), pages)

	got := e.Extract(pdfDoc("cv.pdf"))

	require.False(t, got.Degraded)
	assert.Equal(t, 2, got.PagesRead)
	assert.Equal(t, 1, got.PagesSkipped)
	assert.Equal(t, "first\nthird", got.Text)
}

func TestExtract_PDFRecoversPagePanic(t *testing.T) {
	pages := &fakePages{
		pages: []string{"boom", "survivor"},
		panic: map[int]bool{1: true},
	}
	e := newFakeExtractor(DefaultOptions(), pages)

	got := e.Extract(pdfDoc("cv.pdf"))

	require.False(t, got.Degraded)
	assert.Equal(t, "survivor", got.Text)
}

func TestExtract_PDFPageLimit(t *testing.T) {
	pages := &fakePages{pages: []string{"a", "b", "c", "d", "e"}}
	e := newFakeExtractor(Options{MaxPages: 3}, pages)

	got := e.Extract(pdfDoc("cv.pdf"))

	assert.Equal(t, []int{1, 2, 3}, pages.calls)
	assert.Equal(t, "a\nb\nc", got.Text)
}

func TestExtract_PDFStopsAtCharBudget(t *testing.T) {
	pages := &fakePages{pages: []string{strings.Repeat("a", 50), "b", "c"}}
	e := newFakeExtractor(Options{MaxChars: 20, MaxPages: 3}, pages)

	got := e.Extract(pdfDoc("cv.pdf"))

	assert.Equal(t, []int{1}, pages.calls)
	assert.Len(t, got.Text, 20)
}

func TestExtract_PDFAllPagesFail(t *testing.T) {
	pages := &fakePages{
		pages: []string{"x", "y"},
		fail:  map[int]bool{1: true, 2: true},
	}
	e := newFakeExtractor(DefaultOptions(), pages)

	got := e.Extract(pdfDoc("cv.pdf"))

	assert.True(t, got.Degraded)
	assert.Empty(t, got.Text)
}

func TestExtract_PDFOpenPanic(t *testing.T) {
	e := NewExtractor(DefaultOptions(), nil)
	e.openPDF = func([]byte) (pageSource, error) { panic("malformed trailer") }

	got := e.Extract(pdfDoc("cv.pdf"))

	assert.True(t, got.Degraded)
	assert.Contains(t, got.Err.Error(), "panic")
}
