package ingestion

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDocument(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "alice.txt")
	pdfPath := filepath.Join(dir, "bob.PDF")
	require.NoError(t, os.WriteFile(txt, []byte("go developer"), 0644))
	require.NoError(t, os.WriteFile(pdfPath, []byte("%PDF-1.4"), 0644))

	doc, err := OpenDocument(txt)
	require.NoError(t, err)
	assert.Equal(t, "alice.txt", doc.Name)
	assert.Equal(t, MIMETypePlain, doc.MIMEType)
	data, err := io.ReadAll(doc.Reader)
	require.NoError(t, err)
	assert.Equal(t, "go developer", string(data))

	doc, err = OpenDocument(pdfPath)
	require.NoError(t, err)
	assert.Equal(t, MIMETypePDF, doc.MIMEType)
}

func TestOpenDocument_MissingFile(t *testing.T) {
	_, err := OpenDocument("/nonexistent/a.pdf")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read resume")
}

func TestOpenDocument_TextWithPDFExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("Python developer"), 0644))

	doc, err := OpenDocument(path)
	require.NoError(t, err)
	got := NewExtractor(DefaultOptions(), nil).Extract(doc)

	assert.Equal(t, MethodPlainText, got.Method)
	assert.Equal(t, "python developer", got.Text)
}

func TestDetectMIMEType(t *testing.T) {
	assert.Equal(t, MIMETypePDF, DetectMIMEType([]byte("%PDF-1.7\n%âãÏÓ\n")))
	assert.Equal(t, MIMETypePlain, DetectMIMEType([]byte("plain words here")))
}
