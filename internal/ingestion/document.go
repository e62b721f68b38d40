package ingestion

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Supported MIME types
const (
	MIMETypePDF   = "application/pdf"
	MIMETypePlain = "text/plain"
)

// Document is a named byte stream handed to the extractor.
// MIMEType is advisory: the extractor routes on the sniffed content type.
type Document struct {
	Name     string
	MIMEType string
	Reader   io.Reader
}

// NewDocument wraps in-memory content as a Document.
func NewDocument(name string, data []byte, mimeType string) Document {
	return Document{
		Name:     name,
		MIMEType: mimeType,
		Reader:   bytes.NewReader(data),
	}
}

// OpenDocument reads a file into a Document named after the file's base name.
// The MIME type is taken from the extension when it is known.
func OpenDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read resume %s: %w", path, err)
	}

	var mimeType string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		mimeType = MIMETypePDF
	case ".txt", ".md":
		mimeType = MIMETypePlain
	}

	return NewDocument(filepath.Base(path), data, mimeType), nil
}

// DetectMIMEType sniffs data, ignoring any declared type or file extension.
func DetectMIMEType(data []byte) string {
	mime := mimetype.Detect(data)
	if mime.Is(MIMETypePDF) {
		return MIMETypePDF
	}
	if strings.HasPrefix(mime.String(), "text/") {
		return MIMETypePlain
	}
	return mime.String()
}
