// Package parser turns raw document bytes into pages of positioned text
// runs with font metadata. It is the collaborator-facing edge of the
// pipeline; classification itself never touches file formats.
package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/bookstruct/bookstruct/internal/book"
)

// Extractor converts raw document bytes into a run Document.
type Extractor interface {
	Extract(r io.Reader, filename string) (*book.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
