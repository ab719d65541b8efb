// Package extract reads plain text out of resume and job description documents.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for extensions outside the allow-list.
var ErrUnsupportedFormat = errors.New("unsupported file format, expected pdf, docx or doc")

// SupportedExtensions lists the accepted file extensions, including the leading dot.
var SupportedExtensions = []string{".pdf", ".docx", ".doc"}

// Extract reads the file at path and returns its text content.
// The extension is checked before the file is opened.
func Extract(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !Supported(ext) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}

	return ExtractBytes(content, ext)
}

// ExtractBytes extracts text from content based on ext (e.g. ".pdf").
func ExtractBytes(content []byte, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return extractPDF(content)
	case ".docx", ".doc":
		return extractDOCX(content)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Supported reports whether ext is on the allow-list.
func Supported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, allowed := range SupportedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
