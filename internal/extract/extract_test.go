package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractUnsupportedFormat(t *testing.T) {
	for _, name := range []string{"resume.txt", "resume", "resume.odt", "notes.md"} {
		_, err := Extract(filepath.Join(t.TempDir(), name))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Fatalf("expected ErrUnsupportedFormat for %s, got %v", name, err)
		}
	}
}

func TestExtractBytesUnsupportedFormat(t *testing.T) {
	if _, err := ExtractBytes([]byte("hello"), ".rtf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractMissingFile(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected read error, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestExtractCorruptDocuments(t *testing.T) {
	for _, ext := range []string{".pdf", ".DOCX", ".doc"} {
		if _, err := ExtractBytes([]byte("not a document"), ext); err == nil {
			t.Fatalf("expected error for corrupt %s", ext)
		}
	}
}

func TestSupported(t *testing.T) {
	cases := map[string]bool{
		".pdf":  true,
		".PDF":  true,
		".docx": true,
		".doc":  true,
		".txt":  false,
		"":      false,
	}
	for ext, want := range cases {
		if got := Supported(ext); got != want {
			t.Fatalf("Supported(%q) = %v, want %v", ext, got, want)
		}
	}
}

func TestDocumentText(t *testing.T) {
	xml := `<w:document><w:body>` +
		`<w:p w:rsidR="00A1"><w:pPr><w:pStyle w:val="Heading1"/></w:pPr>` +
		`<w:r><w:t>Senior </w:t></w:r><w:r><w:t xml:space="preserve">Go Engi</w:t></w:r><w:r><w:t>neer</w:t></w:r></w:p>` +
		`<w:p/>` +
		`<w:p><w:r><w:t>Docker &amp; Kubernetes</w:t></w:r></w:p>` +
		`</w:body></w:document>`

	got := documentText(xml)
	want := "Senior Go Engineer\nDocker & Kubernetes"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestDocumentTextEmpty(t *testing.T) {
	if got := documentText(`<w:document><w:body></w:body></w:document>`); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}
