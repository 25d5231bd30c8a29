package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractDocumentTxt(t *testing.T) {
	path := writeDoc(t, "notes.txt", "  plain text notes\nwith two lines  \n")
	text, format, err := ExtractDocument(path)
	if err != nil {
		t.Fatalf("ExtractDocument: %v", err)
	}
	if format != "txt" {
		t.Errorf("format = %q", format)
	}
	if text != "plain text notes\nwith two lines" {
		t.Errorf("text = %q", text)
	}
}

func TestExtractDocumentMarkdownStripsMarkers(t *testing.T) {
	path := writeDoc(t, "post.md", "# Heading\n\nSome **bold** text and a [link](https://example.com).\n")
	text, format, err := ExtractDocument(path)
	if err != nil {
		t.Fatalf("ExtractDocument: %v", err)
	}
	if format != "markdown" {
		t.Errorf("format = %q", format)
	}
	for _, marker := range []string{"#", "**", "]("} {
		if strings.Contains(text, marker) {
			t.Errorf("markdown marker %q leaked into %q", marker, text)
		}
	}
	if !strings.Contains(text, "Heading") || !strings.Contains(text, "bold") {
		t.Errorf("content lost: %q", text)
	}
}

func TestExtractDocumentHTMLSkipsScripts(t *testing.T) {
	path := writeDoc(t, "page.html",
		`<html><head><title>T</title><script>var x = "secret";</script></head><body><p>Visible body.</p><style>.a{}</style></body></html>`)
	text, _, err := ExtractDocument(path)
	if err != nil {
		t.Fatalf("ExtractDocument: %v", err)
	}
	if strings.Contains(text, "secret") {
		t.Errorf("script content leaked: %q", text)
	}
	if !strings.Contains(text, "Visible body.") {
		t.Errorf("body text missing: %q", text)
	}
}

func TestExtractDocumentUnsupported(t *testing.T) {
	path := writeDoc(t, "data.bin", "\x00\x01")
	if _, _, err := ExtractDocument(path); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestIsDocumentPath(t *testing.T) {
	for _, p := range []string{"a.txt", "b.MD", "c.markdown", "d.html", "e.htm"} {
		if !IsDocumentPath(p) {
			t.Errorf("IsDocumentPath(%q) = false", p)
		}
	}
	for _, p := range []string{"a.pdf", "b.csv", "c"} {
		if IsDocumentPath(p) {
			t.Errorf("IsDocumentPath(%q) = true", p)
		}
	}
}
