package engine

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

// Document extensions the extractor accepts.
var documentExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
}

// IsDocumentPath reports whether path looks like a readable document.
func IsDocumentPath(path string) bool {
	return documentExtensions[strings.ToLower(filepath.Ext(path))]
}

// ExtractDocument reads a document file and reduces it to plain text.
// Markdown is rendered to HTML first so formatting markers do not leak
// into prompts. Returns the text and the detected format.
func ExtractDocument(path string) (text, format string, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read document: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt":
		return strings.TrimSpace(string(data)), "txt", nil
	case ".md", ".markdown":
		var buf bytes.Buffer
		if err := goldmark.Convert(data, &buf); err != nil {
			// Plain markdown is still readable text.
			return strings.TrimSpace(string(data)), "markdown", nil
		}
		return htmlToText(buf.Bytes()), "markdown", nil
	case ".html", ".htm":
		return htmlToText(data), "html", nil
	default:
		return "", "", fmt.Errorf("unsupported document format %q, convert to txt, md, or html first", ext)
	}
}

// htmlToText walks the HTML tree collecting text nodes, skipping
// script and style subtrees.
func htmlToText(data []byte) string {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return CleanHTML(string(data))
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sb.String()
}
