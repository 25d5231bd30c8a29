package engine

import (
	"bufio"
	"crypto/sha256"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Video ID extraction covers the common YouTube URL shapes plus bare
// 11-character IDs.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtu\.be/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/watch\?v=([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/v/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`^([a-zA-Z0-9_-]{11})$`),
}

var urlShapeRe = regexp.MustCompile(`^https?://\S+$`)

// ExtractVideoID returns the 11-character video ID embedded in ref, or
// "" when ref is not a video reference.
func ExtractVideoID(ref string) string {
	ref = strings.TrimSpace(ref)
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(ref); len(m) == 2 {
			return m[1]
		}
	}
	return ""
}

// shortHash gives a stable 8-hex-digit id component for unnamed refs.
func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", sum[:4])
}

// NormalizeInput resolves a user-supplied reference into source refs:
// a list file expands to many video refs, a comma-separated string to
// one ref per item, free text to a single raw_text ref. Order is
// preserved and duplicates (same kind + canonical id) are dropped.
func NormalizeInput(input string) ([]SourceRef, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, &UnrecognizedSourceError{Ref: input}
	}

	if fi, err := os.Stat(input); err == nil && !fi.IsDir() {
		return normalizeFile(input)
	}

	// Free-form text: has whitespace and no recognizable reference.
	if strings.ContainsAny(input, " \t\n") && !urlShapeRe.MatchString(input) && ExtractVideoID(input) == "" {
		return []SourceRef{{
			ID:   "text_" + shortHash(input),
			Kind: KindRawText,
			Ref:  input,
		}}, nil
	}

	var refs []SourceRef
	for _, item := range strings.Split(input, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		ref, err := classifyInline(item)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	if len(refs) == 0 {
		return nil, &UnrecognizedSourceError{Ref: input}
	}
	return dedupeRefs(refs), nil
}

func classifyInline(item string) (SourceRef, error) {
	if id := ExtractVideoID(item); id != "" {
		return SourceRef{ID: id, Kind: KindVideo, Ref: item}, nil
	}
	if urlShapeRe.MatchString(item) {
		return SourceRef{ID: "url_" + shortHash(canonicalURL(item)), Kind: KindURL, Ref: item}, nil
	}
	return SourceRef{}, &UnrecognizedSourceError{Ref: item}
}

// normalizeFile expands a file path: documents become one source; list
// files (.csv, or .txt whose lines hold video references) expand to one
// video source per line.
func normalizeFile(path string) ([]SourceRef, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".csv":
		ids, err := videoIDsFromCSV(path)
		if err != nil {
			return nil, err
		}
		return videoRefs(ids), nil
	case ".txt":
		if ids := videoIDsFromLines(path); len(ids) > 0 {
			return videoRefs(ids), nil
		}
	}

	if !IsDocumentPath(path) {
		return nil, &UnrecognizedSourceError{Ref: path}
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return []SourceRef{{
		ID:   "doc_" + sanitizeID(base),
		Kind: KindDocument,
		Ref:  path,
	}}, nil
}

// videoIDsFromCSV reads the video_id or video_url column of a CSV file.
func videoIDsFromCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open list file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := -1
	for i, name := range header {
		n := strings.TrimSpace(strings.ToLower(name))
		if n == "video_id" || n == "video_url" {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("csv has no video_id or video_url column")
	}

	var ids []string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows, keep the rest
		}
		if col < len(rec) {
			if id := ExtractVideoID(rec[col]); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func videoIDsFromLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var ids []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if id := ExtractVideoID(scanner.Text()); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func videoRefs(ids []string) []SourceRef {
	refs := make([]SourceRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, SourceRef{ID: id, Kind: KindVideo, Ref: id})
	}
	return dedupeRefs(refs)
}

func dedupeRefs(refs []SourceRef) []SourceRef {
	seen := make(map[string]bool, len(refs))
	out := refs[:0]
	for _, r := range refs {
		key := string(r.Kind) + "|" + r.ID
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

func canonicalURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}

var idSanitizeRe = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

func sanitizeID(s string) string {
	s = idSanitizeRe.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
