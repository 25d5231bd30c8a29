package engine

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"

	readability "codeberg.org/readeck/go-readability/v2"
)

// Hosts that get dedicated handling elsewhere; the generic extractor
// refuses them so videos go through the transcript path.
var videoHosts = []string{"youtube.com", "youtu.be", "m.youtube.com"}

var privateHostRe = regexp.MustCompile(`^(localhost|127\.|10\.|172\.(1[6-9]|2[0-9]|3[0-1])\.|192\.168\.|0\.0\.0\.0|\[::1\])`)

// ValidateFetchURL rejects URLs the extractor must not touch: non-HTTP
// schemes, private/loopback hosts, and video hosts.
func ValidateFetchURL(rawURL string) error {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme %q, must be http or https", parsed.Scheme)
	}
	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("URL has no host")
	}
	host = strings.ToLower(host)
	for _, v := range videoHosts {
		if host == v || strings.HasSuffix(host, "."+v) {
			return fmt.Errorf("video URLs are processed as video sources, not pages")
		}
	}
	if privateHostRe.MatchString(host) {
		return fmt.Errorf("refusing to fetch private/local host %q", host)
	}
	return nil
}

// FetchURLContent extracts main text content from a URL as markdown
// using go-readability, falling back to goquery, then regex stripping.
func FetchURLContent(ctx context.Context, rawURL string) (title, content string, err error) {
	metrics.URLFetchRequests.Add(1)
	defer func() {
		if err != nil {
			metrics.URLFetchErrors.Add(1)
		}
	}()

	if err = ValidateFetchURL(rawURL); err != nil {
		return "", "", err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()

	resp, err := fetchWithRetry(ctx, rawURL)
	if err != nil {
		return "", "", fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := readResponseBody(resp)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", rawURL, err)
	}

	parsedURL, _ := url.Parse(rawURL)
	article, err := readability.FromReader(strings.NewReader(string(body)), parsedURL)
	if err != nil {
		return extractWithGoquery(body)
	}

	var htmlBuf strings.Builder
	_ = article.RenderHTML(&htmlBuf)

	md, err := htmltomarkdown.ConvertString(htmlBuf.String())
	if err != nil {
		var textBuf strings.Builder
		_ = article.RenderText(&textBuf)
		md = textBuf.String()
	}
	text := TruncateRunes(strings.TrimSpace(md), cfg.MaxContentChars, "...")
	return article.Title(), text, nil
}

// extractWithGoquery uses structured HTML parsing when readability
// cannot find an article.
func extractWithGoquery(body []byte) (title, content string, err error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", TruncateRunes(CleanHTML(string(body)), cfg.MaxContentChars, ""), nil
	}

	title = doc.Find("title").First().Text()
	if title == "" {
		doc.Find("meta[property=og:title]").Each(func(i int, s *goquery.Selection) {
			if title == "" {
				title, _ = s.Attr("content")
			}
		})
	}

	removeSelectors := []string{
		"script", "style", "noscript", "iframe", "svg",
		"header", "footer", "nav", "aside",
		".advertisement", ".ad", ".sidebar", ".comments",
		"[role=navigation]", "[role=banner]", "[role=contentinfo]",
	}
	doc.Find(strings.Join(removeSelectors, ", ")).Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	contentSel := doc.Find("article, main, .content, .post-content, .article-content, #content").First()
	if contentSel.Length() == 0 {
		contentSel = doc.Find("body")
	}

	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(contentSel.Text(), " "))
	text = TruncateRunes(text, cfg.MaxContentChars, "...")
	return strings.TrimSpace(title), text, nil
}
