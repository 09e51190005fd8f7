// Package extract resolves a paper locator into plain text by fetching
// the arXiv HTML rendering of the paper and stripping its markup.
package extract

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"PaperRadar/internal/ports"
)

// maxExtractedChars caps the returned text; prompts truncate further.
const maxExtractedChars = 40000

// ArxivHTMLExtractor implements ports.TextExtractor for arXiv locators.
type ArxivHTMLExtractor struct {
	client *http.Client
}

var _ ports.TextExtractor = (*ArxivHTMLExtractor)(nil)

// NewArxivHTMLExtractor wires an HTTP client; nil gets a 20s-timeout default.
func NewArxivHTMLExtractor(client *http.Client) *ArxivHTMLExtractor {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &ArxivHTMLExtractor{client: client}
}

// Extract fetches the HTML rendering behind the locator and returns its
// visible text, whitespace-collapsed and size-bounded.
func (e *ArxivHTMLExtractor) Extract(ctx context.Context, locator string) (string, error) {
	pageURL := htmlURL(locator)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "PaperRadar/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("arxiv returned %s for %s", resp.Status, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	doc.Find("script, style, nav, header, footer").Remove()

	text := doc.Find("article").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Find("body").Text()
	}

	text = collapseWhitespace(text)
	if text == "" {
		return "", fmt.Errorf("no text extracted from %s", pageURL)
	}
	if len(text) > maxExtractedChars {
		text = text[:maxExtractedChars]
	}
	return text, nil
}

// htmlURL maps abs/pdf locators onto arXiv's HTML rendering of the paper.
func htmlURL(locator string) string {
	replaced := strings.Replace(locator, "/abs/", "/html/", 1)
	if replaced == locator {
		replaced = strings.Replace(locator, "/pdf/", "/html/", 1)
	}
	return strings.TrimSuffix(replaced, ".pdf")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
