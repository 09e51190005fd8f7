// Package arxiv fetches candidate papers from the arXiv query API as an
// Atom feed, windowed to a single submission day.
package arxiv

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"PaperRadar/internal/config"
	"PaperRadar/internal/domain"
	"PaperRadar/internal/ports"
)

// submissionLag shifts the day window earlier; arXiv announces the
// day's submissions several hours before UTC midnight.
const submissionLag = 6 * time.Hour

const submittedDateFormat = "200601021504"

// Source implements ports.PaperSource against the arXiv query API.
type Source struct {
	client     *http.Client
	parser     *gofeed.Parser
	baseURL    string
	categories []string
	keywords   []string
	maxResults int
	logger     *slog.Logger
}

var _ ports.PaperSource = (*Source)(nil)

// NewSource wires an HTTP client; nil gets a 30s-timeout default.
func NewSource(client *http.Client, cfg config.ArxivConfig, logger *slog.Logger) *Source {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Source{
		client:     client,
		parser:     gofeed.NewParser(),
		baseURL:    cfg.BaseURL,
		categories: cfg.Categories,
		keywords:   cfg.Keywords,
		maxResults: cfg.MaxResults,
		logger:     logger,
	}
}

// FetchDaily returns papers submitted in the 24h window for the given
// UTC day, newest first as arXiv reports them.
func (s *Source) FetchDaily(ctx context.Context, day time.Time) ([]domain.Paper, error) {
	query := s.buildQuery(day)
	if s.logger != nil {
		s.logger.Debug("arxiv query", "query", query)
	}

	feed, err := s.fetchFeed(ctx, query)
	if err != nil {
		return nil, err
	}

	papers := make([]domain.Paper, 0, len(feed.Items))
	for _, item := range feed.Items {
		papers = append(papers, itemToPaper(item))
	}

	if s.logger != nil {
		s.logger.Info("fetched papers", "day", day.Format("2006-01-02"), "count", len(papers))
	}
	return papers, nil
}

func (s *Source) buildQuery(day time.Time) string {
	end := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).Add(-submissionLag)
	start := end.Add(-24 * time.Hour)

	catParts := make([]string, 0, len(s.categories))
	for _, cat := range s.categories {
		catParts = append(catParts, "cat:"+cat)
	}

	kwParts := make([]string, 0, len(s.keywords))
	for _, kw := range s.keywords {
		kwParts = append(kwParts, "all:"+kw)
	}

	return fmt.Sprintf("(%s) AND (%s) AND submittedDate:[%s TO %s]",
		strings.Join(catParts, " OR "),
		strings.Join(kwParts, " OR "),
		start.Format(submittedDateFormat),
		end.Format(submittedDateFormat))
}

func (s *Source) fetchFeed(ctx context.Context, query string) (*gofeed.Feed, error) {
	params := url.Values{}
	params.Set("search_query", query)
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")
	params.Set("start", "0")
	params.Set("max_results", fmt.Sprintf("%d", s.maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "PaperRadar/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned %s", resp.Status)
	}

	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

func itemToPaper(item *gofeed.Item) domain.Paper {
	paper := domain.Paper{
		Title:      collapseWhitespace(item.Title),
		Summary:    collapseWhitespace(item.Description),
		URL:        item.Link,
		Categories: item.Categories,
	}

	if paper.URL == "" {
		paper.URL = item.GUID
	}

	for _, href := range item.Links {
		if strings.Contains(href, "/pdf/") {
			paper.PDFURL = href
			break
		}
	}

	for _, author := range item.Authors {
		if author != nil && author.Name != "" {
			paper.Authors = append(paper.Authors, author.Name)
		}
	}

	if item.PublishedParsed != nil {
		paper.PublishedAt = item.PublishedParsed.UTC()
	}
	if item.UpdatedParsed != nil {
		paper.UpdatedAt = item.UpdatedParsed.UTC()
	}

	return paper
}

// arXiv wraps titles and abstracts with newlines and leading spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
