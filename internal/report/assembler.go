// Package report owns everything downstream of scoring: ranking, the
// flat per-date JSON record store, HTML rendering, and the report index.
package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"PaperRadar/internal/domain"
)

const dayFormat = "2006-01-02"

// Store persists ranked record sets and renders them into HTML reports.
type Store struct {
	jsonDir      string
	htmlDir      string
	templatePath string
	indexPath    string
	logger       *slog.Logger
}

// NewStore wires the report directories. templatePath may be empty, in
// which case the built-in template is used.
func NewStore(jsonDir, htmlDir, templatePath, indexPath string, logger *slog.Logger) *Store {
	return &Store{
		jsonDir:      jsonDir,
		htmlDir:      htmlDir,
		templatePath: templatePath,
		indexPath:    indexPath,
		logger:       logger,
	}
}

// Rank orders papers by overall priority descending. The sort is stable:
// unscored papers count as priority 0 and ties keep their insertion order,
// so re-running a batch reproduces the same report.
func Rank(papers []domain.Paper) []domain.Paper {
	ranked := make([]domain.Paper, len(papers))
	copy(ranked, papers)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority() > ranked[j].Priority()
	})
	return ranked
}

// HasRecord reports whether a record set already exists for the day.
func (s *Store) HasRecord(day time.Time) bool {
	_, err := os.Stat(s.recordPath(day))
	return err == nil
}

// SaveRecord writes the day's ranked record set as flat JSON.
func (s *Store) SaveRecord(day time.Time, papers []domain.Paper) error {
	if err := os.MkdirAll(s.jsonDir, 0o755); err != nil {
		return fmt.Errorf("create json dir: %w", err)
	}

	raw, err := json.MarshalIndent(papers, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal record set: %w", err)
	}

	path := s.recordPath(day)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write record set: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("record set saved", "path", path, "papers", len(papers))
	}
	return nil
}

// LoadRecord reads a previously persisted record set for the day.
func (s *Store) LoadRecord(day time.Time) ([]domain.Paper, error) {
	raw, err := os.ReadFile(s.recordPath(day))
	if err != nil {
		return nil, fmt.Errorf("read record set: %w", err)
	}

	var papers []domain.Paper
	if err := json.Unmarshal(raw, &papers); err != nil {
		return nil, fmt.Errorf("decode record set: %w", err)
	}
	return papers, nil
}

// UpdateIndex rewrites the report index with every rendered report,
// newest first.
func (s *Store) UpdateIndex() error {
	entries, err := os.ReadDir(s.htmlDir)
	if err != nil {
		return fmt.Errorf("list reports: %w", err)
	}

	reports := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			reports = append(reports, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(reports)))

	raw, err := json.MarshalIndent(reports, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	if err := os.WriteFile(s.indexPath, raw, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("report index updated", "path", s.indexPath, "reports", len(reports))
	}
	return nil
}

func (s *Store) recordPath(day time.Time) string {
	return filepath.Join(s.jsonDir, day.Format(dayFormat)+".json")
}

func (s *Store) reportPath(day time.Time) string {
	return filepath.Join(s.htmlDir, day.Format(dayFormat)+".html")
}
