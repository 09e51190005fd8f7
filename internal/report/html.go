package report

import (
	"fmt"
	"html/template"
	"os"
	"time"

	"PaperRadar/internal/domain"
)

const defaultTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{ .Title }}</title>
</head>
<body>
  <h1>{{ .Title }}</h1>
  <p>Generated at {{ .GeneratedAt.Format "2006-01-02 15:04 MST" }}</p>
  <ol>
  {{ range .Papers }}
    <li>
      <a href="{{ .URL }}">{{ .Title }}</a>
      {{ if .Scored }}<strong>[priority {{ .OverallPriorityScore }}]</strong>{{ end }}
      {{ if .Scored }}<p><em>{{ .TLDR }}</em></p>{{ end }}
      <p>{{ .Summary }}</p>
    </li>
  {{ end }}
  </ol>
</body>
</html>
`

// reportData is the context handed to the report template.
type reportData struct {
	Title       string
	ReportDate  time.Time
	GeneratedAt time.Time
	Papers      []domain.Paper
}

// RenderHTML loads the day's record set, ranks it, and writes the HTML
// report for the day.
func (s *Store) RenderHTML(day time.Time) error {
	papers, err := s.LoadRecord(day)
	if err != nil {
		return err
	}

	tmpl, err := s.loadTemplate()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.htmlDir, 0o755); err != nil {
		return fmt.Errorf("create html dir: %w", err)
	}

	path := s.reportPath(day)
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}

	data := reportData{
		Title:       fmt.Sprintf("ArXiv Peptide/Assembly Papers - %s", day.Format("January 2, 2006")),
		ReportDate:  day,
		GeneratedAt: time.Now().UTC(),
		Papers:      Rank(papers),
	}

	if err := tmpl.Execute(out, data); err != nil {
		_ = out.Close()
		return fmt.Errorf("render report: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("report rendered", "path", path)
	}
	return nil
}

func (s *Store) loadTemplate() (*template.Template, error) {
	if s.templatePath == "" {
		return template.Must(template.New("report").Parse(defaultTemplate)), nil
	}

	tmpl, err := template.ParseFiles(s.templatePath)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", s.templatePath, err)
	}
	return tmpl, nil
}
