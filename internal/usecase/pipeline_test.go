package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PaperRadar/internal/domain"
	"PaperRadar/internal/relevance"
	"PaperRadar/internal/report"
	"PaperRadar/internal/scoring"
)

type stubSource struct {
	papers []domain.Paper
	err    error
	calls  int
}

func (s *stubSource) FetchDaily(_ context.Context, _ time.Time) ([]domain.Paper, error) {
	s.calls++
	return s.papers, s.err
}

type stubNotifier struct {
	digests []string
}

func (n *stubNotifier) PublishDigest(_ context.Context, digest string) error {
	n.digests = append(n.digests, digest)
	return nil
}

func newTestPipeline(t *testing.T, source *stubSource, notifier *stubNotifier) (*Pipeline, *report.Store, string) {
	t.Helper()

	dir := t.TempDir()
	store := report.NewStore(
		filepath.Join(dir, "daily_json"),
		filepath.Join(dir, "daily_html"),
		"",
		filepath.Join(dir, "reports.json"),
		nil)

	deps := PipelineDeps{
		Source: source,
		Filter: relevance.NewKeywordHeuristic(nil),
		Scorer: scoring.NewScorer(nil, nil, nil),
		Store:  store,
		Topic:  "peptide self-assembly",
	}
	if notifier != nil {
		deps.Notifier = notifier
	}
	return NewPipeline(deps), store, dir
}

func TestProcessDayEmptyFetchIsNoOp(t *testing.T) {
	t.Parallel()

	source := &stubSource{}
	pipeline, store, _ := newTestPipeline(t, source, nil)

	day := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)
	require.NoError(t, pipeline.ProcessDay(context.Background(), day))

	assert.Equal(t, 1, source.calls)
	assert.False(t, store.HasRecord(day))
}

func TestProcessDayFetchErrorPropagates(t *testing.T) {
	t.Parallel()

	source := &stubSource{err: errors.New("upstream down")}
	pipeline, _, _ := newTestPipeline(t, source, nil)

	err := pipeline.ProcessDay(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch daily")
}

func TestProcessDayFiltersAndPersists(t *testing.T) {
	t.Parallel()

	source := &stubSource{papers: []domain.Paper{
		{Title: "Peptide self-assembly study", Summary: "on-topic"},
		{Title: "Unrelated astronomy", Summary: "off-topic"},
	}}
	pipeline, store, dir := newTestPipeline(t, source, nil)

	day := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)
	require.NoError(t, pipeline.ProcessDay(context.Background(), day))

	papers, err := store.LoadRecord(day)
	require.NoError(t, err)
	require.Len(t, papers, 1)
	assert.Equal(t, "Peptide self-assembly study", papers[0].Title)
	assert.False(t, papers[0].Scored(), "no provider means unscored records")

	_, err = os.Stat(filepath.Join(dir, "daily_html", "2026-08-28.html"))
	assert.NoError(t, err, "report rendered")
	_, err = os.Stat(filepath.Join(dir, "reports.json"))
	assert.NoError(t, err, "index updated")
}

func TestProcessDaySkipsFetchWhenRecordExists(t *testing.T) {
	t.Parallel()

	source := &stubSource{papers: []domain.Paper{
		{Title: "Peptide aggregation", Summary: "relevant"},
	}}
	pipeline, _, _ := newTestPipeline(t, source, nil)

	day := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)
	require.NoError(t, pipeline.ProcessDay(context.Background(), day))
	require.NoError(t, pipeline.ProcessDay(context.Background(), day))

	assert.Equal(t, 1, source.calls, "existing record must short-circuit fetching")
}

func TestProcessDayNotifiesOnlyForFreshRecords(t *testing.T) {
	t.Parallel()

	source := &stubSource{papers: []domain.Paper{
		{Title: "Peptide aggregation", Summary: "relevant"},
	}}
	notifier := &stubNotifier{}
	pipeline, _, _ := newTestPipeline(t, source, notifier)

	day := time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC)
	require.NoError(t, pipeline.ProcessDay(context.Background(), day))
	require.NoError(t, pipeline.ProcessDay(context.Background(), day))
	require.NoError(t, pipeline.ProcessDay(context.Background(), day))

	require.Len(t, notifier.digests, 1, "reruns over a persisted day must not re-send the digest")
	assert.Contains(t, notifier.digests[0], "Peptide aggregation")
	assert.Contains(t, notifier.digests[0], "2026-08-28")
}
