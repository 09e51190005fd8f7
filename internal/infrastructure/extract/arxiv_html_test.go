package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTMLURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"https://arxiv.org/abs/2508.00001v1", "https://arxiv.org/html/2508.00001v1"},
		{"https://arxiv.org/pdf/2508.00001v1", "https://arxiv.org/html/2508.00001v1"},
		{"https://arxiv.org/pdf/2508.00001v1.pdf", "https://arxiv.org/html/2508.00001v1"},
	}

	for _, tc := range cases {
		if got := htmlURL(tc.in); got != tc.want {
			t.Fatalf("htmlURL(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestExtract(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/html/") {
			t.Errorf("expected html path, got %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`<html><head><style>p {color: red}</style></head>
		<body><nav>skip this</nav>
		<article><h1>Peptide   Assembly</h1>
		<p>We present
		a dataset.</p><script>alert(1)</script></article></body></html>`))
	}))
	defer server.Close()

	extractor := NewArxivHTMLExtractor(server.Client())
	text, err := extractor.Extract(context.Background(), server.URL+"/abs/2508.00001v1")
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}

	if text != "Peptide Assembly We present a dataset." {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractBadStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	extractor := NewArxivHTMLExtractor(server.Client())
	if _, err := extractor.Extract(context.Background(), server.URL+"/abs/gone"); err == nil {
		t.Fatal("expected error on 404")
	}
}

func TestExtractEmptyPage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><script>only scripts</script></body></html>`))
	}))
	defer server.Close()

	extractor := NewArxivHTMLExtractor(server.Client())
	if _, err := extractor.Extract(context.Background(), server.URL+"/abs/empty"); err == nil {
		t.Fatal("expected error when no text is extracted")
	}
}
