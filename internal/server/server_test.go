// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pub-reputation/internal/httputil"
	"github.com/pdiddy/pub-reputation/internal/openalex"
	"github.com/pdiddy/pub-reputation/internal/pubmed"
	"github.com/pdiddy/pub-reputation/internal/reputation"
	"github.com/pdiddy/pub-reputation/pkg/types"
)

type fakeScorer struct {
	report types.Report
	err    error
	gotID  string
}

func (f *fakeScorer) Score(_ context.Context, id string) (types.Report, error) {
	f.gotID = id
	return f.report, f.err
}

type fakeRegistry struct {
	articles []types.ArticleSummary
	details  types.ArticleDetails
	err      error
	gotQuery string
	gotMax   int
}

func (f *fakeRegistry) Search(_ context.Context, query string, maxResults int) ([]types.ArticleSummary, error) {
	f.gotQuery, f.gotMax = query, maxResults
	return f.articles, f.err
}

func (f *fakeRegistry) FetchDetails(_ context.Context, pmid string) (types.ArticleDetails, error) {
	if f.err != nil {
		return types.ArticleDetails{}, f.err
	}
	d := f.details
	d.PMID = pmid
	return d, nil
}

type fakeAuthority struct{}

func (fakeAuthority) SearchSource(context.Context, string) (*openalex.Entity, error) { return nil, nil }
func (fakeAuthority) SearchAuthor(context.Context, string) (*openalex.Entity, error) { return nil, nil }

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestReputationRoute(t *testing.T) {
	s := &fakeScorer{report: types.Report{Citations: 74, OpenAccess: 100, Recency: 80, JournalActivity: 100, AuthorActivity: 87}}
	h := NewRouter(s, &fakeRegistry{}, nil)

	rec := do(t, h, http.MethodGet, "/api/reputation/31452104", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "31452104", s.gotID)
	assert.JSONEq(t, `{"components": {
		"Citations": 74, "Open Access": 100, "Recency": 80,
		"Journal Activity": 100, "Author Activity": 87
	}}`, rec.Body.String())
}

func TestReputationRouteErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"invalid identifier", reputation.ErrInvalidIdentifier, http.StatusBadRequest, "invalid publication identifier"},
		{"metadata unavailable", fmt.Errorf("%w: 1: boom", reputation.ErrMetadataUnavailable),
			http.StatusServiceUnavailable, "publication metadata unavailable"},
		{"unexpected", errors.New("kaboom"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(&fakeScorer{err: tt.err}, &fakeRegistry{}, nil)
			rec := do(t, h, http.MethodGet, "/api/reputation/1", "")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error": %q}`, tt.wantMsg), rec.Body.String())
		})
	}
}

func TestSearchRoute(t *testing.T) {
	reg := &fakeRegistry{articles: []types.ArticleSummary{
		{PMID: "1", Title: "CRISPR", Link: "https://pubmed.ncbi.nlm.nih.gov/1/", Date: "2020-01-01"},
	}}
	h := NewRouter(&fakeScorer{}, reg, nil)

	rec := do(t, h, http.MethodPost, "/api/search", `{"query": "  crispr  ", "max_results": 5}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "crispr", reg.gotQuery)
	assert.Equal(t, 5, reg.gotMax)
	assert.JSONEq(t, `[{"pmid": "1", "title": "CRISPR", "link": "https://pubmed.ncbi.nlm.nih.gov/1/", "date": "2020-01-01"}]`,
		rec.Body.String())
}

func TestSearchRouteErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"empty query", `{"query": " "}`, nil, http.StatusBadRequest, `{"error": "query is required"}`},
		{"bad json", `{`, nil, http.StatusBadRequest, `{"error": "invalid request body"}`},
		{"upstream down", `{"query": "x"}`, errors.New("PubMed returned HTTP 502"), http.StatusServiceUnavailable,
			`{"error": "search unavailable"}`},
		{"no hits", `{"query": "x"}`, nil, http.StatusOK, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewRouter(&fakeScorer{}, &fakeRegistry{err: tt.err}, nil)
			rec := do(t, h, http.MethodPost, "/api/search", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestDetailsRoute(t *testing.T) {
	reg := &fakeRegistry{details: types.ArticleDetails{Title: "T", Abstract: "**Background:** b"}}
	h := NewRouter(&fakeScorer{}, reg, nil)

	rec := do(t, h, http.MethodGet, "/api/articles/42", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"pmid": "42", "title": "T", "abstract": "**Background:** b"}`, rec.Body.String())

	h = NewRouter(&fakeScorer{}, &fakeRegistry{err: fmt.Errorf("%w: 42", pubmed.ErrNotFound)}, nil)
	rec = do(t, h, http.MethodGet, "/api/articles/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error": "article not found"}`, rec.Body.String())
}

func TestErrorBodiesOmitCredentials(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	base := dead.URL
	dead.Close()

	const key = "SECRET-KEY-123"
	pm := pubmed.NewClient(types.NCBIConfig{BaseURL: base, APIKey: key, Email: "me@example.org"},
		httputil.WithRateLimit(0))
	engine, err := reputation.NewEngine(pm, pm, &fakeAuthority{}, types.ReputationConfig{})
	require.NoError(t, err)
	h := NewRouter(engine, pm, nil)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"reputation", http.MethodGet, "/api/reputation/123", "", http.StatusServiceUnavailable, "publication metadata unavailable"},
		{"details", http.MethodGet, "/api/articles/123", "", http.StatusServiceUnavailable, "article details unavailable"},
		{"search", http.MethodPost, "/api/search", `{"query": "crispr"}`, http.StatusServiceUnavailable, "search unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error": %q}`, tt.wantMsg), rec.Body.String())
			assert.NotContains(t, rec.Body.String(), key)
			assert.NotContains(t, rec.Body.String(), "example.org")
		})
	}
}

func TestHealthz(t *testing.T) {
	rec := do(t, NewRouter(&fakeScorer{}, &fakeRegistry{}, nil), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	rec := do(t, NewRouter(&fakeScorer{}, &fakeRegistry{}, nil), http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, types.ServerConfig{Addr: addr, ShutdownTimeout: time.Second},
			NewRouter(&fakeScorer{}, &fakeRegistry{}, nil), nil)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
