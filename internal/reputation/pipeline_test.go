// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reputation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pub-reputation/internal/httputil"
	"github.com/pdiddy/pub-reputation/internal/openalex"
	"github.com/pdiddy/pub-reputation/internal/pubmed"
	"github.com/pdiddy/pub-reputation/pkg/types"
)

const pipelineSummary = `{"result": {"uids": ["31452104"], "31452104": {
  "uid": "31452104", "pubdate": "2020 Mar", "fulljournalname": "Nature",
  "authors": [{"name": "Jane Doe"}],
  "articleids": [{"idtype": "pmcid", "value": "PMC1"}]
}}}`

func pipelineLinks(n int) string {
	links := make([]string, n)
	for i := range links {
		links[i] = `"` + strconv.Itoa(1000+i) + `"`
	}
	return `{"linksets": [{"dbfrom": "pubmed", "linksetdbs": [{"linkname": "pubmed_pubmed_citedin", "links": [` +
		strings.Join(links, ",") + `]}]}]}`
}

// newPipeline wires real clients to fake upstreams. Handlers left nil
// answer 500.
func newPipeline(t *testing.T, eutils, openAlex map[string]http.HandlerFunc) (*Engine, *atomic.Int32) {
	t.Helper()
	var upstreamCalls atomic.Int32
	serve := func(routes map[string]http.HandlerFunc) *httptest.Server {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			upstreamCalls.Add(1)
			if h, ok := routes[r.URL.Path]; ok && h != nil {
				h(w, r)
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(ts.Close)
		return ts
	}
	ncbi := serve(eutils)
	oa := serve(openAlex)

	pm := pubmed.NewClient(types.NCBIConfig{BaseURL: ncbi.URL},
		httputil.WithHTTPClient(ncbi.Client()), httputil.WithRateLimit(0))
	ox := openalex.NewClient(types.OpenAlexConfig{BaseURL: oa.URL},
		httputil.WithHTTPClient(oa.Client()), httputil.WithRateLimit(0))

	e, err := NewEngine(pm, pm, ox, types.ReputationConfig{}, WithClock(fixedClock(2024)))
	require.NoError(t, err)
	return e, &upstreamCalls
}

func body(s string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte(s)) }
}

func TestPipelineEndToEnd(t *testing.T) {
	e, _ := newPipeline(t,
		map[string]http.HandlerFunc{
			"/esummary.fcgi": body(pipelineSummary),
			"/elink.fcgi":    body(pipelineLinks(50)),
		},
		map[string]http.HandlerFunc{
			"/sources": body(`{"results": [{"works_count": 80000}]}`),
			"/authors": body(`{"results": [{"works_count": 150}]}`),
		})

	got, err := e.Score(context.Background(), "31452104")
	require.NoError(t, err)

	b, err := got.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"components": {
		"Citations": 74, "Open Access": 100, "Recency": 80,
		"Journal Activity": 100, "Author Activity": 87
	}}`, string(b))
}

func TestPipelineOptionalUpstreamsDown(t *testing.T) {
	e, _ := newPipeline(t,
		map[string]http.HandlerFunc{"/esummary.fcgi": body(pipelineSummary)},
		nil)

	ev, err := e.Evaluate(context.Background(), "31452104")
	require.NoError(t, err)
	assert.Equal(t, types.Report{OpenAccess: 100, Recency: 80}, ev.Report)
	assert.Len(t, ev.Degraded, 3)
}

func TestPipelineMalformedOptionalPayloads(t *testing.T) {
	e, _ := newPipeline(t,
		map[string]http.HandlerFunc{
			"/esummary.fcgi": body(pipelineSummary),
			"/elink.fcgi":    body(`not json`),
		},
		map[string]http.HandlerFunc{
			"/sources": body(`{"results": "nope"}`),
			"/authors": body(`{"results": [{"works_count": 150}]}`),
		})

	got, err := e.Score(context.Background(), "31452104")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Citations)
	assert.Equal(t, 0, got.JournalActivity)
	assert.Equal(t, 87, got.AuthorActivity)
}

func TestPipelineRegistryDown(t *testing.T) {
	e, calls := newPipeline(t, nil, nil)

	_, err := e.Score(context.Background(), "31452104")
	require.ErrorIs(t, err, ErrMetadataUnavailable)
	// Only the registry was contacted.
	assert.Equal(t, int32(1), calls.Load())
}

func TestPipelineUnknownRecord(t *testing.T) {
	e, calls := newPipeline(t,
		map[string]http.HandlerFunc{
			"/esummary.fcgi": body(`{"result": {"uids": [], "5": {"uid": "5", "error": "cannot get document summary"}}}`),
		}, nil)

	_, err := e.Score(context.Background(), "5")
	require.ErrorIs(t, err, ErrMetadataUnavailable)
	assert.ErrorIs(t, err, pubmed.ErrNotFound)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPipelineBlankIdentifierMakesNoCalls(t *testing.T) {
	e, calls := newPipeline(t, nil, nil)

	_, err := e.Score(context.Background(), "  ")
	require.ErrorIs(t, err, ErrInvalidIdentifier)
	assert.Zero(t, calls.Load())
}

func TestDegradationReasonOmitsCredentials(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	base := dead.URL
	dead.Close()

	const key = "SECRET-KEY-123"
	pm := pubmed.NewClient(types.NCBIConfig{BaseURL: base, APIKey: key, Email: "me@example.org"},
		httputil.WithRateLimit(0))
	ox := openalex.NewClient(types.OpenAlexConfig{BaseURL: base, Email: "me@example.org"},
		httputil.WithRateLimit(0))
	e := newTestEngine(t, &fakeRegistry{record: natureRecord}, pm, ox, types.ReputationConfig{})

	ev, err := e.Evaluate(context.Background(), "31452104")
	require.NoError(t, err)
	require.Len(t, ev.Degraded, 3)
	for _, d := range ev.Degraded {
		assert.NotContains(t, d.Reason, key, d.Signal)
		assert.NotContains(t, d.Reason, "example.org", d.Signal)
		assert.Contains(t, d.Reason, d.Signal)
	}
}
