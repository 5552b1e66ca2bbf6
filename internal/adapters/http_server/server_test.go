package httpserver_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	httpserver "lodging_query/internal/adapters/http_server"
	"lodging_query/internal/adapters/observability"
	"lodging_query/internal/app"
	"lodging_query/internal/domain"
	"lodging_query/internal/storage/memory"
)

func rec(municipality, typ string) domain.Record {
	f := make([]string, domain.FieldCount)
	f[0], f[5], f[6] = municipality, typ, "x"
	return domain.NewRecord(f)
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	h := memory.NewHolder(memory.NewStore([]domain.Record{
		rec("Torino", "HOTEL"), rec("TORINO", "B&B"), rec("Alba", "HOTEL"),
	}))
	srv := httpserver.New()
	srv.Mount("/metrics", observability.MetricsHandler(observability.InitRegistry()))
	srv.MountHandlers(&httpserver.Handlers{Q: app.NewQueryService(h, nil, 0), Stores: h})
	return srv.Mux()
}

func TestHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
}

func TestStats_ETag(t *testing.T) {
	mux := newRouter(t)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/stats", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	var st httpserver.Stats
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Count != 3 || st.CountByMunicipality["TORINO"] != 2 || st.CountByType["HOTEL"] != 2 {
		t.Fatalf("unexpected stats: %+v", st)
	}

	etag := w.Header().Get("ETag")
	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	req.Header.Set("If-None-Match", etag)
	w2 := httptest.NewRecorder()
	mux.ServeHTTP(w2, req)
	if w2.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", w2.Code)
	}
}

func TestQuery(t *testing.T) {
	mux := newRouter(t)
	cases := []struct {
		cmd, body, outcome string
		status             int
	}{
		{"num_strutture", "Numero strutture: 3\n", app.OutcomeOK, 200},
		{"comuni", "ALBA, TORINO\n", app.OutcomeOK, 200},
		{"filtra comune:Cuneo", app.NoResultsReply + "\n", app.OutcomeEmpty, 200},
		{"bogus", app.ErrCommandReply + "\n", app.OutcomeError, 200},
		{"", "", "", 400},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/query?cmd="+url.QueryEscape(tc.cmd), nil))
		if w.Code != tc.status {
			t.Fatalf("%q: status %d", tc.cmd, w.Code)
		}
		if tc.status != 200 {
			continue
		}
		body, _ := io.ReadAll(w.Body)
		if string(body) != tc.body || w.Header().Get("X-Outcome") != tc.outcome {
			t.Fatalf("%q: got %q outcome=%s", tc.cmd, body, w.Header().Get("X-Outcome"))
		}
	}
}

func TestMetricsMounted(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
}
