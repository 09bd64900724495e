package admin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ccresp/respd/internal/store"
)

func TestHealthzNotReadyThenReady(t *testing.T) {
	ss := store.New(1000, false)
	m := NewMetrics(func() float64 { return 0 })
	srv := New(":0", ss, m)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.router().ServeHTTP(rr, req)
	if rr.Code == http.StatusOK {
		t.Fatalf("healthz = %d before MarkReady, want non-200", rr.Code)
	}

	srv.MarkReady()
	rr = httptest.NewRecorder()
	srv.router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("healthz = %d after MarkReady, want 200", rr.Code)
	}
}

func TestMetricsEndpointExposesCounters(t *testing.T) {
	ss := store.New(1000, false)
	m := NewMetrics(func() float64 { return 0 })
	m.ConnectionOpened()
	m.CommandProcessed("PING", true)
	srv := New(":0", ss, m)
	srv.MarkReady()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	srv.router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "respd_connections_active") {
		t.Fatalf("metrics body missing respd_connections_active:\n%s", body)
	}
}

func TestDebugDumpListsStoredKeys(t *testing.T) {
	ss := store.New(1000, false)
	ss.DB(0).KV.Set("hello", "world")
	m := NewMetrics(func() float64 { return 0 })
	srv := New(":0", ss, m)
	srv.MarkReady()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/dump?db=0", nil)
	srv.router().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("debug/dump = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "hello") {
		t.Fatalf("debug/dump body missing key %q:\n%s", "hello", rr.Body.String())
	}
}
