// Package admin implements the observability HTTP server: health
// checks, Prometheus metrics, and a textual per-database debug dump.
// Grounded on the teacher's server.go/routes.go pairing of gorilla/mux
// with gorilla/handlers logging/compression middleware.
package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ccresp/respd/internal/store"
)

// Server is the admin/observability HTTP server, run alongside the
// primary RESP listener on its own address.
type Server struct {
	Addr    string
	Store   *store.StateStore
	Metrics *Metrics

	ready bool
	http  *http.Server
}

func New(addr string, ss *store.StateStore, metrics *Metrics) *Server {
	return &Server{Addr: addr, Store: ss, Metrics: metrics}
}

// MarkReady flips /healthz from non-200 to 200; call once initial
// snapshot load has completed.
func (s *Server) MarkReady() { s.ready = true }

// Shutdown gracefully stops the admin server, matching the primary
// listener's context-cancel-driven shutdown. A nil or not-yet-started
// server is a no-op.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.Metrics.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/debug/dump", s.handleDebugDump).Methods(http.MethodGet)

	r.Use(handlers.CompressHandler)
	return handlers.CustomLoggingHandler(io.Discard, r, func(w io.Writer, params handlers.LogFormatterParams) {
		cclog.Debugf("admin: %s %s (%d, %dB)", params.Request.Method, params.URL.RequestURI(), params.StatusCode, params.Size)
	})
}

// ListenAndServe blocks serving the admin HTTP server until it fails or
// is shut down by the caller closing the listener elsewhere.
func (s *Server) ListenAndServe() error {
	if s.Addr == "" {
		return nil
	}
	s.http = &http.Server{Addr: s.Addr, Handler: s.router()}
	cclog.Infof("admin: listening on %s", s.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if !s.ready {
		http.Error(w, "not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleDebugDump renders every key in the requested database (default
// 0) as an indented text tree, grounded on memorystore/debug.go's
// depth-indented buffer dump.
func (s *Server) handleDebugDump(w http.ResponseWriter, r *http.Request) {
	idx := store.Index(0)
	if raw := r.URL.Query().Get("db"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid db parameter", http.StatusBadRequest)
			return
		}
		idx = n
	}

	st := s.Store.DB(idx)
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	fmt.Fprintf(bw, "db %d:\n", idx)
	dumpGroup(bw, "strings", st.KV.Keys())
	dumpGroup(bw, "sets", st.Sets.Keys())
	dumpGroup(bw, "lists", st.Lists.Keys())
	dumpGroup(bw, "hashes", st.Hashes.Keys())
	dumpGroup(bw, "zsets", st.ZSets.Keys())
	dumpGroup(bw, "stacks", st.Stacks.Keys())
	dumpGroup(bw, "blooms", st.Blooms.Keys())
	dumpGroup(bw, "hyperloglogs", st.HyperLogLogs.Keys())
}

func dumpGroup(w *bufio.Writer, name string, keys []store.Key) {
	fmt.Fprintf(w, "\t%q: [\n", name)
	for _, k := range keys {
		fmt.Fprintf(w, "\t\t%q,\n", k)
	}
	fmt.Fprint(w, "\t],\n")
}
