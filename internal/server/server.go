// Package server accepts TCP connections speaking RESP and drives each
// one through decode -> translate -> execute -> encode -> write, one
// goroutine per connection, the Go rendition of the cooperative
// per-connection task described for this protocol.
package server

import (
	"context"
	"errors"
	"net"

	cclog "github.com/ClusterCockpit/cc-lib/v2/ccLogger"
	"github.com/google/uuid"

	"github.com/ccresp/respd/internal/exec"
	"github.com/ccresp/respd/internal/ops"
	"github.com/ccresp/respd/internal/resp"
	"github.com/ccresp/respd/internal/snapshot"
	"github.com/ccresp/respd/internal/store"
)

// Metrics is the narrow set of observability hooks the connection
// handler reports through; the admin package's Prometheus collectors
// implement it, and a nil Metrics is valid (every method call is
// nil-checked).
type Metrics interface {
	ConnectionOpened()
	ConnectionClosed()
	CommandProcessed(name string, ok bool)
}

// Server owns the listener and the shared StateStore every connection
// reads from and writes to.
type Server struct {
	Addr     string
	Store    *store.StateStore
	Snapshot *snapshot.Manager
	Metrics  Metrics
}

func New(addr string, ss *store.StateStore, snap *snapshot.Manager) *Server {
	return &Server{Addr: addr, Store: ss, Snapshot: snap}
}

// Serve accepts connections until ctx is cancelled or the listener
// fails. A failed listener bind is the caller's problem to treat as a
// fatal startup error.
func (s *Server) Serve(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.Addr)
	if err != nil {
		return err
	}
	cclog.Infof("respd: listening on %s", s.Addr)

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			cclog.Warnf("respd: accept failed: %s", err.Error())
			continue
		}
		go s.handleConn(conn)
	}
}

// handleConn drives one connection's receive loop until it is
// terminated by a fatal codec error, a reply-write failure, or the peer
// closing the socket.
func (s *Server) handleConn(conn net.Conn) {
	connID := uuid.New().String()
	cclog.Debugf("respd: connection %s opened from %s", connID, conn.RemoteAddr())
	if s.Metrics != nil {
		s.Metrics.ConnectionOpened()
	}
	defer func() {
		conn.Close()
		if s.Metrics != nil {
			s.Metrics.ConnectionClosed()
		}
		cclog.Debugf("respd: connection %s closed", connID)
	}()

	st := s.Store.DB(0)
	buf := make([]byte, 0, 4096)
	read := make([]byte, 4096)

	for {
		v, consumed, derr := resp.Decode(buf)
		if derr != nil {
			// The decoder never consumes bytes on a fatal error, so
			// there is no way to resynchronize mid-buffer; a protocol
			// error always terminates the connection.
			cclog.Warnf("respd: connection %s: codec error: %s", connID, derr.Error())
			return
		}
		if consumed > 0 {
			buf = append(buf[:0], buf[consumed:]...)
			if !s.dispatch(st, v, conn) {
				return
			}
			continue
		}

		n, err := conn.Read(read)
		if n > 0 {
			buf = append(buf, read[:n]...)
		}
		if err != nil {
			return
		}
	}
}

// dispatch runs one already-decoded command and writes its reply,
// reporting whether the connection should keep reading.
func (s *Server) dispatch(st *store.State, v resp.Value, conn net.Conn) bool {
	op, err := ops.Translate(v)
	if err != nil {
		if s.Metrics != nil {
			s.Metrics.CommandProcessed("UNKNOWN", false)
		}
		return s.writeReply(conn, store.Err(err.Error()).Encode())
	}

	rv := exec.Execute(op, st, s.Store)
	if s.Metrics != nil {
		s.Metrics.CommandProcessed(op.Name, rv.Kind() != store.RVError)
	}

	if s.Snapshot != nil {
		s.Snapshot.MaybeSaveOnThreshold(s.Store)
	}

	return s.writeReply(conn, rv.Encode())
}

// writeReply writes a single encoded reply and reports whether the
// connection is still usable. A write failure terminates the
// connection, matching the spec's error-handling taxonomy.
func (s *Server) writeReply(conn net.Conn, v resp.Value) bool {
	out := resp.Encode(nil, v)
	if _, err := conn.Write(out); err != nil {
		cclog.Warnf("respd: write failed, closing connection: %s", err.Error())
		return false
	}
	return true
}
