package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/corey/lumen/internal/domain/rank"
	"github.com/corey/lumen/internal/domain/session"
)

// AppQueries provides the server access to app state beyond the session:
// stats, manual refresh. Thread safety is the implementor's responsibility.
type AppQueries interface {
	StatsSnapshot() StatsResult
	Refresh() (RefreshResult, error)
}

// Server is the daemon that listens on a Unix socket and drives the
// search session. The session contract requires strictly serialized
// access — one keyboard, one event at a time — so every request handler
// runs under one mutex regardless of which connection it arrived on.
type Server struct {
	session  *session.Session
	queries  AppQueries
	sockPath string
	listener net.Listener
	started  time.Time

	// sessionID names the current Active session; frontends must echo it.
	// Regenerated on every activate, cleared on dismiss.
	mu        sync.Mutex
	sessionID string

	done         chan struct{}
	shutdownCh   chan struct{} // closed when a remote shutdown request is received
	shutdownOnce sync.Once
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewServer creates a daemon server around the given session.
// queries may be nil if stats/refresh are not needed.
func NewServer(sess *session.Session, sockPath string, queries AppQueries) *Server {
	return &Server{
		session:    sess,
		queries:    queries,
		sockPath:   sockPath,
		done:       make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
}

// Start begins listening on the Unix socket. It handles stale sockets by
// attempting a connection first — if the connection fails, the stale
// socket is removed before binding.
func (s *Server) Start() error {
	if _, err := os.Stat(s.sockPath); err == nil {
		conn, err := net.DialTimeout("unix", s.sockPath, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return fmt.Errorf("daemon already running at %s", s.sockPath)
		}
		// Stale socket — remove it
		os.Remove(s.sockPath)
	}

	ln, err := net.Listen("unix", s.sockPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = ln
	s.started = time.Now()

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop gracefully shuts down the server, closing the listener and
// removing the socket file. Idempotent.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		s.wg.Wait()
		os.Remove(s.sockPath)
	})
	return nil
}

// ShutdownCh returns a channel closed when a remote shutdown request is
// received. The daemon's main goroutine selects on this alongside OS
// signals so the process actually exits after a remote stop.
func (s *Server) ShutdownCh() <-chan struct{} {
	return s.shutdownCh
}

// Addr returns the socket path the server is listening on.
func (s *Server) Addr() string {
	return s.sockPath
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024) // 1MB max message

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(conn, Response{Error: "invalid request JSON"})
			continue
		}

		resp := s.handleRequest(req)
		s.writeResponse(conn, resp)

		if req.Method == MethodShutdown {
			s.shutdownOnce.Do(func() { close(s.shutdownCh) })
			return
		}
	}
}

func (s *Server) handleRequest(req Request) Response {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch req.Method {
	case MethodActivate:
		return s.handleActivate(req)
	case MethodQuery:
		return s.handleQuery(req)
	case MethodSelect:
		return s.handleSelect(req)
	case MethodCancel:
		return s.handleCancel(req)
	case MethodStats:
		return s.handleStats(req)
	case MethodRefresh:
		return s.handleRefresh(req)
	case MethodShutdown:
		return Response{ID: req.ID, Result: struct{}{}}
	default:
		return Response{ID: req.ID, Error: fmt.Sprintf("unknown method: %s", req.Method)}
	}
}

func (s *Server) handleActivate(req Request) Response {
	s.sessionID = uuid.NewString()
	results := s.session.Activate()
	return Response{ID: req.ID, Result: ActivateResult{
		SessionID: s.sessionID,
		Results:   toRows(results),
	}}
}

func (s *Server) handleQuery(req Request) Response {
	var params QueryParams
	if err := decodeParams(req.Params, &params); err != nil {
		return Response{ID: req.ID, Error: "invalid query params"}
	}
	if params.SessionID != s.sessionID {
		return Response{ID: req.ID, Error: "stale session"}
	}

	results, err := s.session.SetQuery(params.Query)
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: QueryResult{
		Query:      params.Query,
		Generation: s.session.Generation(),
		Results:    toRows(results),
	}}
}

func (s *Server) handleSelect(req Request) Response {
	var params SelectParams
	if err := decodeParams(req.Params, &params); err != nil {
		return Response{ID: req.ID, Error: "invalid select params"}
	}
	if params.SessionID != s.sessionID {
		return Response{ID: req.ID, Error: "stale session"}
	}

	s.sessionID = ""
	if err := s.session.Select(params.EntryID); err != nil {
		// Stale selection or launch failure: the session already
		// dismissed; the frontend shows the error and moves on.
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: struct{}{}}
}

func (s *Server) handleCancel(req Request) Response {
	var params CancelParams
	if err := decodeParams(req.Params, &params); err != nil {
		return Response{ID: req.ID, Error: "invalid cancel params"}
	}
	if params.SessionID != s.sessionID {
		return Response{ID: req.ID, Error: "stale session"}
	}

	s.sessionID = ""
	s.session.Cancel()
	return Response{ID: req.ID, Result: struct{}{}}
}

func (s *Server) handleStats(req Request) Response {
	if s.queries == nil {
		return Response{ID: req.ID, Error: "stats not available"}
	}
	result := s.queries.StatsSnapshot()
	result.Uptime = time.Since(s.started).Round(time.Second).String()
	return Response{ID: req.ID, Result: result}
}

func (s *Server) handleRefresh(req Request) Response {
	if s.queries == nil {
		return Response{ID: req.ID, Error: "refresh not available"}
	}
	result, err := s.queries.Refresh()
	if err != nil {
		return Response{ID: req.ID, Error: err.Error()}
	}
	return Response{ID: req.ID, Result: result}
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}

// decodeParams re-marshals the generic params into the typed struct.
func decodeParams(params interface{}, dst interface{}) error {
	data, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}

func toRows(results []rank.Ranked) []ResultRow {
	rows := make([]ResultRow, len(results))
	for i, r := range results {
		rows[i] = ResultRow{ID: r.ID, Name: r.Name, Score: r.Score, Positions: r.Positions}
	}
	return rows
}
