package control

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/junsooki/asciicam/internal/input"
)

// Executor runs a command and returns its result.
type Executor func(ctx context.Context, cmd input.Command) (input.Result, error)

// OnLoop returns an Executor that runs each command through post, which
// must execute the callback on the host loop goroutine, and waits for it.
func OnLoop(post func(func()), run Executor) Executor {
	type reply struct {
		res input.Result
		err error
	}
	return func(ctx context.Context, cmd input.Command) (input.Result, error) {
		ch := make(chan reply, 1)
		post(func() {
			res, err := run(ctx, cmd)
			ch <- reply{res, err}
		})
		select {
		case r := <-ch:
			return r.res, r.err
		case <-ctx.Done():
			return input.Result{}, ctx.Err()
		}
	}
}

// Server serves the control surface over WebSocket. It carries commands and
// their replies only.
type Server struct {
	exec     Executor
	timeout  time.Duration
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu    sync.Mutex
	srv   *http.Server
	conns map[*websocket.Conn]struct{}
}

// NewServer creates a control server. Each command gets timeout to finish.
func NewServer(exec Executor, timeout time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Server{
		exec:    exec,
		timeout: timeout,
		logger:  logger.With("component", "control"),
		conns:   make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns the HTTP handler serving Path.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.handleWS)
	return mux
}

// ListenAndServe listens on addr and serves in the background. It returns
// the bound address.
func (s *Server) ListenAndServe(addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.mu.Lock()
	s.srv = srv
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("control server stopped", "error", err)
		}
	}()
	s.logger.Info("control surface listening", "addr", ln.Addr().String())
	return ln.Addr(), nil
}

// Close stops the listener and drops open connections.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.Close()
	}
	s.conns = map[*websocket.Conn]struct{}{}
	if s.srv == nil {
		return nil
	}
	return s.srv.Close()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("control upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
	s.logger.Debug("control client connected", "remote", r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
	}()
	s.readLoop(r.Context(), conn)
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("control read ended", "error", err)
			}
			return
		}
		reply := s.dispatch(ctx, msg)
		if err := conn.WriteJSON(reply); err != nil {
			s.logger.Warn("control write failed", "error", err)
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, msg Message) Message {
	reply := Message{ID: msg.ID, Timestamp: time.Now().UnixMilli()}
	switch msg.Type {
	case TypePing:
		reply.Type = TypePong
	case TypeCommand:
		if msg.Command == nil {
			reply.Type = TypeError
			reply.Msg = "command message without command"
			return reply
		}
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		res, err := s.exec(ctx, *msg.Command)
		if err != nil {
			reply.Type = TypeError
			reply.Msg = err.Error()
			reply.Result = &res
			return reply
		}
		reply.Type = TypeResult
		reply.Result = &res
	default:
		reply.Type = TypeError
		reply.Msg = "unknown message type " + msg.Type
	}
	return reply
}
