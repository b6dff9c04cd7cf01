// Package server publishes scan progress to browsers: a status page at /,
// a websocket feed at /ws and JSON/PNG snapshots under /api.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/soocke/cube-scanner-go/assets"
	"github.com/soocke/cube-scanner-go/domain/capture"
	"github.com/soocke/cube-scanner-go/domain/scan"
	"github.com/soocke/cube-scanner-go/domain/solve"
	"github.com/soocke/cube-scanner-go/ui/images"
)

const (
	writeTimeout    = 2 * time.Second
	shutdownTimeout = 3 * time.Second
	eventBuffer     = 8
)

// FrameSource supplies the latest captured frame for /api/frame.png.
type FrameSource interface {
	LatestFrame() capture.FrameSnapshot
}

// client has two queues: status frames keep only the newest, events such
// as solve results are queued.
type client struct {
	status chan StatusMessage
	events chan any
}

// Server fans frame statuses out to websocket clients.
type Server struct {
	logger *slog.Logger
	frames FrameSource

	mu      sync.RWMutex
	clients map[*client]struct{}

	latest atomic.Pointer[StatusMessage]
	frame  atomic.Pointer[scan.FrameStatus]
	solved atomic.Pointer[SolvedMessage]
}

// New creates a server. frames may be nil, in which case /api/frame.png
// answers 404. Otherwise the frame is served with the grid overlay of the
// last published status.
func New(logger *slog.Logger, frames FrameSource) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{logger: logger, frames: frames, clients: make(map[*client]struct{})}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/frame.png", s.handleFrame)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("status server listening", "addr", addr)
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Clients returns the number of connected websocket clients.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Publish broadcasts a frame status. It never blocks: a slow client only
// sees the newest status.
func (s *Server) Publish(st scan.FrameStatus) {
	m := NewStatusMessage(st)
	s.latest.Store(&m)
	s.frame.Store(&st)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		select {
		case c.status <- m:
			continue
		default:
		}
		select {
		case <-c.status:
		default:
		}
		select {
		case c.status <- m:
		default:
		}
	}
}

// PublishSolution broadcasts a solve result.
func (s *Server) PublishSolution(sol solve.Solution, err error) {
	m := NewSolvedMessage(sol, err)
	s.solved.Store(&m)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		select {
		case c.events <- m:
		default:
			s.logger.Warn("dropping solve event for slow client")
		}
	}
}

// Reset forgets the cached solve result, e.g. when a new scan starts.
func (s *Server) Reset() {
	s.solved.Store(nil)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.Error("websocket accept error", "error", err)
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

	// The feed is one-way; CloseRead discards client frames and cancels
	// ctx when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	c := &client{status: make(chan StatusMessage, 1), events: make(chan any, eventBuffer)}
	if m := s.latest.Load(); m != nil {
		c.status <- *m
	}
	if m := s.solved.Load(); m != nil {
		c.events <- *m
	}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
	}()
	s.logger.Info("websocket connected", "remote", r.RemoteAddr)

	for {
		var msg any
		select {
		case <-ctx.Done():
			s.logger.Debug("websocket closed", "remote", r.RemoteAddr)
			return
		case m := <-c.status:
			msg = m
		case m := <-c.events:
			msg = m
		}
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := wsjson.Write(wctx, conn, msg)
		cancel()
		if err != nil {
			s.logger.Debug("websocket write error", "error", err)
			return
		}
	}
}

type stateResponse struct {
	Status   *StatusMessage `json:"status"`
	Solution *SolvedMessage `json:"solution,omitempty"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(assets.StatusPage)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(stateResponse{Status: s.latest.Load(), Solution: s.solved.Load()})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	if s.frames == nil {
		http.NotFound(w, r)
		return
	}
	snap := s.frames.LatestFrame()
	if snap.Image == nil {
		http.Error(w, "no frame captured yet", http.StatusServiceUnavailable)
		return
	}
	img := snap.Image
	if st := s.frame.Load(); st != nil {
		img = images.Overlay(img, *st)
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(images.EncodePNG(img))
}
