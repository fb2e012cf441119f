// Package server exposes the live session over HTTP and WebSocket for the
// browser front end.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/oscilab/internal/config"
	"github.com/san-kum/oscilab/internal/oscillator"
	"github.com/san-kum/oscilab/internal/report"
	"github.com/san-kum/oscilab/internal/session"
)

const shutdownTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type Server struct {
	mu      sync.Mutex
	session *session.Session
	fps     int
	logger  *zap.Logger
	mux     *http.ServeMux
}

func New(sess *session.Session, cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	fps := config.DefaultFPS
	if cfg != nil && cfg.FPS > 0 {
		fps = cfg.FPS
	}
	s := &Server{
		session: sess,
		fps:     fps,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/systems", s.handleSystems)
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("GET /api/report", s.handleReport)
	s.mux.HandleFunc("GET /api/series", s.handleSeries)
	s.mux.HandleFunc("POST /api/system", s.handleSystem)
	s.mux.HandleFunc("POST /api/control", s.handleControl)
	s.mux.HandleFunc("POST /api/params", s.handleParams)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	s.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found: "+r.URL.Path)
	})
}

func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) interval() time.Duration {
	return time.Second / time.Duration(s.fps)
}

// Run serves on addr and advances the session at the configured frame
// rate until ctx is cancelled or either side fails.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:     s.mux,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()), zap.Int("fps", s.fps))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return s.tickLoop(ctx)
	})

	return g.Wait()
}

func (s *Server) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.interval())
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.mu.Lock()
			s.session.Tick(dt)
			s.mu.Unlock()
		}
	}
}

// State is one frame of the live session.
type State struct {
	System           oscillator.Kind     `json:"system"`
	Title            string              `json:"title"`
	Running          bool                `json:"running"`
	SlowMotion       bool                `json:"slow_motion"`
	AngularFrequency float64             `json:"angular_frequency"`
	Period           float64             `json:"period"`
	Snapshot         oscillator.Snapshot `json:"snapshot"`
	Parameters       oscillator.Params   `json:"parameters"`
}

func (s *Server) state() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.session.Active()
	return State{
		System:           o.Kind(),
		Title:            o.Kind().Title(),
		Running:          s.session.Running(),
		SlowMotion:       s.session.SlowMotion(),
		AngularFrequency: o.AngularFrequency(),
		Period:           o.Period(),
		Snapshot:         s.session.Snapshot(),
		Parameters:       o.Parameters(),
	}
}

type systemInfo struct {
	Kind       oscillator.Kind   `json:"kind"`
	Title      string            `json:"title"`
	Parameters oscillator.Params `json:"parameters"`
	Sliders    []session.Slider  `json:"sliders"`
}

func (s *Server) handleSystems(w http.ResponseWriter, r *http.Request) {
	systems := make([]systemInfo, 0, len(oscillator.Kinds()))
	for _, kind := range oscillator.Kinds() {
		o, err := oscillator.New(kind)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		systems = append(systems, systemInfo{
			Kind:       kind,
			Title:      kind.Title(),
			Parameters: o.Parameters(),
			Sliders:    session.Sliders(kind),
		})
	}
	writeJSON(w, http.StatusOK, systems)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rep := report.Build(s.session.Active())
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	samples := s.session.Series().Samples()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, samples)
}

type systemRequest struct {
	System string `json:"system"`
}

func (s *Server) handleSystem(w http.ResponseWriter, r *http.Request) {
	var req systemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	kind, err := oscillator.ParseKind(req.System)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	err = s.session.Switch(kind)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}

type controlRequest struct {
	Action string `json:"action"`
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	s.mu.Lock()
	switch req.Action {
	case "start":
		s.session.Start()
	case "pause":
		s.session.Pause()
	case "reset":
		s.session.Reset()
	case "slow_motion":
		s.session.ToggleSlowMotion()
	default:
		s.mu.Unlock()
		writeError(w, http.StatusBadRequest, "unknown action: "+req.Action)
		return
	}
	s.mu.Unlock()

	s.logger.Debug("control", zap.String("action", req.Action))
	writeJSON(w, http.StatusOK, s.state())
}

type paramRequest struct {
	Key   string   `json:"key"`
	Value *float64 `json:"value"`
}

func (s *Server) handleParams(w http.ResponseWriter, r *http.Request) {
	var req paramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "missing value")
		return
	}

	s.mu.Lock()
	err := s.session.CheckParam(req.Key, *req.Value)
	if err == nil {
		err = s.session.SetParam(req.Key, *req.Value)
	}
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.state())
}

// handleWebSocket streams State frames at the frame rate until the client
// goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	s.logger.Debug("websocket connected", zap.String("remote", remote))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.interval())
	defer ticker.Stop()

	for {
		if err := conn.SetWriteDeadline(time.Now().Add(time.Second)); err != nil {
			return
		}
		if err := conn.WriteJSON(s.state()); err != nil {
			s.logger.Debug("websocket closed", zap.String("remote", remote), zap.Error(err))
			return
		}

		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// writeJSON encodes before writing the header, so a state holding NaN or
// Inf (unvalidated parameters) turns into a 500 instead of an empty 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(map[string]string{"error": "encode response: " + err.Error()})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
