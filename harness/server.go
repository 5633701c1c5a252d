// Package harness exposes the decision engine to the game over HTTP and
// WebSocket. Each request is validated, decided under the caller's time
// budget with panics isolated, and answered with a response/error envelope.
package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brensch/wombats/agent"
	"github.com/brensch/wombats/arena"
	"github.com/brensch/wombats/memory"
	"github.com/brensch/wombats/store"
)

// ErrDeadline is reported when a decision does not finish inside its budget.
var ErrDeadline = errors.New("decision deadline exceeded")

const maxRequestBytes = 1 << 20

// Decider picks a command for one turn. *agent.Engine implements it.
type Decider interface {
	Decide(ctx context.Context, state arena.TurnState) (agent.Decision, error)
}

// Recorder receives one row per decided turn. *store.Recorder implements it.
type Recorder interface {
	Record(row store.TurnRow) (bool, error)
}

type Options struct {
	// Reserve is kept back from the caller's time-left for encoding and
	// transport.
	Reserve time.Duration
	// DefaultBudget applies when the request carries no time-left.
	DefaultBudget time.Duration
	// Recorder is optional.
	Recorder Recorder
	Logger   *slog.Logger
	Version  string
}

func DefaultOptions() Options {
	return Options{
		Reserve:       50 * time.Millisecond,
		DefaultBudget: 2 * time.Second,
		Version:       "dev",
	}
}

type InfoResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Engine    string   `json:"engine"`
	Endpoints []string `json:"endpoints"`
}

type Server struct {
	decider Decider
	opts    Options
	log     *slog.Logger
	locks   memory.Locks

	upgrader websocket.Upgrader
}

func NewServer(d Decider, opts Options) *Server {
	def := DefaultOptions()
	if opts.DefaultBudget <= 0 {
		opts.DefaultBudget = def.DefaultBudget
	}
	if opts.Reserve < 0 {
		opts.Reserve = 0
	}
	if opts.Version == "" {
		opts.Version = def.Version
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		decider: d,
		opts:    opts,
		log:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler routes GET /, POST /turn and GET /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/turn", s.handleTurn)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, InfoResponse{
		Name:      "wombat",
		Version:   s.opts.Version,
		Engine:    "geometric",
		Endpoints: []string{"POST /turn", "GET /ws"},
	})
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope(fmt.Errorf("%w: %v", ErrBadRequest, err), nil))
		return
	}
	if len(raw) > maxRequestBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope(fmt.Errorf("%w: body over %d bytes", ErrBadRequest, maxRequestBytes), nil))
		return
	}

	env, err := s.Turn(r.Context(), raw)
	writeJSON(w, statusFor(err), env)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxRequestBytes)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("websocket read ended", "error", err)
			}
			return
		}
		env, _ := s.Turn(ctx, msg)
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(env); err != nil {
			s.log.Warn("websocket write failed", "error", err)
			return
		}
	}
}

// Turn decodes, decides and records one raw request. The envelope is always
// usable; the error is returned as well so transports can pick a status.
func (s *Server) Turn(ctx context.Context, raw []byte) (Envelope, error) {
	start := time.Now()

	req, err := DecodeRequest(raw)
	if err != nil {
		s.log.Warn("turn rejected", "error", err)
		return errorEnvelope(err, nil), err
	}

	var (
		d     agent.Decision
		stack []string
	)
	err = s.locks.Do(req.MatchID, func() error {
		var derr error
		d, stack, derr = s.decide(ctx, req)
		s.record(req, d, time.Since(start), derr)
		return derr
	})

	elapsed := time.Since(start)
	if err != nil {
		s.log.Error("turn failed",
			"match", req.MatchID,
			"elapsed", elapsed,
			"error", err,
		)
		return errorEnvelope(err, stack), err
	}

	s.log.Info("turn",
		"match", req.MatchID,
		"action", string(d.Command.Action),
		"direction", d.Command.Metadata.Direction,
		"reason", string(d.Reason),
		"elapsed", elapsed,
	)
	return Envelope{Response: &Response{Command: d.Command, State: d.SavedState}}, nil
}

func (s *Server) budget(req Request) time.Duration {
	if req.TimeLeftMs <= 0 {
		return s.opts.DefaultBudget
	}
	b := time.Duration(req.TimeLeftMs)*time.Millisecond - s.opts.Reserve
	if b < time.Millisecond {
		b = time.Millisecond
	}
	return b
}

type outcome struct {
	d     agent.Decision
	err   error
	stack []string
}

// decide runs the decider on its own goroutine so a slow decision can be
// abandoned at the deadline and a panic becomes an error payload.
func (s *Server) decide(parent context.Context, req Request) (agent.Decision, []string, error) {
	ctx, cancel := context.WithTimeout(parent, s.budget(req))
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- outcome{
					err:   fmt.Errorf("decision panicked: %v", p),
					stack: strings.Split(strings.TrimSpace(string(debug.Stack())), "\n"),
				}
			}
		}()
		d, err := s.decider.Decide(ctx, req.State)
		done <- outcome{d: d, err: err}
	}()

	select {
	case o := <-done:
		if errors.Is(o.err, context.DeadlineExceeded) {
			return agent.Decision{}, nil, ErrDeadline
		}
		return o.d, o.stack, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return agent.Decision{}, nil, ErrDeadline
		}
		return agent.Decision{}, nil, ctx.Err()
	}
}

func (s *Server) record(req Request, d agent.Decision, elapsed time.Duration, err error) {
	if s.opts.Recorder == nil {
		return
	}
	st := req.State
	row := store.TurnRow{
		MatchID:   req.MatchID,
		X:         int32(st.GlobalCoords[0]),
		Y:         int32(st.GlobalCoords[1]),
		Width:     int32(st.GlobalDimensions[0]),
		Height:    int32(st.GlobalDimensions[1]),
		ElapsedUs: elapsed.Microseconds(),
	}
	if len(st.Arena) > arena.LocalCenter.Y && len(st.Arena[arena.LocalCenter.Y]) > arena.LocalCenter.X {
		row.Orientation = string(st.Arena[arena.LocalCenter.Y][arena.LocalCenter.X].Contents.Orientation)
	}
	if err != nil {
		row.Action = string(arena.ActionNoop)
		row.Error = err.Error()
	} else {
		row.Action = string(d.Command.Action)
		row.Direction = d.Command.Metadata.Direction
		row.Reason = string(d.Reason)
		if blob, encErr := memory.Encode(d.Global); encErr == nil {
			row.Memory = blob
		} else {
			s.log.Warn("encode memory for archive", "match", req.MatchID, "error", encErr)
		}
	}
	if ok, rerr := s.opts.Recorder.Record(row); rerr != nil || !ok {
		s.log.Warn("turn not archived", "match", req.MatchID, "error", rerr)
	}
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBadRequest), errors.Is(err, arena.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, ErrDeadline):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
