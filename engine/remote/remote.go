package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-tides/engine/input"
	"github.com/gorilla/websocket"
)

const (
	MessageTypeKey    = "key"
	MessageTypeMouse  = "mouse"
	MessageTypeToggle = "toggle"
	MessageTypeAck    = "ack"
	MessageTypeError  = "error"

	// DefaultPath is the HTTP path the WebSocket endpoint is served on.
	DefaultPath = "/ws"

	defaultReadLimit = 4096
)

// Message is one client request. Only the fields for Type are read.
type Message struct {
	Type    string  `json:"type"`
	Action  string  `json:"action,omitempty"`
	Pressed bool    `json:"pressed,omitempty"`
	DX      float32 `json:"dx,omitempty"`
	DY      float32 `json:"dy,omitempty"`
	Name    string  `json:"name,omitempty"`
}

// Reply is sent once for every Message received.
type Reply struct {
	Type  string `json:"type"`
	Error string `json:"error,omitempty"`
}

var (
	ErrUnknownType   = errors.New("unknown message type")
	ErrUnknownAction = errors.New("unknown action")
	ErrUnknownToggle = errors.New("unknown toggle")
)

var movementActions = map[string]input.Action{
	"forward":  input.ActionMoveForward,
	"backward": input.ActionMoveBackward,
	"left":     input.ActionMoveLeft,
	"right":    input.ActionMoveRight,
}

// Apply mutates state according to msg.
//
// Parameters:
//   - state: the input state to drive
//   - msg: the decoded client message
//
// Returns:
//   - error: an error if the message type, action or toggle name is not recognized
func Apply(state input.State, msg Message) error {
	switch msg.Type {
	case MessageTypeKey:
		action, ok := movementActions[msg.Action]
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownAction, msg.Action)
		}
		state.SetAction(action, msg.Pressed)
	case MessageTypeMouse:
		state.AddMouseDelta(msg.DX, msg.DY)
	case MessageTypeToggle:
		switch msg.Name {
		case "fog":
			state.ToggleFog()
		case "lights", "lighting":
			state.ToggleLighting()
		case "animation":
			state.ToggleAnimation()
		default:
			return fmt.Errorf("%w: %q", ErrUnknownToggle, msg.Name)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownType, msg.Type)
	}
	return nil
}

// Server accepts WebSocket connections and applies their messages to an input.State.
type Server interface {
	// Handler returns the HTTP handler serving the WebSocket endpoint.
	//
	// Returns:
	//   - http.Handler: the handler
	Handler() http.Handler

	// ListenAndServe serves on addr until ctx is cancelled.
	//
	// Parameters:
	//   - ctx: cancelling it shuts the server down
	//   - addr: TCP listen address
	//
	// Returns:
	//   - error: listen errors; nil after a clean shutdown
	ListenAndServe(ctx context.Context, addr string) error

	// Connections returns the number of open connections.
	//
	// Returns:
	//   - int: open connection count
	Connections() int
}

type serverImpl struct {
	mu       *sync.Mutex
	state    input.State
	upgrader websocket.Upgrader
	path     string

	readLimit    int64
	writeTimeout time.Duration

	conns  int
	nextID int
	logger *slog.Logger
}

var _ Server = &serverImpl{}

// NewServer creates a Server driving state.
//
// Parameters:
//   - state: the input state messages are applied to
//   - options: functional options to configure the server
//
// Returns:
//   - Server: the new server
func NewServer(state input.State, options ...ServerBuilderOption) Server {
	s := &serverImpl{
		mu:    &sync.Mutex{},
		state: state,
		upgrader: websocket.Upgrader{},
		path:         DefaultPath,
		readLimit:    defaultReadLimit,
		writeTimeout: 5 * time.Second,
		logger:       slog.Default().With("component", "remote"),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// originChecker accepts requests without an Origin header, same-origin requests, and
// requests from one of allowed. A "*" entry accepts every origin.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.ToLower(strings.TrimRight(o, "/"))] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if set[strings.ToLower(origin)] {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

func (s *serverImpl) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.path, s.handleWS)
	return mux
}

func (s *serverImpl) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("remote: listen %s: %w", addr, err)
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("remote input listening", "addr", ln.Addr().String(), "path", s.path)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("remote: serve: %w", err)
	}
	return nil
}

func (s *serverImpl) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conns
}

func (s *serverImpl) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.readLimit)

	s.mu.Lock()
	s.conns++
	s.nextID++
	id := s.nextID
	s.mu.Unlock()

	log := s.logger.With("conn", id, "remote", r.RemoteAddr)
	log.Info("remote connection opened")
	defer func() {
		s.mu.Lock()
		s.conns--
		s.mu.Unlock()
		log.Info("remote connection closed")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("remote read failed", "error", err)
			}
			return
		}

		reply := Reply{Type: MessageTypeAck}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			reply = Reply{Type: MessageTypeError, Error: fmt.Sprintf("decode: %v", err)}
		} else if err := Apply(s.state, msg); err != nil {
			reply = Reply{Type: MessageTypeError, Error: err.Error()}
		}
		if reply.Type == MessageTypeError {
			log.Debug("remote message rejected", "error", reply.Error)
		}

		_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("remote write failed", "error", err)
			return
		}
	}
}
