package remote

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-tides/engine/input"
	"github.com/gorilla/websocket"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		msgs    []Message
		wantErr error
		check   func(t *testing.T, s input.Snapshot)
	}{
		{
			name: "key press and release",
			msgs: []Message{
				{Type: MessageTypeKey, Action: "forward", Pressed: true},
				{Type: MessageTypeKey, Action: "left", Pressed: true},
				{Type: MessageTypeKey, Action: "left", Pressed: false},
			},
			check: func(t *testing.T, s input.Snapshot) {
				if !s.Forward || s.Left {
					t.Errorf("forward=%v left=%v", s.Forward, s.Left)
				}
			},
		},
		{
			name: "mouse deltas accumulate",
			msgs: []Message{
				{Type: MessageTypeMouse, DX: 3, DY: -1},
				{Type: MessageTypeMouse, DX: 2, DY: -4},
			},
			check: func(t *testing.T, s input.Snapshot) {
				if s.MouseDX != 5 || s.MouseDY != -5 {
					t.Errorf("mouse = %v,%v", s.MouseDX, s.MouseDY)
				}
			},
		},
		{
			name: "toggles flip defaults",
			msgs: []Message{
				{Type: MessageTypeToggle, Name: "fog"},
				{Type: MessageTypeToggle, Name: "lights"},
				{Type: MessageTypeToggle, Name: "animation"},
				{Type: MessageTypeToggle, Name: "animation"},
			},
			check: func(t *testing.T, s input.Snapshot) {
				if s.FogOn || s.LightsOn || !s.AnimationOn {
					t.Errorf("fog=%v lights=%v animation=%v", s.FogOn, s.LightsOn, s.AnimationOn)
				}
			},
		},
		{name: "unknown type", msgs: []Message{{Type: "jump"}}, wantErr: ErrUnknownType},
		{name: "unknown action", msgs: []Message{{Type: MessageTypeKey, Action: "up"}}, wantErr: ErrUnknownAction},
		{name: "unknown toggle", msgs: []Message{{Type: MessageTypeToggle, Name: "rain"}}, wantErr: ErrUnknownToggle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := input.NewState()
			var err error
			for _, m := range tt.msgs {
				if err = Apply(state, m); err != nil {
					break
				}
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Apply() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			tt.check(t, state.Peek())
		})
	}
}

func dial(t *testing.T, s Server) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + DefaultPath
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServerRoundTrip(t *testing.T) {
	state := input.NewState()
	conn := dial(t, NewServer(state))

	tests := []struct {
		name    string
		payload string
		want    Reply
	}{
		{"key", `{"type":"key","action":"forward","pressed":true}`, Reply{Type: MessageTypeAck}},
		{"mouse", `{"type":"mouse","dx":4,"dy":2}`, Reply{Type: MessageTypeAck}},
		{"toggle", `{"type":"toggle","name":"fog"}`, Reply{Type: MessageTypeAck}},
		{"bad json", `{"type":`, Reply{Type: MessageTypeError}},
		{"bad toggle", `{"type":"toggle","name":"rain"}`, Reply{Type: MessageTypeError}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.payload)); err != nil {
				t.Fatalf("write: %v", err)
			}
			_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			var got Reply
			if err := conn.ReadJSON(&got); err != nil {
				t.Fatalf("read: %v", err)
			}
			if got.Type != tt.want.Type {
				t.Errorf("reply type = %q, want %q (error %q)", got.Type, tt.want.Type, got.Error)
			}
			if got.Type == MessageTypeError && got.Error == "" {
				t.Error("error reply without message")
			}
		})
	}

	// Replies are sent after the message is applied, so the state is settled here.
	snap := state.Snapshot()
	if !snap.Forward || snap.FogOn || snap.MouseDX != 4 || snap.MouseDY != 2 {
		t.Errorf("state after messages = %+v", snap)
	}
}

func TestConnections(t *testing.T) {
	s := NewServer(input.NewState())
	conn := dial(t, s)

	// One round trip guarantees the handler has registered the connection.
	if err := conn.WriteJSON(Message{Type: MessageTypeMouse}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var r Reply
	if err := conn.ReadJSON(&r); err != nil {
		t.Fatalf("read: %v", err)
	}
	if n := s.Connections(); n != 1 {
		t.Errorf("Connections() = %d, want 1", n)
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for s.Connections() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := s.Connections(); n != 0 {
		t.Errorf("Connections() after close = %d, want 0", n)
	}
}

func TestOriginCheck(t *testing.T) {
	tests := []struct {
		name    string
		options []ServerBuilderOption
		origin  string
		wantOK  bool
	}{
		{"no origin header", nil, "", true},
		{"foreign origin rejected", nil, "http://evil.example", false},
		{"listed origin", []ServerBuilderOption{WithAllowedOrigins("http://evil.example/")}, "http://evil.example", true},
		{"unlisted origin", []ServerBuilderOption{WithAllowedOrigins("http://localhost:3000")}, "http://evil.example", false},
		{"wildcard", []ServerBuilderOption{WithAllowedOrigins("*")}, "http://evil.example", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(NewServer(input.NewState(), tt.options...).Handler())
			defer srv.Close()

			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + DefaultPath
			conn, resp, err := websocket.DefaultDialer.Dial(wsURL, header)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("dial: %v", err)
				}
				conn.Close()
				return
			}
			if err == nil {
				conn.Close()
				t.Fatal("dial succeeded, want handshake rejected")
			}
			if resp == nil || resp.StatusCode != http.StatusForbidden {
				t.Errorf("response = %v, want 403", resp)
			}
		})
	}
}

func TestOriginCheckSameOrigin(t *testing.T) {
	srv := httptest.NewServer(NewServer(input.NewState()).Handler())
	defer srv.Close()

	header := http.Header{"Origin": []string{srv.URL}}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+DefaultPath, header)
	if err != nil {
		t.Fatalf("same-origin dial: %v", err)
	}
	conn.Close()
}
