package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/me/goblocks/internal/logging"
	"github.com/me/goblocks/pkg/model"
)

// stubCore fakes the scheduler surface.
type stubCore struct {
	states    []model.BlockState
	refreshed [][2]string
	full      bool
	lines     chan []byte
}

func (c *stubCore) Snapshot() []model.BlockState { return c.states }

func (c *stubCore) Refresh(name, instance string) bool {
	if c.full {
		return false
	}
	c.refreshed = append(c.refreshed, [2]string{name, instance})
	return true
}

func (c *stubCore) Subscribe() (<-chan []byte, func()) {
	return c.lines, func() {}
}

func newTestServer(t *testing.T) (*Server, *stubCore) {
	t.Helper()
	core := &stubCore{
		states: []model.BlockState{
			model.Block{Name: "time", FullText: "12:00"}.RuntimeState(),
		},
		lines: make(chan []byte, 4),
	}
	return New(core, logging.Discard()), core
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "healthy" {
		t.Errorf("status = %q", resp["status"])
	}
}

func TestHandleStatus(t *testing.T) {
	s, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var states []map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&states); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(states) != 1 || states[0]["name"] != "time" {
		t.Errorf("states = %v", states)
	}
}

func TestHandleRefresh(t *testing.T) {
	s, core := newTestServer(t)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/blocks/vol/refresh?instance=0", nil))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(core.refreshed) != 1 || core.refreshed[0] != [2]string{"vol", "0"} {
		t.Errorf("refreshed = %v", core.refreshed)
	}
}

func TestHandleRefresh_QueueFull(t *testing.T) {
	s, core := newTestServer(t)
	core.full = true

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/blocks/vol/refresh", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHandleStream(t *testing.T) {
	s, core := newTestServer(t)
	ts := httptest.NewServer(s)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	want := `[{"full_text":"12:00","name":"time"}]`
	core.lines <- []byte(want)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != want {
		t.Errorf("msg = %s, want %s", msg, want)
	}
}
