package web

import (
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/session"
	"github.com/vovakirdan/tui-snake/internal/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv := NewServer(DefaultServerConfig(), store, config.Static(config.DefaultSnakeConfig()), session.NewRegistry(), log.New(io.Discard))
	return srv, store
}

func request(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("cannot decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestRoot(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := request(t, srv.Handler(), http.MethodGet, "/app/", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	body := decode[map[string]string](t, rec)
	if body["message"] != "Your API works! (200)" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := request(t, srv.Handler(), http.MethodGet, "/nope", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, expected 404", rec.Code)
	}
	if body := decode[map[string]string](t, rec); body["message"] != "Something Went Wrong!" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestCreateUser(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	tests := []struct {
		name        string
		contentType string
		body        string
		expected    int
	}{
		{"form", "application/x-www-form-urlencoded", "user=ann&pass=secret", http.StatusCreated},
		{"json", "application/json", `{"user":"bob","pass":"hunter2"}`, http.StatusCreated},
		{"legacy passagain", "application/x-www-form-urlencoded", "user=cy&passagain=pw", http.StatusCreated},
		{"duplicate", "application/json", `{"user":"ann","pass":"other"}`, http.StatusConflict},
		{"missing pass", "application/x-www-form-urlencoded", "user=dee", http.StatusBadRequest},
		{"missing user", "application/json", `{"pass":"x"}`, http.StatusBadRequest},
		{"malformed json", "application/json", `{"user":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := request(t, h, http.MethodPost, "/app/new/", tt.contentType, tt.body)
			if rec.Code != tt.expected {
				t.Errorf("status = %d, expected %d (body %s)", rec.Code, tt.expected, rec.Body.String())
			}
		})
	}
}

func TestGetUser(t *testing.T) {
	srv, store := newTestServer(t)
	if err := store.CreateUser("ann", "secret"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.UpdateHighScore("ann", 12); err != nil {
		t.Fatal(err)
	}

	rec := request(t, srv.Handler(), http.MethodGet, "/app/user/ann/secret/", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, expected 200", rec.Code)
	}
	body := decode[map[string]any](t, rec)
	if body["user"] != "ann" || body["highestscore"] != float64(12) {
		t.Errorf("body = %v", body)
	}
	if !strings.Contains(body["message"].(string), "welcome back") {
		t.Errorf("message = %q", body["message"])
	}

	for _, target := range []string{"/app/user/ann/wrong/", "/app/user/nobody/secret/"} {
		if rec := request(t, srv.Handler(), http.MethodGet, target, "", ""); rec.Code != http.StatusUnauthorized {
			t.Errorf("GET %s status = %d, expected 401", target, rec.Code)
		}
	}
}

func TestListUsers(t *testing.T) {
	srv, store := newTestServer(t)

	rec := request(t, srv.Handler(), http.MethodGet, "/app/users/all", "", "")
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("empty list = %s, expected []", rec.Body.String())
	}

	for _, name := range []string{"bob", "ann"} {
		if err := store.CreateUser(name, "pw"); err != nil {
			t.Fatal(err)
		}
	}

	rec = request(t, srv.Handler(), http.MethodGet, "/app/users/all", "", "")
	if strings.Contains(rec.Body.String(), "pw") || strings.Contains(rec.Body.String(), "$2") {
		t.Errorf("user list leaks passwords: %s", rec.Body.String())
	}
	users := decode[[]map[string]any](t, rec)
	if len(users) != 2 || users[0]["user"] != "ann" || users[1]["user"] != "bob" {
		t.Errorf("users = %v", users)
	}
	if _, ok := users[0]["highestscore"]; !ok {
		t.Error("users should carry highestscore")
	}
}

func TestTopScores(t *testing.T) {
	srv, store := newTestServer(t)
	for _, score := range []int{5, 30, 10} {
		if _, err := store.SaveScore("ann", "classic", score, 1); err != nil {
			t.Fatal(err)
		}
	}

	rec := request(t, srv.Handler(), http.MethodGet, "/app/scores/top?limit=2", "", "")
	scores := decode[[]storage.ScoreEntry](t, rec)
	if len(scores) != 2 || scores[0].Score != 30 || scores[1].Score != 10 {
		t.Errorf("scores = %+v", scores)
	}

	if rec := request(t, srv.Handler(), http.MethodGet, "/app/scores/top?limit=abc", "", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, expected 400", rec.Code)
	}
}

func TestBoardUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, target := range []string{"/app/sessions/nope/board.png", "/app/sessions/nope/board.txt"} {
		if rec := request(t, srv.Handler(), http.MethodGet, target, "", ""); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, expected 404", target, rec.Code)
		}
	}
}

func TestPlayRejectsBadCredentials(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := request(t, srv.Handler(), http.MethodGet, "/app/play?user=ann&pass=x", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, expected 401", rec.Code)
	}
}

// readUntil reads messages until match accepts one.
func readUntil(t *testing.T, conn *websocket.Conn, match func(serverMessage) bool) serverMessage {
	t.Helper()
	//nolint:errcheck
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg serverMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON failed: %v", err)
		}
		if match(msg) {
			return msg
		}
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPlayOverWebSocket(t *testing.T) {
	srv, store := newTestServer(t)
	if err := store.CreateUser("ann", "secret"); err != nil {
		t.Fatal(err)
	}

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	q := url.Values{"user": {"ann"}, "pass": {"secret"}, "preset": {"tiny"}}
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/app/play?" + q.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	hello := readUntil(t, conn, func(m serverMessage) bool { return m.Type == "hello" })
	if hello.Session == "" {
		t.Fatal("hello should carry the session ID")
	}
	first := readUntil(t, conn, func(m serverMessage) bool { return m.Type == "snapshot" })
	if first.Snapshot.BoardSize != 9 {
		t.Errorf("board size = %d, expected the tiny preset's 9", first.Snapshot.BoardSize)
	}

	if err := conn.WriteJSON(command{Type: "pause"}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, func(m serverMessage) bool {
		return m.Type == "snapshot" && m.Snapshot.State == snake.StatePaused
	})

	if err := conn.WriteJSON(command{Type: "jump"}); err != nil {
		t.Fatal(err)
	}
	bad := readUntil(t, conn, func(m serverMessage) bool { return m.Type == "error" })
	if !strings.Contains(bad.Message, "jump") {
		t.Errorf("error message = %q", bad.Message)
	}

	// The live game is listed and can be drawn.
	rec := request(t, srv.Handler(), http.MethodGet, "/app/sessions", "", "")
	live := decode[struct {
		Count   int      `json:"count"`
		Players []string `json:"players"`
	}](t, rec)
	if live.Count != 1 || len(live.Players) != 1 || live.Players[0] != "ann" {
		t.Errorf("sessions = %+v", live)
	}

	rec = request(t, srv.Handler(), http.MethodGet, "/app/sessions/"+string(hello.Session)+"/board.png?size=60", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("board status = %d, expected 200", rec.Code)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("board is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 60 || b.Dy() != 60 {
		t.Errorf("board is %dx%d, expected 60x60", b.Dx(), b.Dy())
	}

	rec = request(t, srv.Handler(), http.MethodGet, "/app/sessions/"+string(hello.Session)+"/board.txt", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("text board status = %d, expected 200", rec.Code)
	}
	text := rec.Body.String()
	if !strings.Contains(text, "Score:") || !strings.Contains(text, "Paused") || !strings.Contains(text, "█") {
		t.Errorf("text board = %q, expected the status line, walls and the pause box", text)
	}

	// Leaving ends the game and records the score.
	conn.Close()
	waitFor(t, "session to end", func() bool { return srv.sessions.Count() == 0 })
	waitFor(t, "score to be saved", func() bool {
		scores, err := store.TopScores("tiny", 10)
		return err == nil && len(scores) == 1 && scores[0].Username == "ann"
	})
}

func TestApplyCommand(t *testing.T) {
	sess, err := session.New(session.Options{Seed: 3, Logger: log.New(io.Discard)})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		cmd     command
		wantErr bool
	}{
		{command{Type: "direction", Direction: "left"}, false},
		{command{Type: "direction", Direction: "sideways"}, true},
		{command{Type: "pause"}, false},
		{command{Type: "resume"}, false},
		{command{Type: "new_game"}, false},
		{command{Type: "quit"}, true},
		{command{}, true},
	}

	for _, tt := range tests {
		err := applyCommand(sess, tt.cmd)
		if (err != nil) != tt.wantErr {
			t.Errorf("applyCommand(%+v) error = %v, wantErr %v", tt.cmd, err, tt.wantErr)
		}
	}
}
