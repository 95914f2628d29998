package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/session"
)

// lockedBuffer is a bytes.Buffer safe for the watcher goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.log")
	t.Setenv("SNAKE_LOG", path)

	out := openLogFile()
	if _, err := io.WriteString(out, "hello\n"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello\n" {
		t.Errorf("log file = %q, expected %q", data, "hello\n")
	}
	if err := out.Close(); err == nil {
		t.Error("second Close should fail once the file is closed")
	}

	t.Setenv("SNAKE_LOG", "")
	out = openLogFile()
	if _, err := io.WriteString(out, "dropped"); err != nil {
		t.Errorf("write to discard failed: %v", err)
	}
	if err := out.Close(); err != nil {
		t.Errorf("Close on discard = %v, expected nil", err)
	}
}

func TestWatchConfigLogsReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snake.yaml")
	if err := os.WriteFile(path, []byte("board:\n  size: 15\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	flagConfig, flagDifficulty = path, ""
	t.Cleanup(func() { flagConfig = "" })

	var out lockedBuffer
	logger := log.New(&out)

	watcher, err := loadConfig(logger)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sessions := session.NewRegistry()
	watchConfig(ctx, watcher, sessions, logger)

	if err := os.WriteFile(path, []byte("board:\n  size: 21\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := watcher.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if watcher.Current().Board.Size != 21 {
		t.Errorf("board size = %d, expected 21", watcher.Current().Board.Size)
	}
	logged := out.String()
	if !strings.Contains(logged, "new games use the reloaded settings") || !strings.Contains(logged, "live_games=0") {
		t.Errorf("log = %q, expected the reload line with the live game count", logged)
	}
}
