package runner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tcpscan/pkg/config"
	"tcpscan/pkg/output"
)

func TestNewListenModePreservesListenerLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listen.csv")
	prior := "Timestamp,Local,Remote\n" +
		"2026-01-01 00:00:01,0.0.0.0:8080,10.0.0.9:51234\n"
	if err := os.WriteFile(path, []byte(prior), 0666); err != nil {
		t.Fatalf("seed listener log: %v", err)
	}

	r, err := New(&config.Options{
		Target:  "127.0.0.1",
		Ports:   "18080",
		Workers: 1,
		Listen:  true,
		Output:  path,
		Loop:    1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.scanner.Release()
	r.writer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read listener log: %v", err)
	}
	if string(data) != prior {
		t.Fatalf("listener log altered by runner construction:\ngot=%q\nwant=%q", string(data), prior)
	}
}

func TestNewListenModeFreshLogStillGetsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listen.csv")

	r, err := New(&config.Options{
		Target:  "127.0.0.1",
		Ports:   "18081",
		Workers: 1,
		Listen:  true,
		Output:  path,
		Loop:    1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.scanner.Release()
	r.writer.Close()

	// The path must still be untouched, so the listener log opens it as a
	// fresh file and writes the header row.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("runner construction must not create the listener log path")
	}

	l, err := output.NewListenLog(path)
	if err != nil {
		t.Fatalf("NewListenLog: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read listener log: %v", err)
	}
	if !strings.HasPrefix(string(data), "Timestamp,Local,Remote\n") {
		t.Fatalf("missing header row: got=%q", string(data))
	}
}
