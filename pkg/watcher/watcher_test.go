package watcher

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherDetectsFileChange(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "edges.json")
	if err := os.WriteFile(tmpFile, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	var changed atomic.Bool
	w, err := New(tmpFile,
		WithDebounceDuration(50*time.Millisecond),
		WithOnChange(func() { changed.Store(true) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(tmpFile, []byte(`[{"source":"a","target":"b"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for !changed.Load() && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if !changed.Load() {
		t.Error("change not detected")
	}
}

func TestWatcherPollingMode(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "edges.json")
	if err := os.WriteFile(tmpFile, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	var changed atomic.Bool
	w, err := New(tmpFile,
		WithForcePoll(true),
		WithPollInterval(30*time.Millisecond),
		WithDebounceDuration(20*time.Millisecond),
		WithOnChange(func() { changed.Store(true) }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling mode")
	}

	// Size change makes polling detection robust against mtime
	// granularity.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(tmpFile, []byte(`[{"source":"a","target":"b","weight":2}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for !changed.Load() && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if !changed.Load() {
		t.Error("change not detected in polling mode")
	}
}

func TestWatcherDoubleStart(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "edges.json")
	if err := os.WriteFile(tmpFile, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := New(tmpFile)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("second Start = %v, want ErrAlreadyStarted", err)
	}
}

func TestWatcherChangedChannel(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "edges.json")
	if err := os.WriteFile(tmpFile, []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := New(tmpFile,
		WithForcePoll(true),
		WithPollInterval(30*time.Millisecond),
		WithDebounceDuration(20*time.Millisecond),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(tmpFile, []byte(`[{"source":"x","target":"y"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changed():
	case <-time.After(3 * time.Second):
		t.Error("no signal on Changed channel")
	}
}
