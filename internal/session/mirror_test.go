package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"pastforward/internal/era"
	"pastforward/internal/logging"
	"pastforward/internal/session"
)

type recordingWriter struct {
	mu    sync.Mutex
	calls []map[era.Key]session.ItemRecord
	err   error
}

func (w *recordingWriter) UpdateSessionItems(_ context.Context, _ string, items map[era.Key]session.ItemRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, items)
	return w.err
}

func (w *recordingWriter) callCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.calls)
}

func TestMirrorWritesQueuedSnapshots(t *testing.T) {
	writer := &recordingWriter{}
	mirror := session.NewMirror(writer, logging.NewNop())

	mirror.Enqueue("sess-1", map[era.Key]session.ItemRecord{
		era.Era1950s: {Status: session.StatusDone, ImageRef: "a.png"},
	})
	mirror.Enqueue("sess-1", map[era.Key]session.ItemRecord{
		era.Era1950s: {Status: session.StatusDone, ImageRef: "a.png"},
		era.Era1960s: {Status: session.StatusError, ErrorMessage: "boom"},
	})
	mirror.Close()

	if got := writer.callCount(); got != 2 {
		t.Fatalf("expected 2 writes, got %d", got)
	}
	last := writer.calls[1]
	if last[era.Era1960s].ErrorMessage != "boom" {
		t.Fatalf("final snapshot not preserved: %+v", last)
	}
}

func TestMirrorSkipsEmptySessionID(t *testing.T) {
	writer := &recordingWriter{}
	mirror := session.NewMirror(writer, logging.NewNop())

	mirror.Enqueue("", map[era.Key]session.ItemRecord{
		era.Era1950s: {Status: session.StatusDone},
	})
	mirror.Close()

	if got := writer.callCount(); got != 0 {
		t.Fatalf("expected no writes, got %d", got)
	}
}

func TestMirrorToleratesWriterErrors(t *testing.T) {
	writer := &recordingWriter{err: errors.New("store offline")}
	mirror := session.NewMirror(writer, logging.NewNop())

	mirror.Enqueue("sess-1", map[era.Key]session.ItemRecord{
		era.Era1950s: {Status: session.StatusDone},
	})
	mirror.Enqueue("sess-1", map[era.Key]session.ItemRecord{
		era.Era1950s: {Status: session.StatusError},
	})
	mirror.Close()

	if got := writer.callCount(); got != 2 {
		t.Fatalf("writer errors should not stop the mirror, got %d writes", got)
	}
}
