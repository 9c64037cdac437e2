package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pastforward/internal/config"
	"pastforward/internal/era"
	"pastforward/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyBatchStarted(context.Background(), 3); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type capturedRequest struct {
	title    string
	tags     string
	priority string
	body     string
}

func newCaptureServer(t *testing.T, captured *capturedRequest) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		captured.title = r.Header.Get("Title")
		captured.tags = r.Header.Get("Tags")
		captured.priority = r.Header.Get("Priority")
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		captured.body = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server
}

func newNtfyService(t *testing.T, captured *capturedRequest) notifications.Service {
	t.Helper()
	server := newCaptureServer(t, captured)
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.RequestTimeout = 5
	return notifications.NewService(&cfg)
}

func TestNotifyBatchStarted(t *testing.T) {
	var captured capturedRequest
	svc := newNtfyService(t, &captured)

	if err := svc.NotifyBatchStarted(context.Background(), 4); err != nil {
		t.Fatalf("NotifyBatchStarted: %v", err)
	}
	if captured.title != "Past Forward - Batch Started" {
		t.Fatalf("unexpected title %q", captured.title)
	}
	if captured.body != "Started generating 4 era portraits" {
		t.Fatalf("unexpected message %q", captured.body)
	}
	if captured.tags != "pastforward,batch,started" {
		t.Fatalf("unexpected tags %q", captured.tags)
	}
}

func TestNotifyBatchCompletedWithFailures(t *testing.T) {
	var captured capturedRequest
	svc := newNtfyService(t, &captured)

	if err := svc.NotifyBatchCompleted(context.Background(), 3, 1, 95*time.Second); err != nil {
		t.Fatalf("NotifyBatchCompleted: %v", err)
	}
	if captured.title != "Past Forward - Batch Complete (with errors)" {
		t.Fatalf("unexpected title %q", captured.title)
	}
	if captured.body != "Batch complete: 3 succeeded, 1 failed in 1m35s" {
		t.Fatalf("unexpected message %q", captured.body)
	}
}

func TestNotifyItemFailedIsHighPriority(t *testing.T) {
	var captured capturedRequest
	svc := newNtfyService(t, &captured)

	if err := svc.NotifyItemFailed(context.Background(), era.Era1950s, "safety filters"); err != nil {
		t.Fatalf("NotifyItemFailed: %v", err)
	}
	if captured.priority != "high" {
		t.Fatalf("expected high priority, got %q", captured.priority)
	}
	if !strings.Contains(captured.body, "1950s") || !strings.Contains(captured.body, "safety filters") {
		t.Fatalf("unexpected message %q", captured.body)
	}
}

func TestSendSurfacesServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic not found", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	err := svc.TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error from server failure")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Fatalf("unexpected error: %v", err)
	}
}
