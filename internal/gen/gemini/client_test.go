package gemini_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"pastforward/internal/gen"
	"pastforward/internal/gen/gemini"
	"pastforward/internal/testsupport"
)

func newTestClient(t *testing.T, handler http.Handler) *gemini.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := testsupport.NewConfig(t)
	return gemini.NewClient(cfg,
		gemini.WithBaseURL(server.URL),
		gemini.WithPollInterval(time.Millisecond),
	)
}

func imageResponse(t *testing.T, data []byte, mimeType string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]any{{
					"inlineData": map[string]string{
						"mimeType": mimeType,
						"data":     base64.StdEncoding.EncodeToString(data),
					},
				}},
			},
		}},
	})
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return body
}

func textResponse(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]any{{"text": text}},
			},
		}},
	})
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return body
}

var testSource = gen.Image{Data: []byte("source-bytes"), MimeType: "image/png"}

func TestGenerateImageSuccess(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") == "" {
			t.Error("missing api key header")
		}
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write(imageResponse(t, []byte("result"), "image/png"))
	}))

	image, err := client.GenerateImage(context.Background(), testSource, "full prompt", "fallback prompt")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(image.Data) != "result" || image.MimeType != "image/png" {
		t.Fatalf("unexpected image: %q %s", image.Data, image.MimeType)
	}
}

func TestGenerateImageFallsBackOnTextResponse(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Write(textResponse(t, "I cannot draw that"))
			return
		}
		w.Write(imageResponse(t, []byte("fallback-result"), "image/png"))
	}))

	image, err := client.GenerateImage(context.Background(), testSource, "full prompt", "fallback prompt")
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(image.Data) != "fallback-result" {
		t.Fatalf("expected fallback result, got %q", image.Data)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 requests, got %d", calls.Load())
	}
}

func TestGenerateImageExhaustsBothPrompts(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(textResponse(t, "still text"))
	}))

	_, err := client.GenerateImage(context.Background(), testSource, "full prompt", "fallback prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "failed with both original and fallback prompts") {
		t.Fatalf("unexpected error: %v", err)
	}
	if category, _ := gen.ClassifyDetail(err); category != gen.CategoryExhausted {
		t.Fatalf("expected exhausted category, got %s", category)
	}
}

func TestGenerateImageHTTPErrorPassesBodyThrough(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"API key not valid. Please pass a valid API key."}}`, http.StatusBadRequest)
	}))

	_, err := client.GenerateImage(context.Background(), testSource, "prompt", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("raw provider message should survive wrapping: %v", err)
	}
	if category, _ := gen.ClassifyDetail(err); category != gen.CategoryImageFailure {
		t.Fatalf("expected image failure category, got %s (%v)", category, err)
	}
}

func TestVideoHTTPErrorClassifiesAsAuth(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"API key not valid. Please pass a valid API key."}}`, http.StatusBadRequest)
	}))

	_, err := client.GenerateVideo(context.Background(), testSource, "animate", gen.AspectPortrait)
	if err == nil {
		t.Fatal("expected error")
	}
	if category, _ := gen.ClassifyDetail(err); category != gen.CategoryAuthInvalid {
		t.Fatalf("expected auth category, got %s (%v)", category, err)
	}
}

func TestEditImageWrapsFailures(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(textResponse(t, "no edit for you"))
	}))

	_, err := client.EditImage(context.Background(), testSource, "add a hat")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "failed to edit the image") {
		t.Fatalf("unexpected error: %v", err)
	}
	if category, _ := gen.ClassifyDetail(err); category != gen.CategoryEditFailure {
		t.Fatalf("expected edit category, got %s", category)
	}
}

func TestGenerateVideoPollsAndDownloads(t *testing.T) {
	var polls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/models/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"name": "operations/op-123"})
	})
	mux.HandleFunc("/operations/op-123", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		if polls.Add(1) < 3 {
			json.NewEncoder(w).Encode(map[string]any{"name": "operations/op-123", "done": false})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"name": "operations/op-123",
			"done": true,
			"response": map[string]any{
				"generateVideoResponse": map[string]any{
					"generatedSamples": []map[string]any{{
						"video": map[string]string{"uri": "http://" + r.Host + "/files/clip.mp4"},
					}},
				},
			},
		})
	})
	mux.HandleFunc("/files/clip.mp4", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("video-bytes"))
	})

	client := newTestClient(t, mux)
	video, err := client.GenerateVideo(context.Background(), testSource, "animate", gen.AspectPortrait)
	if err != nil {
		t.Fatalf("GenerateVideo: %v", err)
	}
	if string(video) != "video-bytes" {
		t.Fatalf("unexpected video payload: %q", video)
	}
	if polls.Load() < 3 {
		t.Fatalf("expected at least 3 polls, got %d", polls.Load())
	}
}

func TestGenerateVideoOperationError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/models/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"name": "operations/op-err"})
	})
	mux.HandleFunc("/operations/op-err", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"name":  "operations/op-err",
			"done":  true,
			"error": map[string]any{"code": 13, "message": "internal error"},
		})
	})

	client := newTestClient(t, mux)
	_, err := client.GenerateVideo(context.Background(), testSource, "animate", gen.AspectLandscape)
	if err == nil {
		t.Fatal("expected error")
	}
	if category, _ := gen.ClassifyDetail(err); category != gen.CategoryVideoFailure {
		t.Fatalf("expected video failure category, got %s (%v)", category, err)
	}
}

func TestGenerateVideoSafetyBlock(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/models/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"name": "operations/op-blocked"})
	})
	mux.HandleFunc("/operations/op-blocked", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"name": "operations/op-blocked",
			"done": true,
			"response": map[string]any{
				"generateVideoResponse": map[string]any{
					"raiMediaFilteredCount":   1,
					"raiMediaFilteredReasons": []string{"person generation policy"},
				},
			},
		})
	})

	client := newTestClient(t, mux)
	_, err := client.GenerateVideo(context.Background(), testSource, "animate", gen.AspectPortrait)
	if err == nil {
		t.Fatal("expected error")
	}
	if category, _ := gen.ClassifyDetail(err); category != gen.CategoryPromptBlocked {
		t.Fatalf("expected blocked category, got %s (%v)", category, err)
	}
}

func TestGenerateVideoRejectsBadAspect(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	if _, err := client.GenerateVideo(context.Background(), testSource, "animate", gen.AspectRatio("4:3")); err == nil {
		t.Fatal("expected error for invalid aspect ratio")
	}
}

func TestGenerateNarrationDecodesPCM(t *testing.T) {
	pcm := []byte{0, 1, 2, 3}
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request map[string]any
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if _, ok := request["generationConfig"]; !ok {
			t.Error("narration request missing generationConfig")
		}
		w.Write(imageResponse(t, pcm, "audio/L16;rate=24000"))
	}))

	got, err := client.GenerateNarration(context.Background(), "The Roaring Twenties.")
	if err != nil {
		t.Fatalf("GenerateNarration: %v", err)
	}
	if string(got) != string(pcm) {
		t.Fatalf("unexpected pcm: %v", got)
	}
}
