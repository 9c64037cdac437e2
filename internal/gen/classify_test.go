package gen_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"pastforward/internal/gen"
)

func TestClassifyDetail(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		category gen.Category
		contains string
	}{
		{
			name:     "text instead of image",
			err:      errors.New("model responded with text instead of an image"),
			category: gen.CategoryTextResponse,
			contains: "safety filters",
		},
		{
			name:     "both prompts exhausted",
			err:      errors.New("generation failed with both original and fallback prompts"),
			category: gen.CategoryExhausted,
			contains: "multiple attempts",
		},
		{
			name:     "generic image failure",
			err:      errors.New("provider failed to generate an image for 1950s"),
			category: gen.CategoryImageFailure,
			contains: "image generation",
		},
		{
			name:     "edit failure",
			err:      errors.New("provider failed to edit the image"),
			category: gen.CategoryEditFailure,
			contains: "different instruction",
		},
		{
			name:     "invalid key",
			err:      errors.New("400: API key not valid. Please pass a valid API key."),
			category: gen.CategoryAuthInvalid,
			contains: "Generative Language API",
		},
		{
			name:     "invalid key constant",
			err:      errors.New("rpc error: API_KEY_INVALID"),
			category: gen.CategoryAuthInvalid,
			contains: "API Key error",
		},
		{
			name:     "entity not found",
			err:      errors.New("404: Requested entity was not found."),
			category: gen.CategoryAuthInvalid,
			contains: "API Key error",
		},
		{
			name:     "prompt blocked",
			err:      errors.New("video prompt was blocked by safety settings"),
			category: gen.CategoryPromptBlocked,
			contains: "safety filters",
		},
		{
			name:     "video failure",
			err:      errors.New("Video generation failed: operation error"),
			category: gen.CategoryVideoFailure,
			contains: "create a video",
		},
		{
			name:     "unknown",
			err:      errors.New("connection reset by peer"),
			category: gen.CategoryUnknown,
			contains: "unknown error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			category, message := gen.ClassifyDetail(tc.err)
			if category != tc.category {
				t.Fatalf("expected category %s, got %s", tc.category, category)
			}
			if !strings.Contains(message, tc.contains) {
				t.Fatalf("message %q should contain %q", message, tc.contains)
			}
			if got := gen.Classify(tc.err); got != message {
				t.Fatalf("Classify and ClassifyDetail disagree: %q vs %q", got, message)
			}
		})
	}
}

func TestClassifyRuleOrder(t *testing.T) {
	// A wrapped text-response failure also mentions image generation; the
	// earlier, more specific rule must win.
	err := fmt.Errorf("failed to generate an image: model responded with text instead of an image")
	category, _ := gen.ClassifyDetail(err)
	if category != gen.CategoryTextResponse {
		t.Fatalf("expected text response rule to win, got %s", category)
	}
}

func TestClassifyNilError(t *testing.T) {
	category, message := gen.ClassifyDetail(nil)
	if category != gen.CategoryUnknown || !strings.Contains(message, "unknown") {
		t.Fatalf("unexpected nil classification: %s %q", category, message)
	}
}
