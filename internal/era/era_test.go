package era_test

import (
	"strings"
	"testing"

	"pastforward/internal/era"
)

func TestAllErasHavePromptMaterial(t *testing.T) {
	keys := era.All()
	if len(keys) != 12 {
		t.Fatalf("expected 12 eras, got %d", len(keys))
	}
	for _, key := range keys {
		if era.Description(key) == "" {
			t.Errorf("%s: missing description", key)
		}
		if era.StylePrompt(key) == "" {
			t.Errorf("%s: missing style prompt", key)
		}
	}
}

func TestParseNormalizes(t *testing.T) {
	key, ok := era.Parse("  1950S ")
	if !ok || key != era.Era1950s {
		t.Fatalf("expected 1950s, got %q ok=%v", key, ok)
	}
	if _, ok := era.Parse("1850s"); ok {
		t.Fatal("expected unknown era to be rejected")
	}
}

func TestParseListRejectsUnknownAndDedupes(t *testing.T) {
	keys, err := era.ParseList([]string{"1920s", "1920s", "1980s"})
	if err != nil {
		t.Fatalf("ParseList failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != era.Era1920s || keys[1] != era.Era1980s {
		t.Fatalf("unexpected keys: %v", keys)
	}

	if _, err := era.ParseList([]string{"1920s", "renaissance"}); err == nil {
		t.Fatal("expected error for unknown era")
	} else if !strings.Contains(err.Error(), "renaissance") {
		t.Fatalf("error should name the unknown era: %v", err)
	}
}

func TestGenerationPromptEmbedsStyle(t *testing.T) {
	prompt := era.GenerationPrompt(era.Era1970s)
	if !strings.Contains(prompt, "1970s") {
		t.Fatal("prompt should name the era")
	}
	if !strings.Contains(prompt, era.StylePrompt(era.Era1970s)) {
		t.Fatal("prompt should embed the style guidance")
	}
}

func TestFallbackPromptIsSimpler(t *testing.T) {
	full := era.GenerationPrompt(era.Era1940s)
	fallback := era.FallbackPrompt(era.Era1940s)
	if len(fallback) >= len(full) {
		t.Fatal("fallback prompt should be shorter than the full prompt")
	}
	if !strings.Contains(fallback, "1940s") {
		t.Fatal("fallback prompt should name the era")
	}
}
