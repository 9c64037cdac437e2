package gen_test

import (
	"encoding/binary"
	"os"
	"strings"
	"testing"

	"pastforward/internal/gen"
)

func TestWAVFromPCM16Header(t *testing.T) {
	pcm := make([]byte, 4800)
	wav, err := gen.WAVFromPCM16(pcm, gen.NarrationSampleRate, gen.NarrationChannels)
	if err != nil {
		t.Fatalf("WAVFromPCM16: %v", err)
	}

	if len(wav) != 44+len(pcm) {
		t.Fatalf("expected %d bytes, got %d", 44+len(pcm), len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatalf("bad container magic: %q %q", wav[0:4], wav[8:12])
	}
	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != gen.NarrationSampleRate {
		t.Fatalf("expected sample rate %d, got %d", gen.NarrationSampleRate, rate)
	}
	if channels := binary.LittleEndian.Uint16(wav[22:24]); channels != gen.NarrationChannels {
		t.Fatalf("expected %d channel, got %d", gen.NarrationChannels, channels)
	}
	if size := binary.LittleEndian.Uint32(wav[40:44]); int(size) != len(pcm) {
		t.Fatalf("expected data size %d, got %d", len(pcm), size)
	}
}

func TestWAVFromPCM16RejectsBadInput(t *testing.T) {
	if _, err := gen.WAVFromPCM16(nil, gen.NarrationSampleRate, 1); err == nil {
		t.Fatal("expected error for empty pcm")
	}
	if _, err := gen.WAVFromPCM16([]byte{1, 2, 3}, gen.NarrationSampleRate, 1); err == nil {
		t.Fatal("expected error for odd-length pcm")
	}
	if _, err := gen.WAVFromPCM16([]byte{1, 2}, 0, 1); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestFilePlayerWritesClip(t *testing.T) {
	dir := t.TempDir()
	player := gen.NewFilePlayer(dir)

	path, err := player.Play("1950s", []byte{0, 1, 0, 1})
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !strings.Contains(path, "narration-1950s") || !strings.HasSuffix(path, ".wav") {
		t.Fatalf("unexpected clip path: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read clip: %v", err)
	}
	if string(data[0:4]) != "RIFF" {
		t.Fatal("clip is not a WAV file")
	}
}
