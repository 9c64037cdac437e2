package gen

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Narration audio arrives as headerless 16-bit little-endian PCM.
const (
	NarrationSampleRate = 24000
	NarrationChannels   = 1
)

// Player takes decoded narration audio and makes it audible or durable.
type Player interface {
	// Play stores or plays a finished narration clip and returns a
	// reference to it. The era key names the clip.
	Play(eraKey string, pcm []byte) (string, error)
}

// WAVFromPCM16 wraps raw 16-bit little-endian PCM samples in a RIFF/WAVE
// container so standard players can open the narration output.
func WAVFromPCM16(pcm []byte, sampleRate, channels int) ([]byte, error) {
	if len(pcm) == 0 {
		return nil, errors.New("empty pcm data")
	}
	if len(pcm)%2 != 0 {
		return nil, fmt.Errorf("pcm data length %d is not sample-aligned", len(pcm))
	}
	if sampleRate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("invalid audio format: rate=%d channels=%d", sampleRate, channels)
	}

	const (
		bitsPerSample = 16
		headerSize    = 44
	)
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	buf := make([]byte, headerSize+len(pcm))
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+len(pcm)))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1)
	binary.LittleEndian.PutUint16(buf[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(buf[34:36], bitsPerSample)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(len(pcm)))
	copy(buf[headerSize:], pcm)
	return buf, nil
}

// FilePlayer writes narration clips as WAV files under the media directory.
type FilePlayer struct {
	dir string
}

// NewFilePlayer builds a player rooted at the given media directory.
func NewFilePlayer(mediaDir string) *FilePlayer {
	return &FilePlayer{dir: mediaDir}
}

// Play writes the clip and returns the file path.
func (p *FilePlayer) Play(eraKey string, pcm []byte) (string, error) {
	wav, err := WAVFromPCM16(pcm, NarrationSampleRate, NarrationChannels)
	if err != nil {
		return "", fmt.Errorf("encode narration: %w", err)
	}
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	name := fmt.Sprintf("narration-%s-%d.wav", eraKey, time.Now().UTC().UnixMilli())
	path := filepath.Join(p.dir, name)
	if err := os.WriteFile(path, wav, 0o644); err != nil {
		return "", fmt.Errorf("write narration: %w", err)
	}
	return path, nil
}
