package gen

import "context"

// AspectRatio selects the frame shape for generated video.
type AspectRatio string

const (
	AspectPortrait  AspectRatio = "9:16"
	AspectLandscape AspectRatio = "16:9"
)

// Valid reports whether the aspect ratio is one the provider accepts.
func (a AspectRatio) Valid() bool {
	return a == AspectPortrait || a == AspectLandscape
}

// Image is a generated or edited picture as raw bytes plus its MIME type.
type Image struct {
	Data     []byte
	MimeType string
}

// Invoker is the generation provider contract. Implementations wrap a remote
// model API; tests substitute fakes. All methods honor context cancellation
// and return raw provider errors suitable for Classify.
type Invoker interface {
	// GenerateImage produces an era-styled portrait from a source image and
	// a full prompt, retrying internally with a fallback prompt when the
	// model answers with text instead of an image.
	GenerateImage(ctx context.Context, source Image, prompt, fallbackPrompt string) (Image, error)

	// EditImage applies a freeform instruction to an existing image.
	EditImage(ctx context.Context, source Image, instruction string) (Image, error)

	// GenerateVideo animates an image and returns the resulting video bytes.
	GenerateVideo(ctx context.Context, source Image, prompt string, aspect AspectRatio) ([]byte, error)

	// GenerateNarration synthesizes speech for the given text and returns
	// raw 16-bit little-endian PCM at NarrationSampleRate.
	GenerateNarration(ctx context.Context, text string) ([]byte, error)
}
