package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pastforward/internal/config"
	"pastforward/internal/gen"
	"pastforward/internal/logging"
)

const (
	defaultBaseURL      = "https://generativelanguage.googleapis.com/v1beta"
	defaultHTTPTimeout  = 2 * time.Minute
	defaultPollInterval = 5 * time.Second
	narrationVoice      = "Kore"
)

// Client wraps the Generative Language REST API.
type Client struct {
	apiKey         string
	baseURL        string
	imageModel     string
	videoModel     string
	narrationModel string
	pollInterval   time.Duration
	httpClient     *http.Client
	logger         *slog.Logger
}

// Option customizes the Gemini client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithPollInterval overrides the delay between long-running operation polls.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.WithComponent(logger, "gemini")
		}
	}
}

// NewClient constructs a Gemini API client from configuration.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	client := &Client{
		apiKey:         strings.TrimSpace(cfg.Gemini.APIKey),
		baseURL:        defaultBaseURL,
		imageModel:     cfg.Gemini.ImageModel,
		videoModel:     cfg.Gemini.VideoModel,
		narrationModel: cfg.Gemini.NarrationModel,
		pollInterval:   defaultPollInterval,
		httpClient:     &http.Client{Timeout: defaultHTTPTimeout},
		logger:         logging.NewNop(),
	}
	if base := strings.TrimSpace(cfg.Gemini.BaseURL); base != "" {
		client.baseURL = strings.TrimRight(base, "/")
	}
	if cfg.Gemini.PollIntervalSeconds > 0 {
		client.pollInterval = time.Duration(cfg.Gemini.PollIntervalSeconds) * time.Second
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

var _ gen.Invoker = (*Client)(nil)

// GenerateImage produces an era-styled portrait. When the model answers with
// text instead of an image the request is retried once with the fallback
// prompt; if that also fails the combined error is returned.
func (c *Client) GenerateImage(ctx context.Context, source gen.Image, prompt, fallbackPrompt string) (gen.Image, error) {
	image, err := c.requestImage(ctx, source, prompt)
	if err == nil {
		return image, nil
	}
	if fallbackPrompt == "" || !isTextResponse(err) {
		return gen.Image{}, fmt.Errorf("gemini: failed to generate an image: %w", err)
	}

	c.logger.Debug("retrying with fallback prompt", logging.Error(err))
	image, fallbackErr := c.requestImage(ctx, source, fallbackPrompt)
	if fallbackErr != nil {
		return gen.Image{}, fmt.Errorf("gemini: generation failed with both original and fallback prompts: %w", errors.Join(err, fallbackErr))
	}
	return image, nil
}

// EditImage applies a freeform instruction to an existing image.
func (c *Client) EditImage(ctx context.Context, source gen.Image, instruction string) (gen.Image, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return gen.Image{}, errors.New("gemini edit: instruction required")
	}
	image, err := c.requestImage(ctx, source, instruction)
	if err != nil {
		return gen.Image{}, fmt.Errorf("gemini: failed to edit the image: %w", err)
	}
	return image, nil
}

// GenerateVideo animates an image through the long-running video operation
// and downloads the finished clip.
func (c *Client) GenerateVideo(ctx context.Context, source gen.Image, prompt string, aspect gen.AspectRatio) ([]byte, error) {
	if !aspect.Valid() {
		return nil, fmt.Errorf("gemini video: invalid aspect ratio %q", aspect)
	}
	request := videoRequest{
		Instances: []videoInstance{{
			Prompt: prompt,
			Image: &videoImage{
				BytesBase64Encoded: base64.StdEncoding.EncodeToString(source.Data),
				MimeType:           source.MimeType,
			},
		}},
		Parameters: videoParameters{AspectRatio: string(aspect)},
	}

	var operation operationResponse
	endpoint := "/models/" + c.videoModel + ":predictLongRunning"
	if err := c.post(ctx, endpoint, request, &operation); err != nil {
		return nil, fmt.Errorf("gemini: Video generation failed: %w", err)
	}
	if operation.Name == "" {
		return nil, errors.New("gemini: Video generation failed: operation has no name")
	}

	uri, err := c.awaitVideo(ctx, operation.Name)
	if err != nil {
		return nil, err
	}
	return c.download(ctx, uri)
}

// GenerateNarration synthesizes speech and returns raw 16-bit PCM samples.
func (c *Client) GenerateNarration(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("gemini narration: text required")
	}
	request := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: text}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: narrationVoice},
				},
			},
		},
	}

	var response generateContentResponse
	endpoint := "/models/" + c.narrationModel + ":generateContent"
	if err := c.post(ctx, endpoint, request, &response); err != nil {
		return nil, fmt.Errorf("gemini narration: %w", err)
	}
	if response.Error != nil {
		return nil, fmt.Errorf("gemini narration: api error: %s", strings.TrimSpace(response.Error.Message))
	}
	for _, candidate := range response.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.InlineData == nil {
				continue
			}
			pcm, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("gemini narration: decode audio: %w", err)
			}
			return pcm, nil
		}
	}
	return nil, errors.New("gemini narration: response contained no audio")
}

func (c *Client) requestImage(ctx context.Context, source gen.Image, prompt string) (gen.Image, error) {
	request := generateContentRequest{
		Contents: []content{{Parts: []part{
			{InlineData: &inlineData{
				MimeType: source.MimeType,
				Data:     base64.StdEncoding.EncodeToString(source.Data),
			}},
			{Text: prompt},
		}}},
	}

	var response generateContentResponse
	endpoint := "/models/" + c.imageModel + ":generateContent"
	if err := c.post(ctx, endpoint, request, &response); err != nil {
		return gen.Image{}, err
	}
	if response.Error != nil {
		return gen.Image{}, fmt.Errorf("api error: %s", strings.TrimSpace(response.Error.Message))
	}
	if response.PromptFeedback != nil && response.PromptFeedback.BlockReason != "" {
		return gen.Image{}, fmt.Errorf("prompt was blocked: %s", response.PromptFeedback.BlockReason)
	}

	var textParts []string
	for _, candidate := range response.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.InlineData != nil {
				data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
				if err != nil {
					return gen.Image{}, fmt.Errorf("decode image: %w", err)
				}
				return gen.Image{Data: data, MimeType: p.InlineData.MimeType}, nil
			}
			if text := strings.TrimSpace(p.Text); text != "" {
				textParts = append(textParts, text)
			}
		}
	}
	if len(textParts) > 0 {
		return gen.Image{}, fmt.Errorf("model responded with text instead of an image: %q", strings.Join(textParts, " "))
	}
	return gen.Image{}, errors.New("response contained no image")
}

func (c *Client) awaitVideo(ctx context.Context, operationName string) (string, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var operation operationResponse
		if err := c.get(ctx, "/"+strings.TrimPrefix(operationName, "/"), &operation); err != nil {
			return "", fmt.Errorf("gemini: Video generation failed: poll: %w", err)
		}
		if operation.Done {
			return extractVideoURI(operation)
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("gemini: Video generation failed: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func extractVideoURI(operation operationResponse) (string, error) {
	if operation.Error != nil {
		message := strings.TrimSpace(operation.Error.Message)
		if strings.Contains(strings.ToLower(message), "safety") || strings.Contains(strings.ToLower(message), "blocked") {
			return "", fmt.Errorf("gemini: video prompt was blocked: %s", message)
		}
		return "", fmt.Errorf("gemini: Video generation failed: %s", message)
	}
	var videoResponse *videoGenerationResult
	if operation.Response != nil {
		videoResponse = operation.Response.GenerateVideoResponse
	}
	if videoResponse == nil || len(videoResponse.GeneratedSamples) == 0 {
		if videoResponse != nil && videoResponse.RaiMediaFilteredCount > 0 {
			return "", fmt.Errorf("gemini: video prompt was blocked: %s", strings.Join(videoResponse.RaiMediaFilteredReasons, "; "))
		}
		return "", errors.New("gemini: Video generation failed: operation finished without output")
	}
	uri := videoResponse.GeneratedSamples[0].Video.URI
	if uri == "" {
		return "", errors.New("gemini: Video generation failed: missing video uri")
	}
	return uri, nil
}

func (c *Client) download(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini: download request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: download video: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("gemini: download video: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded), out)
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader, out any) error {
	if c.apiKey == "" {
		return errors.New("api key required")
	}
	target, err := url.JoinPath(c.baseURL, endpoint)
	if err != nil {
		return fmt.Errorf("build url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func isTextResponse(err error) bool {
	return err != nil && strings.Contains(err.Error(), "responded with text instead of an image")
}
