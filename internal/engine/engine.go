package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"pastforward/internal/config"
	"pastforward/internal/era"
	"pastforward/internal/gen"
	"pastforward/internal/logging"
	"pastforward/internal/notifications"
	"pastforward/internal/session"
)

// Store is the slice of the session store the engine depends on.
type Store interface {
	session.ItemWriter
	CreateSession(ctx context.Context, userID, sourceImage string, eras []era.Key, items map[era.Key]session.ItemRecord) (*session.Session, error)
	GetSession(ctx context.Context, id string) (*session.Session, error)
}

// Engine orchestrates generation for one active session at a time.
type Engine struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    Store
	invoker  gen.Invoker
	notifier notifications.Service
	auth     gen.Authorizer
	player   gen.Player
	mirror   *session.Mirror

	mu     sync.Mutex
	sess   *session.Session
	state  *session.State
	source gen.Image
}

// New assembles an engine and starts its mirror goroutine. Call Close when
// done so queued mirror writes drain.
func New(cfg *config.Config, logger *slog.Logger, store Store, invoker gen.Invoker, notifier notifications.Service, auth gen.Authorizer, player gen.Player) *Engine {
	return &Engine{
		cfg:      cfg,
		logger:   logging.WithComponent(logger, "engine"),
		store:    store,
		invoker:  invoker,
		notifier: notifier,
		auth:     auth,
		player:   player,
		mirror:   session.NewMirror(store, logger),
	}
}

// Close drains outstanding mirror writes.
func (e *Engine) Close() {
	e.mirror.Close()
}

// Session returns the active session, or nil before StartBatch or Load.
func (e *Engine) Session() *session.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess
}

// Snapshot returns the current item map for the active session.
func (e *Engine) Snapshot() map[era.Key]session.ItemRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil
	}
	return e.state.Snapshot()
}

// Load resumes a prior session so single-item operations can run against it.
// The source image is reloaded from its stored reference when still present;
// operations that need it fail with ErrNoSource otherwise.
func (e *Engine) Load(ctx context.Context, sessionID string) (*session.Session, error) {
	sess, err := e.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var source gen.Image
	if data, readErr := os.ReadFile(sess.SourceImage); readErr == nil {
		source = gen.Image{Data: data, MimeType: mimeFromPath(sess.SourceImage)}
	} else {
		e.logger.Warn("source image unavailable for resumed session",
			logging.String(logging.FieldSessionID, sess.ID),
			logging.Error(readErr))
	}

	e.mu.Lock()
	e.sess = sess
	e.state = session.NewState(sess.Items)
	e.source = source
	e.mu.Unlock()

	return sess, nil
}

func (e *Engine) activeState() (*session.State, *session.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil || e.sess == nil {
		return nil, nil, ErrNoSession
	}
	return e.state, e.sess, nil
}

// applyAndMirror commits one record and pushes the resulting snapshot to the
// mirror. The returned snapshot is the authoritative post-update view.
func (e *Engine) applyAndMirror(state *session.State, sessionID string, key era.Key, rec session.ItemRecord) map[era.Key]session.ItemRecord {
	snapshot := state.Apply(key, rec)
	e.mirror.Enqueue(sessionID, snapshot)
	return snapshot
}

func (e *Engine) imageTimeout() time.Duration {
	return time.Duration(e.cfg.Gemini.TimeoutSeconds) * time.Second
}

func (e *Engine) videoTimeout() time.Duration {
	return time.Duration(e.cfg.Gemini.VideoTimeoutSeconds) * time.Second
}

// saveImage writes generated image bytes under the media directory and
// returns the file path used as the item's image reference.
func (e *Engine) saveImage(key era.Key, image gen.Image) (string, error) {
	dir := e.cfg.Paths.MediaDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	name := fmt.Sprintf("%s-%d%s", key, time.Now().UTC().UnixMilli(), extFromMime(image.MimeType))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, image.Data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path, nil
}

func (e *Engine) saveVideo(key era.Key, data []byte) (string, error) {
	dir := e.cfg.Paths.MediaDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	name := fmt.Sprintf("%s-%d.mp4", key, time.Now().UTC().UnixMilli())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write video: %w", err)
	}
	return path, nil
}

// loadImage reads a previously generated image back for edit and animate.
func (e *Engine) loadImage(ref string) (gen.Image, error) {
	data, err := os.ReadFile(ref)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return gen.Image{}, fmt.Errorf("%w: %s", ErrNoSource, ref)
		}
		return gen.Image{}, fmt.Errorf("read image %s: %w", ref, err)
	}
	return gen.Image{Data: data, MimeType: mimeFromPath(ref)}, nil
}

func extFromMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}

func mimeFromPath(path string) string {
	switch filepath.Ext(path) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
