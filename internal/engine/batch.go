package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pastforward/internal/era"
	"pastforward/internal/gen"
	"pastforward/internal/logging"
	"pastforward/internal/session"
)

// BatchResult summarizes a finished batch.
type BatchResult struct {
	SessionID string
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// StartBatch creates a session for the given eras and processes every era to
// a terminal state with at most the configured number of concurrent
// generation calls. Session creation failure aborts before any worker
// starts. Item failures are recorded, never fatal; StartBatch returns once
// all workers have finished.
func (e *Engine) StartBatch(ctx context.Context, userID string, source gen.Image, sourceRef string, eras []era.Key) (BatchResult, error) {
	if len(eras) == 0 {
		return BatchResult{}, fmt.Errorf("start batch: no eras selected")
	}
	if len(source.Data) == 0 {
		return BatchResult{}, fmt.Errorf("start batch: %w", ErrNoSource)
	}

	items := session.NewBatchItems(eras)
	sess, err := e.store.CreateSession(ctx, userID, sourceRef, eras, items)
	if err != nil {
		return BatchResult{}, fmt.Errorf("create session: %w", err)
	}

	state := session.NewState(items)
	e.mu.Lock()
	e.sess = sess
	e.state = state
	e.source = source
	e.mu.Unlock()

	e.logger.Info("batch started",
		logging.String(logging.FieldSessionID, sess.ID),
		logging.Int("eras", len(eras)),
		logging.Int("concurrency", e.concurrency()))
	if err := e.notifier.NotifyBatchStarted(ctx, len(eras)); err != nil {
		e.logger.Warn("batch start notification failed", logging.Error(err))
	}

	started := time.Now()
	queue := make(chan era.Key, len(eras))
	for _, key := range eras {
		queue <- key
	}
	close(queue)

	var wg sync.WaitGroup
	for i := 0; i < e.concurrency(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range queue {
				e.processBatchEra(ctx, state, sess.ID, key)
			}
		}()
	}
	wg.Wait()

	result := BatchResult{SessionID: sess.ID, Duration: time.Since(started)}
	for _, rec := range state.Snapshot() {
		if rec.Status == session.StatusDone {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	e.logger.Info("batch completed",
		logging.String(logging.FieldSessionID, sess.ID),
		logging.Int("succeeded", result.Succeeded),
		logging.Int("failed", result.Failed),
		logging.Duration("duration", result.Duration))
	if err := e.notifier.NotifyBatchCompleted(ctx, result.Succeeded, result.Failed, result.Duration); err != nil {
		e.logger.Warn("batch completion notification failed", logging.Error(err))
	}

	return result, nil
}

// processBatchEra drives one era to done or error. Failures are classified
// and recorded; they never propagate.
func (e *Engine) processBatchEra(ctx context.Context, state *session.State, sessionID string, key era.Key) {
	state.Begin(key)
	defer state.End(key)

	logger := e.logger.With(
		logging.String(logging.FieldSessionID, sessionID),
		logging.String(logging.FieldEra, string(key)))
	logger.Info("generating era portrait")

	rec := e.generateEraImage(ctx, key)
	e.applyAndMirror(state, sessionID, key, rec)

	if rec.Status == session.StatusError {
		logger.Warn("era generation failed", logging.String(logging.FieldErrorHint, rec.ErrorMessage))
		if err := e.notifier.NotifyItemFailed(ctx, key, rec.ErrorMessage); err != nil {
			logger.Warn("item failure notification failed", logging.Error(err))
		}
		return
	}
	logger.Info("era portrait ready", logging.String("image_ref", rec.ImageRef))
}

// generateEraImage runs one image generation call under the configured
// timeout and returns the terminal record for the era.
func (e *Engine) generateEraImage(ctx context.Context, key era.Key) session.ItemRecord {
	callCtx, cancel := context.WithTimeout(ctx, e.imageTimeout())
	defer cancel()

	e.mu.Lock()
	source := e.source
	e.mu.Unlock()

	image, err := e.invoker.GenerateImage(callCtx, source, era.GenerationPrompt(key), era.FallbackPrompt(key))
	if err != nil {
		return session.ItemRecord{Status: session.StatusError, ErrorMessage: gen.Classify(err)}
	}

	ref, err := e.saveImage(key, image)
	if err != nil {
		return session.ItemRecord{Status: session.StatusError, ErrorMessage: gen.Classify(err)}
	}
	return session.ItemRecord{Status: session.StatusDone, ImageRef: ref}
}

func (e *Engine) concurrency() int {
	if c := e.cfg.Generation.Concurrency; c > 0 {
		return c
	}
	return 2
}
