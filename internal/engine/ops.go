package engine

import (
	"context"
	"fmt"

	"pastforward/internal/era"
	"pastforward/internal/gen"
	"pastforward/internal/logging"
	"pastforward/internal/session"
)

// Regenerate reruns image generation for one era of the active session. It
// is refused while the era is pending or has another operation in flight.
func (e *Engine) Regenerate(ctx context.Context, key era.Key) (session.ItemRecord, error) {
	state, sess, err := e.activeState()
	if err != nil {
		return session.ItemRecord{}, err
	}
	e.mu.Lock()
	hasSource := len(e.source.Data) > 0
	e.mu.Unlock()
	if !hasSource {
		return session.ItemRecord{}, ErrNoSource
	}

	rec, ok := state.Get(key)
	if !ok {
		return session.ItemRecord{}, fmt.Errorf("%w: %s", ErrUnknownEra, key)
	}
	if rec.Status == session.StatusPending {
		return session.ItemRecord{}, fmt.Errorf("%w: generation still pending", ErrItemBusy)
	}
	if !state.Begin(key) {
		return session.ItemRecord{}, ErrItemBusy
	}
	defer state.End(key)

	e.logOp(sess.ID, key, "regenerate")
	e.applyAndMirror(state, sess.ID, key, session.ItemRecord{Status: session.StatusPending})

	final := e.generateEraImage(ctx, key)
	e.applyAndMirror(state, sess.ID, key, final)
	return final, nil
}

// Edit applies a freeform instruction to an era's finished image. Success
// replaces the record wholesale: the new image invalidates any previously
// generated animation, so videoStatus and audioStatus reset to idle and the
// video reference is cleared. Failure keeps the prior image visible but
// reports the classified edit error as the item's status.
func (e *Engine) Edit(ctx context.Context, key era.Key, instruction string) (session.ItemRecord, error) {
	state, sess, err := e.activeState()
	if err != nil {
		return session.ItemRecord{}, err
	}

	rollback, ok := state.Get(key)
	if !ok {
		return session.ItemRecord{}, fmt.Errorf("%w: %s", ErrUnknownEra, key)
	}
	if rollback.Status != session.StatusDone || rollback.ImageRef == "" {
		return session.ItemRecord{}, fmt.Errorf("%w: edit needs a finished image", ErrItemNotReady)
	}
	if !state.Begin(key) {
		return session.ItemRecord{}, ErrItemBusy
	}
	defer state.End(key)

	current, err := e.loadImage(rollback.ImageRef)
	if err != nil {
		return session.ItemRecord{}, err
	}

	e.logOp(sess.ID, key, "edit")
	e.applyAndMirror(state, sess.ID, key, session.ItemRecord{Status: session.StatusPending})

	callCtx, cancel := context.WithTimeout(ctx, e.imageTimeout())
	defer cancel()
	edited, editErr := e.invoker.EditImage(callCtx, current, instruction)

	var final session.ItemRecord
	if editErr != nil {
		final = rollback
		final.Status = session.StatusError
		final.ErrorMessage = gen.Classify(editErr)
	} else if ref, saveErr := e.saveImage(key, edited); saveErr != nil {
		final = rollback
		final.Status = session.StatusError
		final.ErrorMessage = gen.Classify(saveErr)
	} else {
		final = session.ItemRecord{
			Status:      session.StatusDone,
			ImageRef:    ref,
			VideoStatus: session.FeatureIdle,
			AudioStatus: session.FeatureIdle,
		}
	}
	e.applyAndMirror(state, sess.ID, key, final)
	return final, nil
}

// Animate generates a video from an era's finished image. It requires the
// API key authorization to be confirmed first and aborts without touching
// state when it is not. An authorization-invalid failure resets the
// confirmation so the next attempt re-checks it.
func (e *Engine) Animate(ctx context.Context, key era.Key, aspect gen.AspectRatio) (session.ItemRecord, error) {
	state, sess, err := e.activeState()
	if err != nil {
		return session.ItemRecord{}, err
	}
	if !aspect.Valid() {
		return session.ItemRecord{}, fmt.Errorf("invalid aspect ratio %q", aspect)
	}

	rec, ok := state.Get(key)
	if !ok {
		return session.ItemRecord{}, fmt.Errorf("%w: %s", ErrUnknownEra, key)
	}
	if rec.Status != session.StatusDone || rec.ImageRef == "" {
		return session.ItemRecord{}, fmt.Errorf("%w: animation needs a finished image", ErrItemNotReady)
	}
	if rec.VideoStatus == session.FeaturePending {
		return session.ItemRecord{}, fmt.Errorf("%w: animation still pending", ErrItemBusy)
	}
	if !e.auth.Confirmed() {
		return session.ItemRecord{}, ErrAuthorizationRequired
	}
	if !state.Begin(key) {
		return session.ItemRecord{}, ErrItemBusy
	}
	defer state.End(key)

	image, err := e.loadImage(rec.ImageRef)
	if err != nil {
		return session.ItemRecord{}, err
	}

	e.logOp(sess.ID, key, "animate")
	pending := rec
	pending.VideoStatus = session.FeaturePending
	e.applyAndMirror(state, sess.ID, key, pending)

	callCtx, cancel := context.WithTimeout(ctx, e.videoTimeout())
	defer cancel()
	prompt := fmt.Sprintf("Bring this %s photograph to life with subtle, era-appropriate motion.", key)
	video, videoErr := e.invoker.GenerateVideo(callCtx, image, prompt, aspect)

	final := rec
	if videoErr != nil {
		category, message := gen.ClassifyDetail(videoErr)
		if category == gen.CategoryAuthInvalid {
			e.auth.Reset()
		}
		final.VideoStatus = session.FeatureError
		final.ErrorMessage = message
	} else if ref, saveErr := e.saveVideo(key, video); saveErr != nil {
		final.VideoStatus = session.FeatureError
		final.ErrorMessage = gen.Classify(saveErr)
	} else {
		final.VideoStatus = session.FeatureDone
		final.VideoRef = ref
		if err := e.notifier.NotifyVideoReady(ctx, key); err != nil {
			e.logger.Warn("video ready notification failed", logging.Error(err))
		}
	}
	e.applyAndMirror(state, sess.ID, key, final)
	return final, nil
}

// Narrate synthesizes and plays an audio description of the era. Narration
// is keyed by the era, not the generated image, so it works regardless of
// the item's image status. The done transition stays local: playback is a
// momentary side effect, not a durable artifact worth mirroring.
func (e *Engine) Narrate(ctx context.Context, key era.Key) (session.ItemRecord, error) {
	state, sess, err := e.activeState()
	if err != nil {
		return session.ItemRecord{}, err
	}

	rec, ok := state.Get(key)
	if !ok {
		return session.ItemRecord{}, fmt.Errorf("%w: %s", ErrUnknownEra, key)
	}
	if rec.AudioStatus == session.FeaturePending {
		return session.ItemRecord{}, fmt.Errorf("%w: narration still pending", ErrItemBusy)
	}
	if !state.Begin(key) {
		return session.ItemRecord{}, ErrItemBusy
	}
	defer state.End(key)

	e.logOp(sess.ID, key, "narrate")
	pending := rec
	pending.AudioStatus = session.FeaturePending
	e.applyAndMirror(state, sess.ID, key, pending)

	callCtx, cancel := context.WithTimeout(ctx, e.imageTimeout())
	defer cancel()
	text := fmt.Sprintf("The %s. %s", key, era.Description(key))
	pcm, genErr := e.invoker.GenerateNarration(callCtx, text)

	final := rec
	if genErr != nil {
		final.AudioStatus = session.FeatureError
		final.ErrorMessage = gen.Classify(genErr)
		e.applyAndMirror(state, sess.ID, key, final)
		return final, nil
	}

	if _, playErr := e.player.Play(string(key), pcm); playErr != nil {
		final.AudioStatus = session.FeatureError
		final.ErrorMessage = gen.Classify(playErr)
		e.applyAndMirror(state, sess.ID, key, final)
		return final, nil
	}

	final.AudioStatus = session.FeatureDone
	state.Apply(key, final)
	return final, nil
}

func (e *Engine) logOp(sessionID string, key era.Key, op string) {
	e.logger.Info("item operation started",
		logging.String(logging.FieldSessionID, sessionID),
		logging.String(logging.FieldEra, string(key)),
		logging.String(logging.FieldOperation, op))
}
