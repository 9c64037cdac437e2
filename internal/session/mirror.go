package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pastforward/internal/era"
	"pastforward/internal/logging"
)

// ItemWriter persists the latest item snapshot for a session.
type ItemWriter interface {
	UpdateSessionItems(ctx context.Context, sessionID string, items map[era.Key]ItemRecord) error
}

const (
	mirrorQueueDepth   = 64
	mirrorWriteTimeout = 10 * time.Second
)

// Mirror pushes item snapshots to the store without blocking the caller.
// Writes happen on a single background goroutine in enqueue order, so the
// store always converges on the most recent snapshot. A failed or dropped
// write is logged and forgotten; the in-memory state remains authoritative.
type Mirror struct {
	writer ItemWriter
	logger *slog.Logger

	queue chan mirrorUpdate
	done  chan struct{}
	once  sync.Once
}

type mirrorUpdate struct {
	sessionID string
	items     map[era.Key]ItemRecord
}

// NewMirror starts the background writer goroutine.
func NewMirror(writer ItemWriter, logger *slog.Logger) *Mirror {
	m := &Mirror{
		writer: writer,
		logger: logging.WithComponent(logger, "mirror"),
		queue:  make(chan mirrorUpdate, mirrorQueueDepth),
		done:   make(chan struct{}),
	}
	go m.run()
	return m
}

// Enqueue submits a snapshot for persistence. It never blocks: when the queue
// is full the snapshot is dropped, since a later snapshot supersedes it
// anyway. Snapshots without a session id are skipped; this happens when
// session creation itself failed and there is nothing to mirror into.
func (m *Mirror) Enqueue(sessionID string, items map[era.Key]ItemRecord) {
	if sessionID == "" {
		m.logger.Debug("skipping mirror write without session id")
		return
	}
	select {
	case m.queue <- mirrorUpdate{sessionID: sessionID, items: items}:
	default:
		m.logger.Warn("mirror queue full, dropping snapshot",
			logging.String(logging.FieldSessionID, sessionID))
	}
}

// Close stops accepting snapshots and waits for queued writes to finish.
func (m *Mirror) Close() {
	m.once.Do(func() {
		close(m.queue)
		<-m.done
	})
}

func (m *Mirror) run() {
	defer close(m.done)
	for update := range m.queue {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorWriteTimeout)
		err := m.writer.UpdateSessionItems(ctx, update.sessionID, update.items)
		cancel()
		if err != nil {
			m.logger.Warn("mirror write failed",
				logging.String(logging.FieldSessionID, update.sessionID),
				logging.Error(err))
		}
	}
}
