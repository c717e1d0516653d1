package realtime

import (
	"context"
	"sync"

	"github.com/lecturelab/lectura-backend/internal/platform/logger"
)

// localBus is the single-process fallback when Redis is not configured.
type localBus struct {
	log *logger.Logger

	mu        sync.Mutex
	forwarder func(evt SessionEvent)
	closed    bool
}

func NewLocalBus(log *logger.Logger) Bus {
	return &localBus{log: log.With("service", "LocalSessionBus")}
}

func (b *localBus) Publish(ctx context.Context, evt SessionEvent) error {
	b.mu.Lock()
	forwarder := b.forwarder
	closed := b.closed
	b.mu.Unlock()

	if closed || forwarder == nil {
		return nil
	}
	forwarder(evt)
	return nil
}

func (b *localBus) StartForwarder(ctx context.Context, onEvt func(evt SessionEvent)) error {
	b.mu.Lock()
	b.forwarder = onEvt
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		b.forwarder = nil
		b.mu.Unlock()
	}()
	return nil
}

func (b *localBus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.forwarder = nil
	b.mu.Unlock()
	return nil
}
