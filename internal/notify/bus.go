package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Karlson54/TelegramBot/internal/domain"
)

// Handler receives a lifecycle event after its transaction committed.
type Handler func(ctx context.Context, event domain.Event)

// Bus fans lifecycle events out to subscribers, synchronously and in
// subscription order. Publish is called only after a successful commit, so
// handlers never observe a transition that was rolled back.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *zap.Logger
}

func NewBus(logger *zap.Logger) *Bus {
	return &Bus{logger: logger}
}

func (b *Bus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

func (b *Bus) Publish(ctx context.Context, event domain.Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.invoke(ctx, handler, event)
	}
}

// invoke isolates a panicking subscriber so it cannot take down the
// request worker that committed the transition.
func (b *Bus) invoke(ctx context.Context, handler Handler, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", string(event.Type)),
				zap.Any("panic", r))
		}
	}()
	handler(ctx, event)
}
