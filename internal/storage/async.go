// internal/storage/async.go
package storage

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const asyncWriteTimeout = 5 * time.Second

type pendingWrite struct {
	value   string
	deleted bool
}

// AsyncStore is a write-behind wrapper: Set and Delete return once the write is queued,
// and a single worker applies the latest queued value per key to the inner store.
// Reads see queued writes before they reach the inner store.
type AsyncStore struct {
	inner  Store
	logger *zap.Logger
	tracer trace.Tracer

	// flushMu keeps the worker and explicit Flush calls from applying batches out of order.
	flushMu sync.Mutex

	mu       sync.Mutex
	pending  map[string]pendingWrite
	inflight map[string]pendingWrite
	closed   bool

	wake chan struct{}
	stop chan struct{}
	wg   sync.WaitGroup
}

func NewAsyncStore(inner Store, logger *zap.Logger) *AsyncStore {
	a := &AsyncStore{
		inner:    inner,
		logger:   logger.Named("async_store"),
		tracer:   otel.Tracer("storefront/storage"),
		pending:  make(map[string]pendingWrite),
		inflight: make(map[string]pendingWrite),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
	}
	a.wg.Add(1)
	go a.run()
	return a
}

func (a *AsyncStore) Get(ctx context.Context, key string) (string, bool, error) {
	a.mu.Lock()
	w, ok := a.pending[key]
	if !ok {
		w, ok = a.inflight[key]
	}
	a.mu.Unlock()

	if ok {
		if w.deleted {
			return "", false, nil
		}
		return w.value, true, nil
	}
	return a.inner.Get(ctx, key)
}

func (a *AsyncStore) Set(ctx context.Context, key, value string) error {
	return a.enqueue(key, pendingWrite{value: value})
}

func (a *AsyncStore) Delete(ctx context.Context, key string) error {
	return a.enqueue(key, pendingWrite{deleted: true})
}

func (a *AsyncStore) enqueue(key string, w pendingWrite) error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return ErrClosed
	}
	a.pending[key] = w
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
	return nil
}

// Flush blocks until every write queued before the call has been attempted.
func (a *AsyncStore) Flush() {
	a.flush()
}

// Close drains queued writes, stops the worker and closes the inner store.
func (a *AsyncStore) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	close(a.stop)
	a.wg.Wait()
	return a.inner.Close()
}

func (a *AsyncStore) run() {
	defer a.wg.Done()
	for {
		select {
		case <-a.wake:
			a.flush()
		case <-a.stop:
			a.flush()
			return
		}
	}
}

func (a *AsyncStore) flush() {
	a.flushMu.Lock()
	defer a.flushMu.Unlock()

	a.mu.Lock()
	if len(a.pending) == 0 {
		a.mu.Unlock()
		return
	}
	batch := a.pending
	a.pending = make(map[string]pendingWrite)
	for k, w := range batch {
		a.inflight[k] = w
	}
	a.mu.Unlock()

	for key, w := range batch {
		a.apply(key, w)
	}

	a.mu.Lock()
	for key := range batch {
		delete(a.inflight, key)
	}
	a.mu.Unlock()
}

func (a *AsyncStore) apply(key string, w pendingWrite) {
	ctx, cancel := context.WithTimeout(context.Background(), asyncWriteTimeout)
	defer cancel()

	ctx, span := a.tracer.Start(ctx, "storage.async_write",
		trace.WithAttributes(
			attribute.String("storage.key", key),
			attribute.Bool("storage.delete", w.deleted),
		),
	)
	defer span.End()

	var err error
	if w.deleted {
		err = a.inner.Delete(ctx, key)
	} else {
		err = a.inner.Set(ctx, key, w.value)
	}
	if err != nil {
		span.RecordError(err)
		a.logger.Warn("write-behind failed, value dropped", zap.String("key", key), zap.Error(err))
	}
}
