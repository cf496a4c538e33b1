// internal/storage/faulty.go
package storage

import (
	"context"
	"sync"
)

// FaultyStore wraps a Store and injects failures on demand, emulating a disabled
// or full client-local storage.
type FaultyStore struct {
	inner Store

	mu       sync.Mutex
	readErr  error
	writeErr error
	injected int
}

func NewFaultyStore(inner Store) *FaultyStore {
	return &FaultyStore{inner: inner}
}

// FailReads makes every Get return err (ErrInjected when nil).
func (f *FaultyStore) FailReads(err error) {
	if err == nil {
		err = ErrInjected
	}
	f.mu.Lock()
	f.readErr = err
	f.mu.Unlock()
}

// FailWrites makes every Set and Delete return err (ErrInjected when nil).
func (f *FaultyStore) FailWrites(err error) {
	if err == nil {
		err = ErrInjected
	}
	f.mu.Lock()
	f.writeErr = err
	f.mu.Unlock()
}

// Heal removes all injected faults.
func (f *FaultyStore) Heal() {
	f.mu.Lock()
	f.readErr, f.writeErr = nil, nil
	f.mu.Unlock()
}

// Corrupt writes value straight to the inner store, bypassing injected faults.
func (f *FaultyStore) Corrupt(ctx context.Context, key, value string) error {
	return f.inner.Set(ctx, key, value)
}

// Injected reports how many operations failed because of an injected fault.
func (f *FaultyStore) Injected() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.injected
}

func (f *FaultyStore) fault(write bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.readErr
	if write {
		err = f.writeErr
	}
	if err != nil {
		f.injected++
	}
	return err
}

func (f *FaultyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := f.fault(false); err != nil {
		return "", false, err
	}
	return f.inner.Get(ctx, key)
}

func (f *FaultyStore) Set(ctx context.Context, key, value string) error {
	if err := f.fault(true); err != nil {
		return err
	}
	return f.inner.Set(ctx, key, value)
}

func (f *FaultyStore) Delete(ctx context.Context, key string) error {
	if err := f.fault(true); err != nil {
		return err
	}
	return f.inner.Delete(ctx, key)
}

func (f *FaultyStore) Close() error {
	return f.inner.Close()
}
