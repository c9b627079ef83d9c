package store

import (
	"context"
	"errors"
)

// ErrCapacity is returned by Set when a write would exceed the backing
// medium's capacity.
var ErrCapacity = errors.New("store: capacity exceeded")

// Store is an async key-value store over an opaque backing medium.
type Store interface {
	// Get returns the value for key. A missing key is (nil, false, nil),
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key. Writes that would exceed the backing
	// medium's capacity fail with ErrCapacity.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// List returns all keys with the given prefix, in no particular order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Recorder receives store operation metrics.
type Recorder interface {
	RecordStoreOp(op string)
	RecordStoreError(op string)
}

// Instrumented wraps a Store and records every operation.
type Instrumented struct {
	inner Store
	rec   Recorder
}

// Instrument wraps s so that every operation is recorded on rec.
func Instrument(s Store, rec Recorder) *Instrumented {
	return &Instrumented{inner: s, rec: rec}
}

func (i *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok, err := i.inner.Get(ctx, key)
	i.record("get", err)
	return value, ok, err
}

func (i *Instrumented) Set(ctx context.Context, key string, value []byte) error {
	err := i.inner.Set(ctx, key, value)
	i.record("set", err)
	return err
}

func (i *Instrumented) Delete(ctx context.Context, key string) error {
	err := i.inner.Delete(ctx, key)
	i.record("delete", err)
	return err
}

func (i *Instrumented) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := i.inner.List(ctx, prefix)
	i.record("list", err)
	return keys, err
}

func (i *Instrumented) record(op string, err error) {
	i.rec.RecordStoreOp(op)
	if err != nil {
		i.rec.RecordStoreError(op)
	}
}
