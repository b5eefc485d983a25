// Package storagetest provides an in-memory storage.BlobStore that records
// every call, for service tests.
package storagetest

import (
	"context"
	"errors"
	"sync"
)

var ErrInjected = errors.New("injected storage failure")

// Recorder keeps blobs in memory. Calls holds "put <name>" and
// "delete <name>" entries in call order.
type Recorder struct {
	mu    sync.Mutex
	Blobs map[string][]byte
	Calls []string

	// FailPut and FailDelete make the matching operation return ErrInjected.
	FailPut    bool
	FailDelete bool
}

func NewRecorder() *Recorder {
	return &Recorder{Blobs: map[string][]byte{}}
}

func (r *Recorder) Put(_ context.Context, name string, data []byte) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls = append(r.Calls, "put "+name)
	if r.FailPut {
		return "", ErrInjected
	}
	r.Blobs[name] = append([]byte(nil), data...)
	return r.url(name), nil
}

func (r *Recorder) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls = append(r.Calls, "delete "+name)
	if r.FailDelete {
		return ErrInjected
	}
	delete(r.Blobs, name)
	return nil
}

func (r *Recorder) URL(name string) string { return r.url(name) }

func (r *Recorder) url(name string) string { return "http://blobs.test/" + name }

// Seed stores a blob without recording a call.
func (r *Recorder) Seed(name string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Blobs[name] = data
}

func (r *Recorder) Has(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.Blobs[name]
	return ok
}

// Snapshot returns a copy of the recorded calls.
func (r *Recorder) Snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Calls...)
}
