// Package summary coordinates on-demand document summarization: one
// absent → loading → ready|error lifecycle per document, with the last
// generated summary cached per document.
package summary

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/documind/cli/internal/gateway"
)

// State is the per-document summary lifecycle state.
type State int

const (
	StateAbsent State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "absent"
	}
}

// Record is the observable state for one document.
type Record struct {
	State    State
	Response *gateway.SummarizeResponse // set when State == StateReady
	Err      string                     // set when State == StateError
}

// Summarizer is the slice of the gateway the coordinator needs.
type Summarizer interface {
	Summarize(ctx context.Context, documentID string) (gateway.SummarizeResponse, error)
}

const defaultCacheTTL = 10 * time.Minute

// Coordinator tracks summary requests per document. At most one request per
// document is in flight; a second trigger while loading is a no-op. Reset
// discards a pending result without cancelling the underlying request: the
// late completion is dropped and the document stays absent.
type Coordinator struct {
	svc   Summarizer
	ready *cache.Cache // documentID -> *gateway.SummarizeResponse, TTL-bound

	mu      sync.Mutex
	loading map[string]chan struct{} // closed when the request settles
	errs    map[string]string
	epoch   map[string]uint64 // bumped by Reset; stale completions compare and drop
}

// New creates a Coordinator. ttl bounds how long a ready summary is served
// from cache; <= 0 uses the default.
func New(svc Summarizer, ttl time.Duration) *Coordinator {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Coordinator{
		svc:     svc,
		ready:   cache.New(ttl, 5*time.Minute),
		loading: make(map[string]chan struct{}),
		errs:    make(map[string]string),
		epoch:   make(map[string]uint64),
	}
}

// Get returns the current record for a document without side effects.
func (c *Coordinator) Get(documentID string) Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recordLocked(documentID)
}

func (c *Coordinator) recordLocked(documentID string) Record {
	if _, ok := c.loading[documentID]; ok {
		return Record{State: StateLoading}
	}
	if msg, ok := c.errs[documentID]; ok {
		return Record{State: StateError, Err: msg}
	}
	if v, ok := c.ready.Get(documentID); ok {
		return Record{State: StateReady, Response: v.(*gateway.SummarizeResponse)}
	}
	return Record{State: StateAbsent}
}

// Request starts a summarization request for the document unless one is
// already loading. It returns immediately; the result lands via Get/Await.
// Calling it in the ready or error state refetches (regenerate and retry are
// the same transition).
func (c *Coordinator) Request(ctx context.Context, documentID string) {
	c.mu.Lock()
	if _, inFlight := c.loading[documentID]; inFlight {
		c.mu.Unlock()
		return
	}
	done := make(chan struct{})
	c.loading[documentID] = done
	delete(c.errs, documentID)
	c.ready.Delete(documentID)
	e := c.epoch[documentID]
	c.mu.Unlock()

	go func() {
		resp, err := c.svc.Summarize(ctx, documentID)

		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.loading, documentID)
		defer close(done)

		// Reset happened while we were in flight: drop the late result so a
		// dismissed summary view cannot resurface stale content.
		if c.epoch[documentID] != e {
			return
		}
		if err != nil {
			c.errs[documentID] = err.Error()
			return
		}
		c.ready.Set(documentID, &resp, cache.DefaultExpiration)
	}()
}

// Open applies the view-opening policy: a document with no record triggers a
// request, a ready document is served from cache without refetching, and
// loading/error states are returned as-is (errors are retried explicitly).
func (c *Coordinator) Open(ctx context.Context, documentID string) Record {
	c.mu.Lock()
	rec := c.recordLocked(documentID)
	c.mu.Unlock()
	if rec.State == StateAbsent {
		c.Request(ctx, documentID)
		return Record{State: StateLoading}
	}
	return rec
}

// Reset clears the document back to absent, discarding any in-flight result.
// The underlying network request is not aborted; its completion is ignored.
func (c *Coordinator) Reset(documentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch[documentID]++
	delete(c.errs, documentID)
	c.ready.Delete(documentID)
}

// Await blocks until the document's request settles (ready or error), or ctx
// is done. If nothing is loading it returns the current record immediately.
func (c *Coordinator) Await(ctx context.Context, documentID string) (Record, error) {
	for {
		c.mu.Lock()
		done, inFlight := c.loading[documentID]
		if !inFlight {
			rec := c.recordLocked(documentID)
			c.mu.Unlock()
			return rec, nil
		}
		c.mu.Unlock()

		select {
		case <-done:
		case <-ctx.Done():
			return Record{State: StateLoading}, ctx.Err()
		}
	}
}
