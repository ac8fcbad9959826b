package backend

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Philipp01105/strobe/core"
)

// OverflowPolicy defines what Write does when the async queue is full.
type OverflowPolicy int

const (
	// DropNewest drops the incoming payload.
	DropNewest OverflowPolicy = iota
	// DropOldest evicts the oldest queued payload to make room.
	DropOldest
	// Block waits up to BlockTimeout for room, then writes synchronously.
	Block
)

// String returns the policy name.
func (p OverflowPolicy) String() string {
	switch p {
	case DropNewest:
		return "DropNewest"
	case DropOldest:
		return "DropOldest"
	case Block:
		return "Block"
	default:
		return "Unknown"
	}
}

// Stats tracks async backend counters. All fields are updated atomically.
type Stats struct {
	processed   atomic.Uint64
	dropped     atomic.Uint64
	blocked     atomic.Uint64
	writeErrors atomic.Uint64
}

// Snapshot is a point-in-time copy of the async backend's counters.
type Snapshot struct {
	// Processed counts payloads written to the wrapped backend.
	Processed uint64
	// Dropped counts payloads lost to a full queue.
	Dropped uint64
	// Blocked counts Block-policy timeouts that fell back to a
	// synchronous write.
	Blocked uint64
	// WriteErrors counts failed writes to the wrapped backend.
	WriteErrors uint64
	// QueueLen is the number of payloads waiting in the queue.
	QueueLen int
}

// AsyncConfig holds configuration for the async backend.
type AsyncConfig struct {
	// Backend is the wrapped backend. Required.
	Backend core.Backend
	// QueueSize is the queue capacity in payloads (default: 1000).
	QueueSize int
	// Policy selects the overflow behavior (default: DropNewest).
	Policy OverflowPolicy
	// BlockTimeout bounds the wait under the Block policy (default: 100ms).
	BlockTimeout time.Duration
	// DrainTimeout bounds queue draining on Close (default: 5s).
	DrainTimeout time.Duration
}

// Async decouples callers from a slow backend with a bounded queue and a
// single writer goroutine. Payloads are copied on enqueue, so callers may
// reuse their buffers immediately. A full queue is handled per the overflow
// policy and counted in Stats; queue pressure never returns an error.
//
// Async honors the core's synchronous mode: while it is set, writes bypass
// the queue and go straight to the wrapped backend.
type Async struct {
	inner        core.Backend
	queue        chan []byte
	policy       OverflowPolicy
	blockTimeout time.Duration
	drainTimeout time.Duration

	writeMu   sync.Mutex
	stats     Stats
	syncMode  atomic.Bool
	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	flushReq  chan chan error
}

// NewAsync wraps cfg.Backend behind a queue and starts the writer
// goroutine.
func NewAsync(cfg AsyncConfig) (*Async, error) {
	if cfg.Backend == nil {
		return nil, fmt.Errorf("backend: async requires a wrapped backend")
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = 100 * time.Millisecond
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = 5 * time.Second
	}

	b := &Async{
		inner:        cfg.Backend,
		queue:        make(chan []byte, cfg.QueueSize),
		policy:       cfg.Policy,
		blockTimeout: cfg.BlockTimeout,
		drainTimeout: cfg.DrainTimeout,
		closed:       make(chan struct{}),
		flushReq:     make(chan chan error),
	}
	b.wg.Add(1)
	go b.worker()
	return b, nil
}

// Write implements core.Backend. The payload is copied before enqueueing.
func (b *Async) Write(p []byte) (int, error) {
	if b.syncMode.Load() || b.isClosed() {
		return b.writeInner(p)
	}

	payload := make([]byte, len(p))
	copy(payload, p)

	switch b.policy {
	case Block:
		select {
		case b.queue <- payload:
			return len(p), nil
		default:
		}
		t := time.NewTimer(b.blockTimeout)
		defer t.Stop()
		select {
		case b.queue <- payload:
			return len(p), nil
		case <-t.C:
			b.stats.blocked.Add(1)
			return b.writeInner(p)
		case <-b.closed:
			return b.writeInner(p)
		}

	case DropOldest:
		select {
		case b.queue <- payload:
			return len(p), nil
		default:
		}
		select {
		case <-b.queue:
			b.stats.dropped.Add(1)
		default:
		}
		select {
		case b.queue <- payload:
			return len(p), nil
		default:
			b.stats.dropped.Add(1)
			return len(p), nil
		}

	default: // DropNewest
		select {
		case b.queue <- payload:
			return len(p), nil
		default:
			b.stats.dropped.Add(1)
			return len(p), nil
		}
	}
}

func (b *Async) writeInner(p []byte) (int, error) {
	b.writeMu.Lock()
	n, err := b.inner.Write(p)
	b.writeMu.Unlock()
	if err != nil {
		b.stats.writeErrors.Add(1)
		return n, err
	}
	b.stats.processed.Add(1)
	return n, nil
}

func (b *Async) flushInner() error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	return b.inner.Flush()
}

func (b *Async) worker() {
	defer b.wg.Done()
	for {
		select {
		case p := <-b.queue:
			b.writeInner(p)
			b.drainBacklog()
		case req := <-b.flushReq:
			b.drainBacklog()
			req <- b.flushInner()
		case <-b.closed:
			b.drainWithDeadline()
			return
		}
	}
}

// drainBacklog writes everything currently queued without blocking. A write
// error drops that payload and is counted; the worker keeps running.
func (b *Async) drainBacklog() {
	for {
		select {
		case p := <-b.queue:
			b.writeInner(p)
		default:
			return
		}
	}
}

func (b *Async) drainWithDeadline() {
	deadline := time.NewTimer(b.drainTimeout)
	defer deadline.Stop()
	for {
		select {
		case p := <-b.queue:
			b.writeInner(p)
		case <-deadline.C:
			return
		default:
			return
		}
	}
}

// Flush implements core.Backend: it drains the queue and flushes the
// wrapped backend before returning.
func (b *Async) Flush() error {
	if b.isClosed() {
		return b.flushInner()
	}
	req := make(chan error, 1)
	select {
	case b.flushReq <- req:
	case <-b.closed:
		return b.flushInner()
	}
	select {
	case err := <-req:
		return err
	case <-b.closed:
		return b.flushInner()
	}
}

// SetSynchronousMode implements core.SynchronousModer. While on, writes
// bypass the queue; payloads enqueued earlier still drain in the
// background.
func (b *Async) SetSynchronousMode(on bool) {
	b.syncMode.Store(on)
}

// Stats returns a snapshot of the queue counters.
func (b *Async) Stats() Snapshot {
	return Snapshot{
		Processed:   b.stats.processed.Load(),
		Dropped:     b.stats.dropped.Load(),
		Blocked:     b.stats.blocked.Load(),
		WriteErrors: b.stats.writeErrors.Load(),
		QueueLen:    len(b.queue),
	}
}

// IsOpen reports whether the backend still accepts writes, delegating to
// the wrapped backend when it tracks availability.
func (b *Async) IsOpen() bool {
	if b.isClosed() {
		return false
	}
	if oc, ok := b.inner.(core.OpenChecker); ok {
		return oc.IsOpen()
	}
	return true
}

// DefaultSettings forwards the wrapped backend's settings seed.
func (b *Async) DefaultSettings() core.FormattingSettings {
	if sp, ok := b.inner.(core.SettingsProvider); ok {
		return sp.DefaultSettings()
	}
	return core.DefaultFormattingSettings()
}

// WantsSynchronization reports false: the queue serializes all writes.
func (b *Async) WantsSynchronization() bool { return false }

func (b *Async) isClosed() bool {
	select {
	case <-b.closed:
		return true
	default:
		return false
	}
}

// Close drains the queue within the drain timeout, then closes the wrapped
// backend. Close is idempotent; writes arriving afterwards go straight to
// the wrapped backend and fail with it.
func (b *Async) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.closed)
		b.wg.Wait()
		b.writeMu.Lock()
		defer b.writeMu.Unlock()
		if c, ok := b.inner.(io.Closer); ok {
			err = c.Close()
			return
		}
		err = b.inner.Flush()
	})
	return err
}
