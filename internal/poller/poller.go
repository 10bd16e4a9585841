// Package poller runs a fixed-interval fetch loop for a dashboard view.
//
// Ticks do not wait for each other: a slow backend response may still be
// in flight when the next tick fires. Every tick carries a monotonically
// increasing sequence number and a completion is only applied when it is
// newer than the last applied one, so a stale response can never
// overwrite fresher data. After Stop (or context cancellation) no
// completion is applied at all.
package poller

import (
	"context"
	"sync"
	"time"
)

// Poller periodically calls fetch and hands the result to apply.
// apply runs on the fetching goroutine; implementations guard their own
// state.
type Poller[T any] struct {
	interval time.Duration
	fetch    func(context.Context) (T, error)
	apply    func(T, error)

	mu          sync.Mutex
	nextSeq     uint64
	lastApplied uint64
	stopped     bool
	started     bool

	// applyMu is held across the sequence check and the apply call, so a
	// stale completion that passed the check can never finish its apply
	// after a newer one.
	applyMu sync.Mutex

	cancel context.CancelFunc
	done   chan struct{}
}

func New[T any](interval time.Duration, fetch func(context.Context) (T, error), apply func(T, error)) *Poller[T] {
	return &Poller[T]{
		interval: interval,
		fetch:    fetch,
		apply:    apply,
		done:     make(chan struct{}),
	}
}

// Start fires an immediate tick and then one per interval until ctx is
// cancelled or Stop is called.
func (p *Poller[T]) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	p.mu.Lock()
	p.started = true
	p.mu.Unlock()

	go func() {
		defer close(p.done)

		p.tick(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				p.markStopped()
				return
			case <-ticker.C:
				p.tick(ctx)
			}
		}
	}()
}

// Stop tears the poller down and discards any in-flight completion.
// It returns once the tick loop has exited; in-flight fetches may still
// be draining but their results are dropped. Stopping a poller that was
// never started is a no-op.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	p.stopped = true
	started := p.started
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}
	if started {
		<-p.done
	}
}

func (p *Poller[T]) markStopped() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
}

func (p *Poller[T]) tick(ctx context.Context) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.nextSeq++
	seq := p.nextSeq
	p.mu.Unlock()

	go func() {
		v, err := p.fetch(ctx)
		p.complete(seq, v, err)
	}()
}

func (p *Poller[T]) complete(seq uint64, v T, err error) {
	p.applyMu.Lock()
	defer p.applyMu.Unlock()

	p.mu.Lock()
	if p.stopped || seq <= p.lastApplied {
		p.mu.Unlock()
		return
	}
	p.lastApplied = seq
	p.mu.Unlock()

	p.apply(v, err)
}
