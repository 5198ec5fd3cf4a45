// Copyright 2026 The GetFinancing Authors
// SPDX-License-Identifier: Apache-2.0

package command

import "sync"

// Future is the pending outcome of an asynchronous command action. It
// settles exactly once, either with a Status (Resolve) or with a fault
// (Fail), and is observed exactly once via Consume. The observe-once
// contract is enforced at runtime: a second settlement or a second
// Consume panics, since either would mean two parties believe they own
// the result.
//
// The dispatcher hands every pending future to the single loop-owning
// ancestor; command actions only create and settle them.
type Future struct {
	mu       sync.Mutex
	settled  bool
	consumed bool
	status   Status
	err      error
	observer func(Status, error)
}

// NewFuture returns an unsettled Future.
func NewFuture() *Future { return &Future{} }

// Resolved returns a Future already settled with the given status.
func Resolved(status Status) *Future {
	return &Future{settled: true, status: status}
}

// Rejected returns a Future already settled with the given fault.
func Rejected(err error) *Future {
	return &Future{settled: true, err: err}
}

// Resolve settles the future with a status. Panics if the future has
// already settled.
func (f *Future) Resolve(status Status) { f.settle(status, nil) }

// Fail settles the future with a fault. Panics if the future has
// already settled.
func (f *Future) Fail(err error) { f.settle(0, err) }

func (f *Future) settle(status Status, err error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		panic("command: future settled twice")
	}
	f.settled = true
	f.status = status
	f.err = err
	observer := f.observer
	f.observer = nil
	f.mu.Unlock()

	// Invoke outside the lock: the observer may settle other futures
	// or stop the event loop.
	if observer != nil {
		observer(status, err)
	}
}

// Settled reports whether the future has a result.
func (f *Future) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled
}

// Consume registers the single observer of the result. If the future
// has already settled, observer runs before Consume returns; otherwise
// it runs during settlement. Panics on a second call — the result is
// consumed, not broadcast.
func (f *Future) Consume(observer func(status Status, err error)) {
	f.mu.Lock()
	if f.consumed {
		f.mu.Unlock()
		panic("command: future consumed twice")
	}
	f.consumed = true
	if f.settled {
		status, err := f.status, f.err
		f.mu.Unlock()
		observer(status, err)
		return
	}
	f.observer = observer
	f.mu.Unlock()
}
