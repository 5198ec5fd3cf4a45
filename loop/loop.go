// Copyright 2026 The GetFinancing Authors
// SPDX-License-Identifier: Apache-2.0

// Package loop provides the cooperative event loop that drives
// asynchronous command actions.
//
// The Loop interface is the injection point: the dispatcher only needs
// Run, Stop, and Schedule, so tests substitute instrumented loops and
// embedders can bridge to their own scheduler. EventLoop is the
// default implementation, a single-threaded run loop over an
// injectable clock.Clock.
//
// Run is not reentrant. One invocation owns the loop at a time:
// callbacks execute inline on the goroutine that called Run, and Stop
// takes effect after the callback in flight returns. Schedule may be
// called from any goroutine and wakes a parked Run.
package loop

import (
	"sort"
	"sync"
	"time"

	"github.com/GetFinancing/command/clock"
)

// Loop is the scheduler contract the dispatcher depends on. Implement
// it to drive asynchronous commands from an existing event loop.
type Loop interface {
	// Run processes scheduled callbacks until Stop is requested,
	// blocking the calling goroutine. Callbacks run inline, one at a
	// time, in due-time order.
	Run()

	// Stop makes Run return once the callback in flight (if any)
	// completes. Pending callbacks stay queued for a later Run.
	Stop()

	// Schedule queues fn to run after delay elapses. A zero delay
	// queues fn for the next turn of the loop. Safe to call from any
	// goroutine and from inside callbacks.
	Schedule(delay time.Duration, fn func())
}

// New returns an EventLoop driven by the given clock.
func New(clk clock.Clock) *EventLoop {
	return &EventLoop{
		clk:  clk,
		wake: make(chan struct{}, 1),
	}
}

// EventLoop is the default Loop: a single-threaded cooperative
// scheduler. The zero value is not usable; construct with New.
type EventLoop struct {
	clk  clock.Clock
	wake chan struct{}

	mu       sync.Mutex
	tasks    []*task
	sequence uint64
	stopping bool
}

// task is one scheduled callback. Tasks with equal due times run in
// Schedule order.
type task struct {
	due      time.Time
	sequence uint64
	fn       func()
}

// Schedule queues fn to run after delay.
func (l *EventLoop) Schedule(delay time.Duration, fn func()) {
	l.mu.Lock()
	l.sequence++
	entry := &task{due: l.clk.Now().Add(delay), sequence: l.sequence, fn: fn}
	l.tasks = append(l.tasks, entry)
	sort.SliceStable(l.tasks, func(i, j int) bool {
		if !l.tasks[i].due.Equal(l.tasks[j].due) {
			return l.tasks[i].due.Before(l.tasks[j].due)
		}
		return l.tasks[i].sequence < l.tasks[j].sequence
	})
	l.mu.Unlock()
	l.notify()
}

// Stop requests that Run return. Calling Stop with no Run in progress
// makes the next Run return immediately; the bridge avoids that by
// never starting a run for an already-settled outcome.
func (l *EventLoop) Stop() {
	l.mu.Lock()
	l.stopping = true
	l.mu.Unlock()
	l.notify()
}

// Run drives the loop until Stop. The stop request is consumed on
// return, so the same loop can be run again by a later invocation.
func (l *EventLoop) Run() {
	for {
		// Drain a stale wakeup before inspecting the queue. Anything
		// scheduled after this point posts a fresh one, so the select
		// below cannot miss it; anything scheduled before is already
		// visible in the queue.
		select {
		case <-l.wake:
		default:
		}

		l.mu.Lock()
		if l.stopping {
			l.stopping = false
			l.mu.Unlock()
			return
		}

		now := l.clk.Now()
		if len(l.tasks) > 0 && !l.tasks[0].due.After(now) {
			next := l.tasks[0]
			l.tasks = l.tasks[1:]
			l.mu.Unlock()
			next.fn()
			continue
		}

		var timer <-chan time.Time
		if len(l.tasks) > 0 {
			timer = l.clk.After(l.tasks[0].due.Sub(now))
		}
		l.mu.Unlock()

		select {
		case <-timer:
		case <-l.wake:
		}
	}
}

// notify nudges a parked Run. The channel holds one pending wakeup;
// extra notifications coalesce.
func (l *EventLoop) notify() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
