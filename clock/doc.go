// Copyright 2026 The GetFinancing Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides the injectable time abstraction behind the
// event loop.
//
// Production code takes a Clock instead of calling time.Now or
// time.After directly. Real() gives standard library behavior; Fake()
// gives a deterministic clock for tests, where time advances only when
// Advance is called.
//
// # FakeClock Synchronization
//
// When a goroutine calls After on a FakeClock it registers a pending
// waiter. Use WaitForTimers to block until a given number of waiters
// exist before calling Advance. This eliminates the race between timer
// registration and time advancement that plagues tests built on
// time.Sleep.
package clock
