// Copyright 2026 The GetFinancing Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"github.com/GetFinancing/command/clock"
	"github.com/GetFinancing/command/loop"
)

// loopState tracks the scheduler owner's lifecycle across one
// asynchronous invocation. Modeling the "is running" question as
// explicit states makes the skip-redundant-run edge (a result that
// arrives before Run) a reachable transition instead of a silent flag
// interaction.
type loopState int

const (
	// loopIdle: no asynchronous action in flight.
	loopIdle loopState = iota
	// loopDispatched: the action is queued for the scheduler's next
	// turn; the run loop has not been entered.
	loopDispatched
	// loopRunning: the owner is inside Loop.Run.
	loopRunning
	// loopSettled: the pending action's result arrived. May precede
	// loopRunning, in which case the run is skipped entirely.
	loopSettled
	// loopStopped: the run/stop cycle is complete for this invocation.
	loopStopped
)

// executeDeferred runs an asynchronous leaf action. The scheduler
// belongs to the nearest command up the chain with a Loop; when none
// is designated, the executing command installs the default loop and
// owns the run itself.
func (c *Command) executeDeferred(args []string) outcome {
	owner := c.loopOwner()
	if owner == nil {
		c.Loop = loop.New(clock.Real())
		owner = c
	}

	pending := owner.scheduleAction(c, args)
	if owner == c {
		return c.awaitSettlement(c, pending)
	}
	// An ancestor owns the loop: hand the pending result up the
	// recursion untouched. Only the owner runs and stops anything; the
	// owner's dispatch frame picks the handle up, or Parse does when
	// the owner sits above the invocation's entry point.
	return outcome{pending: pending, leaf: c}
}

// loopOwner walks the parent chain, nearest first, for the command
// designated as scheduler owner.
func (c *Command) loopOwner() *Command {
	for node := c; node != nil; node = node.parent {
		if node.Loop != nil {
			return node
		}
	}
	return nil
}

// scheduleAction registers the leaf's action for the scheduler's next
// turn. The action body must not run inline: by the time it executes,
// the loop is active (or about to be), so the action can schedule
// further work and rely on the loop stopping only after it settles.
func (c *Command) scheduleAction(leaf *Command, args []string) *Future {
	pending := NewFuture()
	c.state = loopDispatched
	c.Loop.Schedule(0, func() {
		leaf.log().Debug("running deferred command", "command", leaf.FullName(), "args", args)
		result := leaf.RunDeferred(c.Loop, args)
		if result == nil {
			pending.Resolve(0)
			return
		}
		result.Consume(func(status Status, err error) {
			if err != nil {
				pending.Fail(err)
			} else {
				pending.Resolve(status)
			}
		})
	})
	return pending
}

// awaitSettlement drives the owner's scheduler until the pending
// action settles, then maps the settlement onto the exit-code
// contract. The loop is entered at most once and stopped exactly once,
// by the settlement observer; a result that is already in before the
// run would start skips the run/stop cycle entirely.
//
// Run and stop belong to the owner, but the settlement is delivered
// through the executing leaf so messages land on the leaf's channels,
// exactly as a synchronous result would.
func (c *Command) awaitSettlement(leaf *Command, pending *Future) outcome {
	var status Status
	var fault error

	pending.Consume(func(s Status, err error) {
		status, fault = s, err
		if c.state == loopRunning {
			c.Loop.Stop()
		}
		c.state = loopSettled
	})

	if c.state != loopSettled {
		c.state = loopRunning
		c.Loop.Run()
	}
	c.state = loopStopped

	return leaf.completeSync(status, fault)
}
