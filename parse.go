// Copyright 2026 The GetFinancing Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GetFinancing/command/help"
)

// outcome carries a dispatch result up the recursion: a settled status
// (possibly with a fault to re-raise), or a still-pending asynchronous
// result on its way to the loop-owning ancestor.
type outcome struct {
	status  Status
	err     error
	pending *Future

	// leaf is the executing command behind a pending result; settlement
	// messages are delivered through its channels.
	leaf *Command
}

// Parse resolves the argument list against the tree rooted at this
// command and executes the selected action.
//
// Expected failures — usage faults, unknown commands, unimplemented
// leaves, ExitError signals — are reported on the command's channels
// and returned as a plain status. Only genuinely unexpected faults
// come back as a non-nil error, and only after the event loop, if one
// was running, has been stopped. Callers typically finish with
// os.Exit(status.ExitCode()) once they have handled the error.
func (c *Command) Parse(args []string) (Status, error) {
	if !c.built {
		if err := c.Build(); err != nil {
			return NoAction, fmt.Errorf("building command tree: %w", err)
		}
	}
	out := c.dispatch(args)
	if out.pending != nil {
		// The designated owner sits above this invocation's entry
		// point, so no dispatch frame on the stack drove the loop.
		// Drive it here; the pending result must never be dropped.
		out = c.loopOwner().awaitSettlement(out.leaf, out.pending)
	}
	return out.status, out.err
}

// dispatch implements one level of the recursive resolution: parse
// options, give the command its pre-routing hooks, intercept help,
// then either execute the action here or descend into a subcommand.
func (c *Command) dispatch(args []string) outcome {
	c.log().Debug("parsing arguments", "command", c.FullName(), "args", args)

	rest, err := c.parser.parseArgs(args)
	if err != nil {
		c.reportUsageFault(args, err)
		return outcome{status: 1}
	}

	// The collaborator already printed help or usage; nothing ran and
	// nothing should.
	if c.parser.outputPrinted() {
		return outcome{status: NoAction}
	}

	if c.HandleFlags != nil {
		status, err := c.HandleFlags(c.parser.flags)
		if status != 0 || err != nil {
			return c.completeSync(status, err)
		}
	}

	if len(rest) > 0 && rest[0] == "help" {
		if len(rest) == 1 {
			c.parser.printHelp(c.Out())
			return outcome{status: 0}
		}
		if len(c.children) == 0 {
			fmt.Fprintln(c.ErrOut(), "No subcommands defined.")
			c.parser.printUsage(c.ErrOut())
			fmt.Fprintln(c.ErrOut(), "Use --help to get more information about this command.")
			return outcome{status: 1}
		}
		// "help build" becomes "build help": the routing below defers
		// the help request to the named child. Swap on a copy; the
		// caller's slice stays untouched.
		swapped := append([]string(nil), rest...)
		swapped[0], swapped[1] = swapped[1], swapped[0]
		rest = swapped
	}

	// No remainder, or nothing to route to: the action runs here.
	// Commands may have both subcommands and an action; the action
	// covers bare invocation.
	if len(rest) == 0 || len(c.children) == 0 {
		return c.execute(rest)
	}

	name := rest[0]
	child, ok := c.children[name]
	if !ok {
		child, ok = c.aliased[name]
	}
	if !ok {
		if name == "" {
			fmt.Fprintln(c.ErrOut(), "Please specify a subcommand.")
		} else {
			fmt.Fprintf(c.ErrOut(), "Unknown command '%s'.\n", name)
			fmt.Fprint(c.ErrOut(), help.CommandList(c.metadata().Commands))
			if suggestion := suggestCommand(name, c.Subcommands); suggestion != "" {
				fmt.Fprintf(c.ErrOut(), "Did you mean '%s'?\n", suggestion)
			}
		}
		return outcome{status: 1}
	}

	out := child.dispatch(rest[1:])
	if out.pending != nil && c.Loop != nil {
		// This command is the designated scheduler owner: the pending
		// action below settles on its watch.
		return c.awaitSettlement(out.leaf, out.pending)
	}
	return out
}

// execute runs the leaf action with the remaining arguments.
func (c *Command) execute(args []string) outcome {
	if c.RunDeferred != nil {
		return c.executeDeferred(args)
	}
	if c.Run == nil {
		return c.reportNotImplemented()
	}

	c.log().Debug("running command", "command", c.FullName(), "args", args)
	status, err := c.Run(args)
	return c.completeSync(status, err)
}

// completeSync maps an action result onto the exit-code contract:
// expected signals are delivered to the right channel and become plain
// statuses; anything else is reported and re-raised.
func (c *Command) completeSync(status Status, err error) outcome {
	if err == nil {
		return outcome{status: status}
	}
	if errors.Is(err, ErrNotImplemented) {
		return c.reportNotImplemented()
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		c.deliverExit(exit)
		return outcome{status: exit.Status}
	}
	fmt.Fprintf(c.ErrOut(), "Failure: %s\n", err)
	return outcome{err: err}
}

// deliverExit writes an expected exit signal's message to the channel
// it belongs on.
func (c *Command) deliverExit(exit *ExitError) {
	if exit.Message == "" {
		return
	}
	w := c.ErrOut()
	if exit.Success {
		w = c.Out()
	}
	fmt.Fprintln(w, exit.Message)
}

func (c *Command) reportNotImplemented() outcome {
	c.parser.printUsage(c.ErrOut())
	fmt.Fprintln(c.ErrOut(), "Use --help to get a list of commands.")
	return outcome{status: 1}
}

// reportUsageFault prints the usage line and the parse error, with a
// typo suggestion when the fault is an unknown flag.
func (c *Command) reportUsageFault(args []string, err error) {
	c.parser.printUsage(c.ErrOut())

	message := err.Error()
	if strings.Contains(message, "unknown flag") || strings.Contains(message, "unknown shorthand flag") {
		if suggestion := suggestFlag(args, c.parser.flags); suggestion != "" {
			message = fmt.Sprintf("%s (did you mean %s?)", message, suggestion)
		}
	}
	fmt.Fprintf(c.ErrOut(), "%s: error: %s\n", c.FullName(), message)
}
