// Copyright 2026 The GetFinancing Authors
// SPDX-License-Identifier: Apache-2.0

/*
Package command implements a hierarchical command-line dispatcher:
a tree of named commands, each with its own flags, help text, and an
action that runs either synchronously or on a shared cooperative event
loop.

A tree is assembled from Command struct literals and driven by Parse:

	root := &command.Command{
		Name:    "rip",
		Summary: "manage container images",
		Subcommands: []*command.Command{
			{
				Name:    "fetch",
				Usage:   "<image>",
				Summary: "download an image",
				Run: func(args []string) (command.Status, error) {
					...
				},
			},
		},
	}
	status, err := root.Parse(os.Args[1:])

Parse resolves subcommands level by level, stopping interspersed flag
parsing at the first positional argument so every command owns exactly
its own options. Each node gets -h/--help for free, a "help" pseudo
subcommand, usage lines derived from the full ancestor path, and typo
suggestions for unknown commands and flags.

Actions come in two flavors. Run executes inline and returns its
status. RunDeferred instead registers work on an event loop and
reports through a Future; the nearest ancestor with a Loop owns the
run/stop cycle, so several asynchronous commands in one tree share a
single scheduler. A tree with no designated owner gets a real-time
loop installed at the executing command automatically.

Expected failures are returned as statuses after being reported on the
command's error channel; only unexpected faults surface as errors from
Parse, and only after the loop has been stopped.
*/
package command
