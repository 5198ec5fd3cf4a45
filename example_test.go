// Copyright 2026 The GetFinancing Authors
// SPDX-License-Identifier: Apache-2.0

package command_test

import (
	"fmt"

	"github.com/GetFinancing/command"
	"github.com/GetFinancing/command/loop"
)

func ExampleCommand_Parse() {
	root := &command.Command{
		Name:    "rip",
		Summary: "image tool",
		Subcommands: []*command.Command{
			{
				Name:  "fetch",
				Usage: "<image>",
				Run: func(args []string) (command.Status, error) {
					fmt.Println("fetching", args[0])
					return 0, nil
				},
			},
		},
	}

	status, _ := root.Parse([]string{"fetch", "alpine:3.20"})
	fmt.Println("exit code:", status.ExitCode())
	// Output:
	// fetching alpine:3.20
	// exit code: 0
}

func ExampleCommand_Parse_deferred() {
	root := &command.Command{
		Name: "rip",
		RunDeferred: func(lp loop.Loop, args []string) *command.Future {
			pending := command.NewFuture()
			lp.Schedule(0, func() {
				fmt.Println("working on the event loop")
				pending.Resolve(0)
			})
			return pending
		},
	}

	status, _ := root.Parse(nil)
	fmt.Println("exit code:", status.ExitCode())
	// Output:
	// working on the event loop
	// exit code: 0
}
