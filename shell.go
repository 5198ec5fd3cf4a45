// Copyright 2026 The GetFinancing Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Shell wraps a command tree in a line-oriented interactive
// interpreter: each input line is tokenized and dispatched through the
// tree as if it had been a fresh command-line invocation.
type Shell struct {
	// Command is the tree the shell dispatches into.
	Command *Command

	// Prompt is written before each input line. Defaults to the
	// command name followed by "> ".
	Prompt string
}

// Interpret dispatches a single input line. Blank lines are a no-op
// and report NoAction.
func (s *Shell) Interpret(line string) (Status, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return NoAction, nil
	}
	return s.Command.Parse(fields)
}

// Run reads lines from input until "exit", "quit", or end of input,
// interpreting each one. Dispatch failures are already reported on the
// command's channels and do not end the session; only a broken input
// stream or an unbuildable command tree does.
func (s *Shell) Run(input io.Reader) error {
	if err := s.Command.Build(); err != nil {
		return fmt.Errorf("building command tree: %w", err)
	}

	prompt := s.Prompt
	if prompt == "" {
		prompt = s.Command.Name + "> "
	}

	out := s.Command.Out()
	scanner := bufio.NewScanner(input)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			// End of input: finish the prompt line before returning.
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "exit" || line == "quit" {
			return nil
		}

		// Statuses and faults were delivered to the command's channels
		// already; an interactive session just moves on.
		s.Interpret(line)
	}
}
