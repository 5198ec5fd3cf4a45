// Copyright 2026 The GetFinancing Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

// optionParser is a command's binding to the option-parsing
// collaborator. It is built once per command during Build and records
// whether a parse run printed help or usage, so the dispatcher can
// tell "output already produced" apart from "action still pending".
type optionParser struct {
	command *Command
	flags   *pflag.FlagSet
	usage   string

	showHelp     bool
	helpPrinted  bool
	usagePrinted bool
}

func newOptionParser(c *Command, usage string) *optionParser {
	flags := pflag.NewFlagSet(c.Name, pflag.ContinueOnError)
	// Stop at the first positional argument so subcommand flags reach
	// the subcommand untouched.
	flags.SetInterspersed(false)
	// Errors are rendered by the dispatcher, with usage and a
	// suggestion; silence pflag's own reporting.
	flags.SetOutput(io.Discard)

	if c.Flags != nil {
		c.Flags(flags)
	}

	p := &optionParser{command: c, flags: flags, usage: usage}
	if flags.Lookup("help") == nil {
		if flags.ShorthandLookup("h") == nil {
			flags.BoolVarP(&p.showHelp, "help", "h", false, "show this help message and exit")
		} else {
			flags.BoolVar(&p.showHelp, "help", false, "show this help message and exit")
		}
	}
	return p
}

// parseArgs parses one argument list, returning the remainder
// arguments or the usage fault. A help request is satisfied here as a
// side effect and recorded in helpPrinted.
func (p *optionParser) parseArgs(args []string) ([]string, error) {
	p.helpPrinted = false
	p.usagePrinted = false
	p.showHelp = false

	if err := p.flags.Parse(args); err != nil {
		return nil, err
	}
	if p.showHelp {
		p.printHelp(p.command.Out())
	}
	return p.flags.Args(), nil
}

// outputPrinted reports whether the last parseArgs run already wrote
// help or usage, meaning no further action should be taken.
func (p *optionParser) outputPrinted() bool {
	return p.helpPrinted || p.usagePrinted
}

func (p *optionParser) printHelp(w io.Writer) {
	fmt.Fprint(w, p.command.Help())
	p.helpPrinted = true
}

func (p *optionParser) printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage: %s\n", p.usage)
	p.usagePrinted = true
}
