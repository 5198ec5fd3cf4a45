// Copyright 2026 The GetFinancing Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"reflect"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/GetFinancing/command/help"
	"github.com/GetFinancing/command/loop"
)

// Placeholder recognized in Usage templates. On a command with
// subcommands it renders as "[command]"; on a leaf it splits the
// template into its usage variants.
const commandPlaceholder = "%command"

// Command is one node of a command tree: a named (sub)command with
// flags, an optional action, and optional nested subcommands. Assemble
// the tree as struct literals, then call Build (or let Parse do it on
// first use) to validate it and bind the option parsers.
//
// The tree shape is fixed after Build. Parent links are lookup-only;
// ownership runs strictly top-down through Subcommands.
type Command struct {
	// Name is the command name as typed by the user. Required, and
	// unique among its siblings' names and aliases.
	Name string

	// Aliases are alternate names recognized during dispatch. They
	// share the sibling namespace with Name.
	Aliases []string

	// Usage is a one-line usage template. Do not include the command
	// name itself; it is prepended automatically, as is the full
	// ancestor path. The %command placeholder marks the sub-command
	// position. If empty and the command has subcommands, it defaults
	// to the placeholder.
	Usage string

	// Summary is a one-line description shown in the parent's command
	// listing.
	Summary string

	// Description is a longer explanation shown in the command's own
	// help output. Falls back to Summary. One of the two is required
	// wherever subcommands exist.
	Description string

	// Flags registers this command's options on the flag set. Called
	// once during Build. A -h/--help flag is added unless the command
	// claims those names itself.
	Flags func(*pflag.FlagSet)

	// HandleFlags runs after option parsing, before any routing.
	// Returning a non-zero status or an error short-circuits the
	// dispatch with that result.
	HandleFlags func(*pflag.FlagSet) (Status, error)

	// Run is the synchronous action, invoked with the remaining
	// arguments once routing stops at this command.
	Run func(args []string) (Status, error)

	// RunDeferred is the asynchronous action. It is invoked on the
	// owning event loop's first turn and reports its result through
	// the returned Future (nil means status 0). Set at most one of
	// Run and RunDeferred.
	RunDeferred func(lp loop.Loop, args []string) *Future

	// Subcommands are the nested commands dispatched by the first
	// remaining argument.
	Subcommands []*Command

	// Loop designates this command as the scheduler owner for every
	// asynchronous action at or below it. When no command on the
	// chain sets it, the executing command installs the default loop.
	Loop loop.Loop

	// Stdout and Stderr are the command's output channels. Unset
	// channels resolve through the parent chain, ending at the
	// process streams. Setting one affects this command and any
	// descendant that has not set its own.
	Stdout io.Writer
	Stderr io.Writer

	// Logger receives dispatch debug records. Resolves through the
	// parent chain like the output channels; the root default
	// discards everything.
	Logger *slog.Logger

	// Width overrides the help-rendering width. Resolves through the
	// parent chain; the root default is the terminal width when
	// stdout is a terminal.
	Width int

	parent   *Command
	children map[string]*Command
	aliased  map[string]*Command
	parser   *optionParser
	state    loopState
	built    bool
}

// Build validates the tree rooted at this command and binds an option
// parser to every node: sibling name/alias collisions, missing names,
// and missing summaries are construction-time errors, not dispatch
// surprises. Build is idempotent; Parse calls it on first use.
func (c *Command) Build() error {
	if c.built {
		return nil
	}
	return c.finalize(c.parent)
}

func (c *Command) finalize(parent *Command) error {
	if c.Name == "" {
		return fmt.Errorf("root command needs a name")
	}
	c.parent = parent
	c.children = make(map[string]*Command, len(c.Subcommands))
	c.aliased = make(map[string]*Command)

	// Register all names before any alias so an alias colliding with
	// a later sibling's name is still caught.
	for _, sub := range c.Subcommands {
		if sub.Name == "" {
			return fmt.Errorf("command without a name under %q", c.FullName())
		}
		if _, dup := c.children[sub.Name]; dup {
			return fmt.Errorf("duplicate command %q under %q", sub.Name, c.FullName())
		}
		c.children[sub.Name] = sub
	}
	for _, sub := range c.Subcommands {
		for _, alias := range sub.Aliases {
			if alias == "" {
				return fmt.Errorf("empty alias on %q under %q", sub.Name, c.FullName())
			}
			if _, taken := c.children[alias]; taken {
				return fmt.Errorf("alias %q of %q collides with a command under %q", alias, sub.Name, c.FullName())
			}
			if other, taken := c.aliased[alias]; taken {
				return fmt.Errorf("alias %q of %q already used by %q under %q", alias, sub.Name, other.Name, c.FullName())
			}
			c.aliased[alias] = sub
		}
	}

	if len(c.children) > 0 && c.Summary == "" && c.Description == "" {
		return fmt.Errorf("command %q needs a summary or description for help output", c.FullName())
	}

	for _, sub := range c.Subcommands {
		if err := sub.finalize(c); err != nil {
			return err
		}
	}

	c.parser = newOptionParser(c, c.computeUsage())
	c.built = true
	return nil
}

// computeUsage derives the full usage line for this command: its own
// template (placeholder expanded or split), prefixed by each
// ancestor's usage token walking outward to the root.
func (c *Command) computeUsage() string {
	usage := c.Usage
	if usage == "" && len(c.children) > 0 {
		usage = commandPlaceholder
	}
	usage = strings.TrimSpace(c.Name + " " + usage)

	var parts []string
	if !strings.Contains(usage, commandPlaceholder) {
		parts = []string{usage}
	} else if len(c.children) > 0 {
		head, _, _ := strings.Cut(usage, commandPlaceholder)
		parts = []string{strings.TrimSpace(head) + " [command]"}
	} else {
		// A leaf keeps the placeholder's surrounding variants, in
		// reversed order.
		segments := strings.Split(usage, commandPlaceholder)
		for i := len(segments) - 1; i >= 0; i-- {
			if segment := strings.TrimSpace(segments[i]); segment != "" {
				parts = append(parts, segment)
			}
		}
	}

	for ancestor := c.parent; ancestor != nil; ancestor = ancestor.parent {
		token := ancestor.Usage
		if token == "" {
			token = ancestor.Name
		}
		head, _, _ := strings.Cut(token, commandPlaceholder)
		if token = strings.TrimSpace(head); token == "" {
			token = ancestor.Name
		}
		parts = append(parts, token)
	}
	slices.Reverse(parts)
	return strings.Join(parts, " ")
}

// FullName returns the space-joined command path from the root, for
// example "rip image retag".
func (c *Command) FullName() string {
	var names []string
	for node := c; node != nil; node = node.parent {
		names = append(names, node.Name)
	}
	slices.Reverse(names)
	return strings.Join(names, " ")
}

// UsageLine returns the fully derived usage line, ancestor path
// included. Valid once the tree is built.
func (c *Command) UsageLine() string {
	if c.parser == nil {
		return ""
	}
	return c.parser.usage
}

// FlagSet returns the command's bound flag set, including the
// implicit help flag. Valid once the tree is built.
func (c *Command) FlagSet() *pflag.FlagSet {
	if c.parser == nil {
		return nil
	}
	return c.parser.flags
}

// Root returns the top-level command of a built tree.
func (c *Command) Root() *Command {
	node := c
	for node.parent != nil {
		node = node.parent
	}
	return node
}

// Out returns the command's standard output channel, resolving unset
// channels through the parent chain down to os.Stdout.
func (c *Command) Out() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	if c.parent == nil {
		return os.Stdout
	}
	return c.parent.Out()
}

// ErrOut returns the command's standard error channel, resolving unset
// channels through the parent chain down to os.Stderr.
func (c *Command) ErrOut() io.Writer {
	if c.Stderr != nil {
		return c.Stderr
	}
	if c.parent == nil {
		return os.Stderr
	}
	return c.parent.ErrOut()
}

var discardLogger = slog.New(slog.DiscardHandler)

func (c *Command) log() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if c.parent == nil {
		return discardLogger
	}
	return c.parent.log()
}

func (c *Command) width() int {
	if c.Width > 0 {
		return c.Width
	}
	if c.parent != nil {
		return c.parent.width()
	}
	if file, ok := c.Out().(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return help.DefaultWidth
}

// Help returns this command's rendered help text. The tree is built on
// first use if Parse or Build has not run yet.
func (c *Command) Help() string {
	if !c.built {
		if err := c.Build(); err != nil {
			return fmt.Sprintf("help unavailable: %v\n", err)
		}
	}
	return help.Render(c.metadata(), c.width())
}

// metadata snapshots this command for the help renderer.
func (c *Command) metadata() help.Metadata {
	names := slices.Sorted(maps.Keys(c.children))
	entries := make([]help.Entry, 0, len(names))
	for _, name := range names {
		sub := c.children[name]
		summary := sub.Summary
		if summary == "" {
			summary = sub.Description
		}
		entries = append(entries, help.Entry{Name: name, Summary: summary})
	}

	description := c.Description
	if description == "" {
		description = c.Summary
	}

	return help.Metadata{
		Usage:         c.parser.usage,
		Description:   strings.TrimSpace(description),
		Aliases:       c.Aliases,
		Commands:      entries,
		FlagUsages:    c.parser.flags.FlagUsagesWrapped(c.width()),
		ImplementedBy: c.implementedBy(),
	}
}

// implementedBy names the function behind the command's action, the
// closest Go equivalent of the original library's implementing-class
// line in help output.
func (c *Command) implementedBy() string {
	var action any
	switch {
	case c.Run != nil:
		action = c.Run
	case c.RunDeferred != nil:
		action = c.RunDeferred
	default:
		return ""
	}
	if fn := runtime.FuncForPC(reflect.ValueOf(action).Pointer()); fn != nil {
		return fn.Name()
	}
	return ""
}
