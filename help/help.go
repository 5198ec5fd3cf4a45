// Copyright 2026 The GetFinancing Authors
// SPDX-License-Identifier: Apache-2.0

// Package help renders help text for command trees.
//
// The renderer is a pure function over a [Metadata] snapshot: it never
// touches the live command tree, so layout stays decoupled from
// dispatch. The dispatcher builds the snapshot and decides where the
// text goes.
package help

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/x/ansi"
)

// DefaultWidth is used when the caller has no terminal width to offer.
const DefaultWidth = 80

// Entry is one subcommand line in the Commands table.
type Entry struct {
	Name    string
	Summary string
}

// Metadata is the read-only snapshot of a command that Render formats.
type Metadata struct {
	// Usage is the full usage line, including the ancestor chain.
	Usage string

	// Description is the long description, falling back to the
	// summary. Blank lines separate paragraphs; lines starting with a
	// space or dash are preserved verbatim.
	Description string

	// Aliases are the command's alternate names.
	Aliases []string

	// Commands lists the direct subcommands, in display order.
	Commands []Entry

	// FlagUsages is the pre-rendered option block (one indented line
	// per flag), typically pflag's FlagUsagesWrapped output.
	FlagUsages string

	// ImplementedBy identifies the code implementing the command's
	// action; omitted from output when empty.
	ImplementedBy string
}

// Render formats the snapshot into help text wrapped to width columns.
// A non-positive width falls back to DefaultWidth.
func Render(meta Metadata, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Usage: %s\n", meta.Usage)

	if meta.Description != "" {
		b.WriteString("\n")
		b.WriteString(wrapDescription(meta.Description, width))
		b.WriteString("\n")
	}

	if len(meta.Aliases) > 0 {
		fmt.Fprintf(&b, "\nAliases: %s\n", strings.Join(meta.Aliases, ", "))
	}

	if len(meta.Commands) > 0 {
		b.WriteString("\n")
		b.WriteString(CommandList(meta.Commands))
	}

	if meta.FlagUsages != "" {
		b.WriteString("\nOptions:\n")
		b.WriteString(meta.FlagUsages)
		if !strings.HasSuffix(meta.FlagUsages, "\n") {
			b.WriteString("\n")
		}
	}

	if meta.ImplementedBy != "" {
		fmt.Fprintf(&b, "\nImplemented by: %s\n", meta.ImplementedBy)
	}

	return b.String()
}

// CommandList renders the "Commands:" table on its own, aligned with a
// tab writer. The dispatcher reuses it for the unknown-command
// diagnostic.
func CommandList(entries []Entry) string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	tw := tabwriter.NewWriter(&b, 2, 0, 2, ' ', 0)
	for _, entry := range entries {
		fmt.Fprintf(tw, "  %s\t%s\n", entry.Name, entry.Summary)
	}
	tw.Flush()
	return b.String()
}

// wrapDescription word-wraps prose paragraphs while leaving list-like
// paragraphs alone. Paragraphs are separated by blank lines; a
// paragraph where any line starts with a space or dash is treated as
// preformatted.
func wrapDescription(text string, width int) string {
	paragraphs := strings.Split(strings.TrimSpace(text), "\n\n")
	wrapped := make([]string, 0, len(paragraphs))

	for _, paragraph := range paragraphs {
		if isPreformatted(paragraph) {
			wrapped = append(wrapped, paragraph)
			continue
		}
		flowed := strings.Join(strings.Fields(paragraph), " ")
		wrapped = append(wrapped, ansi.Wordwrap(flowed, width, ""))
	}

	return strings.Join(wrapped, "\n\n")
}

func isPreformatted(paragraph string) bool {
	for _, line := range strings.Split(paragraph, "\n") {
		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "-") {
			return true
		}
	}
	return false
}
