// Copyright 2026 The GetFinancing Authors
// SPDX-License-Identifier: Apache-2.0

// Package man renders a command tree as a roff manual page, one
// subsection per command, in the layout help2man produces for flat
// programs.
package man

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/GetFinancing/command"
)

// Page is the fixed front matter of a generated manual page. Zero
// fields get sensible defaults derived from the command tree.
type Page struct {
	// Title is the page title, conventionally the command name in
	// upper case.
	Title string

	// Section is the manual section. Defaults to 1 (user commands).
	Section int

	// Date is the page date in whatever format the project uses.
	Date string

	// Source names the project or package the page documents.
	Source string

	// Manual is the manual name shown in the page header.
	Manual string
}

// Render generates the complete manual page for the tree rooted at
// root. The tree is built first if necessary.
func Render(root *command.Command, page Page) (string, error) {
	if err := root.Build(); err != nil {
		return "", fmt.Errorf("building command tree: %w", err)
	}

	if page.Title == "" {
		page.Title = strings.ToUpper(root.Name)
	}
	if page.Section == 0 {
		page.Section = 1
	}
	if page.Source == "" {
		page.Source = root.Name
	}
	if page.Manual == "" {
		page.Manual = "User Commands"
	}

	var b strings.Builder
	fmt.Fprintf(&b, ".TH %q %q %q %q %q\n",
		page.Title, fmt.Sprint(page.Section), page.Date, page.Source, page.Manual)

	summary := root.Summary
	if summary == "" {
		summary = firstLine(root.Description)
	}
	b.WriteString(".SH NAME\n")
	fmt.Fprintf(&b, "%s \\- %s\n", escape(root.Name), escape(summary))

	b.WriteString(".SH SYNOPSIS\n")
	fmt.Fprintf(&b, ".B %s\n", escape(root.UsageLine()))

	if description := description(root); description != "" {
		b.WriteString(".SH DESCRIPTION\n")
		writeText(&b, description)
	}

	if options := strings.TrimRight(root.FlagSet().FlagUsages(), "\n"); options != "" {
		b.WriteString(".SH OPTIONS\n")
		b.WriteString(".nf\n")
		writeText(&b, options)
		b.WriteString(".fi\n")
	}

	subs := sorted(root)
	if len(subs) > 0 {
		b.WriteString(".SH COMMANDS\n")
		for _, sub := range subs {
			writeCommand(&b, sub)
		}
	}

	return b.String(), nil
}

// writeCommand emits one subsection for a command and recurses into
// its children in name order.
func writeCommand(b *strings.Builder, c *command.Command) {
	fmt.Fprintf(b, ".SS %s\n", escape(c.FullName()))
	fmt.Fprintf(b, ".B %s\n", escape(c.UsageLine()))

	if len(c.Aliases) > 0 {
		b.WriteString(".PP\n")
		fmt.Fprintf(b, "Aliases: %s\n", escape(strings.Join(c.Aliases, ", ")))
	}

	if text := description(c); text != "" {
		b.WriteString(".PP\n")
		writeText(b, text)
	}

	for _, sub := range sorted(c) {
		writeCommand(b, sub)
	}
}

// firstLine returns text up to the first newline.
func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return line
}

// description picks the text a command's section should carry: the
// summary as a lead line when both are present, then the description.
func description(c *command.Command) string {
	switch {
	case c.Summary != "" && c.Description != "":
		return c.Summary + "\n.PP\n" + c.Description
	case c.Description != "":
		return c.Description
	default:
		return c.Summary
	}
}

func sorted(c *command.Command) []*command.Command {
	byName := make(map[string]*command.Command, len(c.Subcommands))
	for _, sub := range c.Subcommands {
		byName[sub.Name] = sub
	}
	subs := make([]*command.Command, 0, len(byName))
	for _, name := range slices.Sorted(maps.Keys(byName)) {
		subs = append(subs, byName[name])
	}
	return subs
}

// writeText emits body text line by line, escaped for roff.
func writeText(b *strings.Builder, text string) {
	for line := range strings.Lines(strings.TrimRight(text, "\n") + "\n") {
		line = strings.TrimRight(line, "\n")
		if strings.HasPrefix(line, ".") {
			// Keep macros produced by description() as-is, protect
			// everything else that happens to start with a dot.
			if line == ".PP" {
				b.WriteString(line + "\n")
				continue
			}
			b.WriteString("\\&" + escape(line) + "\n")
			continue
		}
		b.WriteString(escape(line) + "\n")
	}
}

// escape protects roff metacharacters in user-supplied text.
func escape(text string) string {
	text = strings.ReplaceAll(text, `\`, `\e`)
	text = strings.ReplaceAll(text, `-`, `\-`)
	if strings.HasPrefix(text, "'") {
		text = `\&` + text
	}
	return text
}
