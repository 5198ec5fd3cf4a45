// Copyright 2026 The GetFinancing Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"bytes"
	"strings"
	"testing"
)

func TestCommand_Build_RequiresRootName(t *testing.T) {
	root := &Command{}

	err := root.Build()
	if err == nil {
		t.Fatal("Build() accepted an unnamed root")
	}
	if !strings.Contains(err.Error(), "needs a name") {
		t.Errorf("Build() error = %q, want mention of missing name", err)
	}
}

func TestCommand_Build_RejectsDuplicateName(t *testing.T) {
	root := &Command{
		Name:    "rip",
		Summary: "image tool",
		Subcommands: []*Command{
			{Name: "fetch"},
			{Name: "fetch"},
		},
	}

	err := root.Build()
	if err == nil {
		t.Fatal("Build() accepted duplicate sibling names")
	}
	if !strings.Contains(err.Error(), `duplicate command "fetch"`) {
		t.Errorf("Build() error = %q, want duplicate command report", err)
	}
}

func TestCommand_Build_RejectsAliasCollidingWithName(t *testing.T) {
	root := &Command{
		Name:    "rip",
		Summary: "image tool",
		Subcommands: []*Command{
			{Name: "fetch", Aliases: []string{"list"}},
			{Name: "list"},
		},
	}

	err := root.Build()
	if err == nil {
		t.Fatal("Build() accepted an alias shadowing a sibling name")
	}
	if !strings.Contains(err.Error(), `alias "list"`) {
		t.Errorf("Build() error = %q, want alias collision report", err)
	}
}

func TestCommand_Build_RejectsDuplicateAlias(t *testing.T) {
	root := &Command{
		Name:    "rip",
		Summary: "image tool",
		Subcommands: []*Command{
			{Name: "fetch", Aliases: []string{"dl"}},
			{Name: "pull", Aliases: []string{"dl"}},
		},
	}

	err := root.Build()
	if err == nil {
		t.Fatal("Build() accepted the same alias on two siblings")
	}
	if !strings.Contains(err.Error(), `already used by "fetch"`) {
		t.Errorf("Build() error = %q, want duplicate alias report", err)
	}
}

func TestCommand_Build_RequiresSummaryWithSubcommands(t *testing.T) {
	root := &Command{
		Name: "rip",
		Subcommands: []*Command{
			{Name: "fetch"},
		},
	}

	err := root.Build()
	if err == nil {
		t.Fatal("Build() accepted a parent without summary or description")
	}
	if !strings.Contains(err.Error(), "needs a summary or description") {
		t.Errorf("Build() error = %q, want summary requirement report", err)
	}
}

func TestCommand_Build_Idempotent(t *testing.T) {
	root := &Command{Name: "rip"}

	if err := root.Build(); err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if err := root.Build(); err != nil {
		t.Fatalf("second Build() error: %v", err)
	}
}

func TestCommand_FullName(t *testing.T) {
	retag := &Command{Name: "retag"}
	root := &Command{
		Name:    "rip",
		Summary: "image tool",
		Subcommands: []*Command{
			{
				Name:        "image",
				Summary:     "image operations",
				Subcommands: []*Command{retag},
			},
		},
	}
	if err := root.Build(); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if got := retag.FullName(); got != "rip image retag" {
		t.Errorf("FullName() = %q, want %q", got, "rip image retag")
	}
	if got := retag.Root(); got != root {
		t.Errorf("Root() = %v, want the tree root", got)
	}
}

func TestCommand_UsageLine_ParentShowsCommandSlot(t *testing.T) {
	root := &Command{
		Name:    "rip",
		Summary: "image tool",
		Subcommands: []*Command{
			{Name: "fetch"},
		},
	}
	if err := root.Build(); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if got := root.UsageLine(); got != "rip [command]" {
		t.Errorf("UsageLine() = %q, want %q", got, "rip [command]")
	}
}

func TestCommand_UsageLine_LeafIncludesAncestorPath(t *testing.T) {
	fetch := &Command{Name: "fetch", Usage: "<image>"}
	root := &Command{
		Name:        "rip",
		Summary:     "image tool",
		Subcommands: []*Command{fetch},
	}
	if err := root.Build(); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if got := fetch.UsageLine(); got != "rip fetch <image>" {
		t.Errorf("UsageLine() = %q, want %q", got, "rip fetch <image>")
	}
}

func TestCommand_UsageLine_AncestorUsageStripsCommandSlot(t *testing.T) {
	retag := &Command{Name: "retag", Usage: "<old> <new>"}
	root := &Command{
		Name:    "rip",
		Usage:   "[--verbose] %command",
		Summary: "image tool",
		Subcommands: []*Command{
			{
				Name:        "image",
				Summary:     "image operations",
				Subcommands: []*Command{retag},
			},
		},
	}
	if err := root.Build(); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if got := retag.UsageLine(); got != "[--verbose] image retag <old> <new>" {
		t.Errorf("UsageLine() = %q, want %q", got, "[--verbose] image retag <old> <new>")
	}
}

func TestCommand_OutputChannels_ResolveThroughParents(t *testing.T) {
	var stdout, stderr bytes.Buffer
	leaf := &Command{Name: "fetch"}
	root := &Command{
		Name:        "rip",
		Summary:     "image tool",
		Stdout:      &stdout,
		Stderr:      &stderr,
		Subcommands: []*Command{leaf},
	}
	if err := root.Build(); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if leaf.Out() != &stdout {
		t.Error("leaf Out() did not resolve to the root's Stdout")
	}
	if leaf.ErrOut() != &stderr {
		t.Error("leaf ErrOut() did not resolve to the root's Stderr")
	}

	var own bytes.Buffer
	leaf.Stdout = &own
	if leaf.Out() != &own {
		t.Error("leaf Out() ignored its own Stdout")
	}
}

func TestCommand_Help_IncludesSections(t *testing.T) {
	root := &Command{
		Name:        "rip",
		Aliases:     []string{"ripper"},
		Summary:     "image tool",
		Description: "Manage container images across registries.",
		Subcommands: []*Command{
			{Name: "fetch", Summary: "download an image"},
			{Name: "push", Summary: "upload an image"},
		},
	}

	text := root.Help()
	for _, want := range []string{
		"Usage: rip [command]\n",
		"Manage container images across registries.",
		"Aliases: ripper",
		"Commands:",
		"fetch",
		"download an image",
		"Options:",
		"--help",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Help() missing %q in:\n%s", want, text)
		}
	}
}

func TestCommand_Help_ReportsBuildFailure(t *testing.T) {
	root := &Command{
		Name:        "rip",
		Summary:     "image tool",
		Subcommands: []*Command{{Name: "x"}, {Name: "x"}},
	}

	text := root.Help()
	if !strings.Contains(text, "help unavailable") {
		t.Errorf("Help() on a broken tree = %q, want build failure notice", text)
	}
}

func TestCommand_Help_NamesImplementingFunction(t *testing.T) {
	root := &Command{
		Name: "rip",
		Run:  func(args []string) (Status, error) { return 0, nil },
	}

	text := root.Help()
	if !strings.Contains(text, "Implemented by: ") {
		t.Errorf("Help() missing implementer line in:\n%s", text)
	}
}
