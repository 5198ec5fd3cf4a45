// Copyright 2026 The GetFinancing Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewLogger creates a logger suitable for wiring into a command tree's
// Logger field: human-readable text when stderr is a terminal, JSON
// when output is redirected or piped into log collection.
func NewLogger(level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		handler = slog.NewTextHandler(os.Stderr, options)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, options)
	}

	return slog.New(handler)
}
