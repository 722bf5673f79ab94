// Copyright 2026 The Pipeliner Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger creates a structured logger writing to w at level.
// Format "text" and "json" choose the handler explicitly. Any other
// value (normally "auto") uses slog.TextHandler when w is a terminal
// and slog.JSONHandler when it is piped or redirected, so a host
// runtime capturing extension stderr gets machine-parseable records.
//
// Callers scope the logger with command-specific context via With():
//
//	logger := cli.NewCommandLogger(os.Stderr, slog.LevelInfo, "auto").With(
//	    "command", "receive",
//	)
func NewCommandLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	switch {
	case format == "json":
		handler = slog.NewJSONHandler(w, options)
	case format == "text" || IsTerminal(w):
		handler = slog.NewTextHandler(w, options)
	default:
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}

// IsTerminal reports whether w is an *os.File attached to a terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}
