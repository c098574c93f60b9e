// Package history keeps bounded undo and redo stacks of reversible commands.
package history

import (
	"io"
	"log/slog"
)

// DefaultMaxDepth is the undo depth used when New is given a non-positive depth.
const DefaultMaxDepth = 100

// Command is a reversible mutation. Undo after Execute restores the exact
// prior observable state; Execute after Undo restores the state Execute
// produced.
type Command interface {
	Execute()
	Undo()
	// Describe returns a short human-readable label used in logs.
	Describe() string
}

// History executes commands and records them for undo and redo. Every
// command is its own history entry; there is no grouping.
//
// A History is not safe for concurrent use.
type History struct {
	undo     []Command
	redo     []Command
	maxDepth int
	logger   *slog.Logger
}

// New returns an empty History keeping at most maxDepth undo entries.
// A nil logger discards log output.
func New(maxDepth int, logger *slog.Logger) *History {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &History{maxDepth: maxDepth, logger: logger}
}

// MaxDepth returns the undo stack bound.
func (h *History) MaxDepth() int { return h.maxDepth }

// PushAndExecute runs cmd, records it for undo, and drops every redo entry.
// When the undo stack grows past the bound the oldest entry is discarded
// and can no longer be undone.
func (h *History) PushAndExecute(cmd Command) {
	cmd.Execute()
	h.undo = append(h.undo, cmd)
	clear(h.redo)
	h.redo = h.redo[:0]
	if len(h.undo) > h.maxDepth {
		evicted := h.undo[0]
		h.undo[0] = nil
		h.undo = h.undo[1:]
		h.logger.Debug("history entry evicted", "command", evicted.Describe(), "max_depth", h.maxDepth)
	}
	h.logger.Debug("command executed", "command", cmd.Describe(), "undo_depth", len(h.undo))
}

// Undo reverts the most recent command and makes it available to Redo.
// Reports whether anything was undone.
func (h *History) Undo() bool {
	if len(h.undo) == 0 {
		return false
	}
	cmd := h.undo[len(h.undo)-1]
	h.undo[len(h.undo)-1] = nil
	h.undo = h.undo[:len(h.undo)-1]
	cmd.Undo()
	h.redo = append(h.redo, cmd)
	h.logger.Debug("command undone", "command", cmd.Describe(), "redo_depth", len(h.redo))
	return true
}

// Redo re-executes the most recently undone command. Reports whether
// anything was redone.
func (h *History) Redo() bool {
	if len(h.redo) == 0 {
		return false
	}
	cmd := h.redo[len(h.redo)-1]
	h.redo[len(h.redo)-1] = nil
	h.redo = h.redo[:len(h.redo)-1]
	cmd.Execute()
	h.undo = append(h.undo, cmd)
	h.logger.Debug("command redone", "command", cmd.Describe(), "undo_depth", len(h.undo))
	return true
}

// Depth returns the number of undo and redo entries, for status display.
func (h *History) Depth() (undo, redo int) {
	return len(h.undo), len(h.redo)
}
