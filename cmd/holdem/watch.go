package main

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/tablestakes/holdem/internal/tui"
)

// WatchCmd attaches a read-only terminal viewer to a running table
type WatchCmd struct {
	Table string `arg:"" optional:"" default:"main" help:"Table name to watch"`
	URL   string `short:"u" default:"ws://localhost:8080/ws" help:"Server websocket URL"`
}

func (c *WatchCmd) Run() error {
	// The TUI owns the terminal; logs would corrupt the display
	return tui.Run(c.URL, c.Table, log.New(io.Discard))
}
