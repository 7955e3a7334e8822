package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/tablestakes/holdem/internal/server"
)

// ServeCmd runs the websocket table server
type ServeCmd struct {
	Config string `short:"c" default:"holdem.hcl" help:"Path to the HCL config file"`
	Debug  bool   `help:"Enable debug logging"`
}

func (c *ServeCmd) Run() error {
	logger := setupLogger(c.Debug)

	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if !c.Debug && cfg.Server.LogLevel != "" {
		level, err := log.ParseLevel(cfg.Server.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Server.LogLevel, err)
		}
		logger.SetLevel(level)
	}

	s := server.New(cfg, quartz.NewReal(), logger)
	if err := s.Start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	s.Stop()
	return nil
}
