package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/tablestakes/holdem/internal/table"
)

// Config represents the complete server configuration
type Config struct {
	Server  ServerSettings   `hcl:"server,block"`
	Engine  *EngineSettings  `hcl:"engine,block"`
	Advisor *AdvisorSettings `hcl:"advisor,block"`
	Tables  []TableSettings  `hcl:"table,block"`
	Bots    []BotSettings    `hcl:"bot,block"`
}

// ServerSettings contains server-level configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// EngineSettings tunes hand pacing
type EngineSettings struct {
	BotDelayMs      int   `hcl:"bot_delay_ms,optional"`
	AutoDealSeconds int   `hcl:"auto_deal_seconds,optional"`
	Seed            int64 `hcl:"seed,optional"`
}

// AdvisorSettings configures the language model endpoint for policy
// bot seats
type AdvisorSettings struct {
	BaseURL        string `hcl:"base_url,optional"`
	Model          string `hcl:"model,optional"`
	TimeoutSeconds int    `hcl:"timeout_seconds,optional"`
}

// TableSettings defines one table
type TableSettings struct {
	Name          string `hcl:"name,label"`
	Seats         int    `hcl:"seats,optional"`
	SmallBlind    int    `hcl:"small_blind"`
	BigBlind      int    `hcl:"big_blind"`
	StartingChips int    `hcl:"starting_chips,optional"`
}

// BotSettings seats one bot at startup
type BotSettings struct {
	Name  string `hcl:"name,label"`
	Kind  string `hcl:"kind"`
	Table string `hcl:"table,optional"`
}

// DefaultConfig returns the configuration used when no file exists:
// one six-seat table with a pair of heuristic bots
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Tables: []TableSettings{
			{
				Name:          "main",
				Seats:         6,
				SmallBlind:    5,
				BigBlind:      10,
				StartingChips: 1000,
			},
		},
		Bots: []BotSettings{
			{Name: "ada", Kind: "heuristic", Table: "main"},
			{Name: "kim", Kind: "heuristic", Table: "main"},
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to
// defaults when the file does not exist
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

// applyDefaults fills missing values across all blocks
func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = "localhost"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	for i := range c.Tables {
		if c.Tables[i].Seats == 0 {
			c.Tables[i].Seats = 6
		}
		if c.Tables[i].StartingChips == 0 {
			c.Tables[i].StartingChips = c.Tables[i].BigBlind * 100
		}
	}

	for i := range c.Bots {
		if c.Bots[i].Table == "" && len(c.Tables) > 0 {
			c.Bots[i].Table = c.Tables[0].Name
		}
	}
}

// Validate checks the configuration for inconsistencies
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}

	names := make(map[string]bool, len(c.Tables))
	for _, t := range c.Tables {
		if names[t.Name] {
			return fmt.Errorf("duplicate table name %q", t.Name)
		}
		names[t.Name] = true

		if t.SmallBlind <= 0 {
			return fmt.Errorf("table %s: small blind must be positive", t.Name)
		}
		if t.BigBlind <= t.SmallBlind {
			return fmt.Errorf("table %s: big blind must be greater than small blind", t.Name)
		}
		if t.Seats < 2 || t.Seats > 9 {
			return fmt.Errorf("table %s: seats must be between 2 and 9", t.Name)
		}
	}

	for _, b := range c.Bots {
		if _, ok := parseBotKind(b.Kind); !ok {
			return fmt.Errorf("bot %s: invalid kind %q", b.Name, b.Kind)
		}
		if !names[b.Table] {
			return fmt.Errorf("bot %s: unknown table %q", b.Name, b.Table)
		}
	}

	return nil
}

// ListenAddress returns the full listen address
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// TableConfig converts one table block into the table package's config
func (t TableSettings) TableConfig() table.Config {
	return table.Config{
		SeatCount:     t.Seats,
		SmallBlind:    t.SmallBlind,
		BigBlind:      t.BigBlind,
		StartingChips: t.StartingChips,
	}
}

// AdvisorTimeout returns the configured advisor timeout
func (a *AdvisorSettings) AdvisorTimeout() time.Duration {
	if a == nil || a.TimeoutSeconds <= 0 {
		return 8 * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// parseBotKind maps a config kind string to a player kind
func parseBotKind(s string) (table.PlayerKind, bool) {
	switch s {
	case "heuristic":
		return table.HeuristicBot, true
	case "policy":
		return table.PolicyBot, true
	default:
		return 0, false
	}
}
