// Package config loads the HCL file that describes the table rules, the
// dealer pacing and the websocket server.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/twentyone/internal/game"
	"github.com/lox/twentyone/internal/pacing"
)

// Config represents the complete configuration file
type Config struct {
	Table  *TableConfig  `hcl:"table,block"`
	Pacing *PacingConfig `hcl:"pacing,block"`
	Server *ServerConfig `hcl:"server,block"`
}

// TableConfig holds the betting and dealer rules
type TableConfig struct {
	MinBet           int `hcl:"min_bet,optional"`
	BetStep          int `hcl:"bet_step,optional"`
	StartingBankroll int `hcl:"starting_bankroll,optional"`
	DealerStandsOn   int `hcl:"dealer_stands_on,optional"`
}

// PacingConfig holds the dealer delays as duration strings ("1s", "1500ms")
type PacingConfig struct {
	RevealDelay string `hcl:"reveal_delay,optional"`
	HitDelay    string `hcl:"hit_delay,optional"`
	SettleDelay string `hcl:"settle_delay,optional"`
}

// ServerConfig contains websocket server settings
type ServerConfig struct {
	Address  string `hcl:"address,optional"`
	LogLevel string `hcl:"log_level,optional"`
	Database string `hcl:"database,optional"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source, applies defaults and validates the result
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var c Config
	diags = gohcl.DecodeBody(file.Body, nil, &c)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	rules := game.DefaultRules()
	if c.Table == nil {
		c.Table = &TableConfig{}
	}
	if c.Table.MinBet == 0 {
		c.Table.MinBet = rules.MinBet
	}
	if c.Table.BetStep == 0 {
		c.Table.BetStep = rules.BetStep
	}
	if c.Table.StartingBankroll == 0 {
		c.Table.StartingBankroll = rules.StartingBankroll
	}
	if c.Table.DealerStandsOn == 0 {
		c.Table.DealerStandsOn = rules.DealerStandsOn
	}

	delays := pacing.DefaultDelays()
	if c.Pacing == nil {
		c.Pacing = &PacingConfig{}
	}
	if c.Pacing.RevealDelay == "" {
		c.Pacing.RevealDelay = delays.Reveal.String()
	}
	if c.Pacing.HitDelay == "" {
		c.Pacing.HitDelay = delays.Hit.String()
	}
	if c.Pacing.SettleDelay == "" {
		c.Pacing.SettleDelay = delays.Settle.String()
	}

	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.Address == "" {
		c.Server.Address = "localhost:8080"
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error
	if err := c.Rules().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("table: %w", err))
	}
	if _, err := c.Delays(); err != nil {
		errs = append(errs, fmt.Errorf("pacing: %w", err))
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("server: invalid log level %q", c.Server.LogLevel))
	}
	return errors.Join(errs...)
}

// Rules returns the table rules
func (c *Config) Rules() game.Rules {
	return game.Rules{
		MinBet:           c.Table.MinBet,
		BetStep:          c.Table.BetStep,
		StartingBankroll: c.Table.StartingBankroll,
		DealerStandsOn:   c.Table.DealerStandsOn,
	}
}

// Delays parses the pacing block
func (c *Config) Delays() (pacing.Delays, error) {
	var d pacing.Delays
	var errs []error
	for _, f := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"reveal_delay", c.Pacing.RevealDelay, &d.Reveal},
		{"hit_delay", c.Pacing.HitDelay, &d.Hit},
		{"settle_delay", c.Pacing.SettleDelay, &d.Settle},
	} {
		v, err := time.ParseDuration(f.raw)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", f.name, err))
		case v < 0:
			errs = append(errs, fmt.Errorf("%s: must not be negative", f.name))
		default:
			*f.dst = v
		}
	}
	return d, errors.Join(errs...)
}

// LogLevel returns the parsed server log level
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Server.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
