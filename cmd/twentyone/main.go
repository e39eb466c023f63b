package main

import (
	"fmt"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/lox/twentyone/internal/config"
)

// version is set by ldflags during build
var version = "dev"

// Globals are flags shared by every command
type Globals struct {
	Config string `short:"c" type:"path" default:"twentyone.hcl" env:"TWENTYONE_CONFIG" help:"HCL configuration file"`
	Debug  bool   `help:"Enable debug logging"`
}

// LoadConfig reads the configuration file, falling back to defaults when it
// does not exist
func (g *Globals) LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", g.Config, err)
	}
	return cfg, nil
}

// LogLevel is debug when --debug is set, otherwise the configured level
func (g *Globals) LogLevel(cfg *config.Config) log.Level {
	if g.Debug {
		return log.DebugLevel
	}
	return cfg.LogLevel()
}

type CLI struct {
	Globals

	Play     PlayCmd     `cmd:"" default:"1" help:"Play blackjack in the terminal"`
	Serve    ServeCmd    `cmd:"" help:"Run the websocket server"`
	Simulate SimulateCmd `cmd:"" help:"Simulate a playing strategy over many rounds"`
	Version  VersionCmd  `cmd:"" help:"Show version"`
}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("twentyone"),
		kong.Description("Blackjack against the dealer: terminal game, websocket server and simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}

// VersionCmd prints the build version
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(version)
	return nil
}
