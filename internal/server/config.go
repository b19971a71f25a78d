package server

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the server settings. Environment variables provide the
// defaults; flags override them.
type Config struct {
	Addr        string `env:"REVREB_ADDR" envDefault:":8080"`
	SnapshotDB  string `env:"REVREB_SNAPSHOT_DB"`
	DecksFile   string `env:"REVREB_DECKS_FILE"`
	LogLevel    string `env:"REVREB_LOG_LEVEL" envDefault:"info"`
	AllowInject bool   `env:"REVREB_ALLOW_INJECT"`
}

// LoadConfig reads the environment and then lets flags override it.
// args is os.Args[1:].
func LoadConfig(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}

	fs := flag.NewFlagSet("revreb-server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.SnapshotDB, "snapshot-db", cfg.SnapshotDB, "sqlite snapshot path (empty disables persistence)")
	fs.StringVar(&cfg.DecksFile, "decks", cfg.DecksFile, "deck list YAML (empty uses the built-in decks)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "zap log level")
	fs.BoolVar(&cfg.AllowInject, "allow-inject", cfg.AllowInject, "enable the test-only state injection endpoint")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, nil
}
