// Package game parses game command flags and starts the game server.
package game

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/minefield/internal/platform/cmd"
	server "github.com/louisbranch/minefield/internal/services/game/app"
)

// Config holds game command configuration.
type Config struct {
	Port int    `env:"MINEFIELD_GAME_PORT" envDefault:"8082"`
	Addr string `env:"MINEFIELD_GAME_ADDR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The game server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The game server listen address (overrides -port)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the game gRPC service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceGame, func(ctx context.Context) error {
		if cfg.Addr != "" {
			return server.RunWithAddr(ctx, cfg.Addr)
		}
		return server.Run(ctx, cfg.Port)
	})
}
