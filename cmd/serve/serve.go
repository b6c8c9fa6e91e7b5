package serve

import (
	"context"
	"flag"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/vesfx/tasas/cmd/env"
	"github.com/vesfx/tasas/provider/bcv"
	"github.com/vesfx/tasas/provider/binance"
	"github.com/vesfx/tasas/server/config"
)

const defaultInterval = time.Hour * 4

// serveCfg wraps the serve configuration
type serveCfg struct {
	config *config.Config

	configPath string

	bcvURL     string
	binanceURL string
	interval   time.Duration

	redisAddr string
	logFile   string
}

// NewServeCmd creates the serve subcommand
func NewServeCmd() *ffcli.Command {
	cfg := &serveCfg{
		config: config.DefaultConfig(),
	}

	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg.registerFlags(fs)

	cmd := &ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve <subcommand> [flags]",
		LongHelp:   "Serves the tasas backend",
		FlagSet:    fs,
		Exec: func(_ context.Context, _ []string) error {
			return flag.ErrHelp
		},
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}

	cmd.Subcommands = []*ffcli.Command{
		newServeSQLCmd(cfg),
		newServeMemoryCmd(cfg),
	}

	return cmd
}

func (c *serveCfg) registerFlags(fs *flag.FlagSet) {
	fs.StringVar(
		&c.config.ListenAddress,
		"listen",
		config.DefaultListenAddress,
		"the IP:PORT URL for the server",
	)

	fs.StringVar(
		&c.configPath,
		"config",
		"",
		"the path to the server TOML configuration, if any",
	)

	fs.StringVar(
		&c.bcvURL,
		"bcv-url",
		bcv.DefaultURL,
		"the URL of the BCV page to scrape",
	)

	fs.StringVar(
		&c.binanceURL,
		"binance-url",
		binance.DefaultURL,
		"the URL of the Binance P2P listing endpoint",
	)

	fs.DurationVar(
		&c.interval,
		"interval",
		defaultInterval,
		"the interval between rate collection runs",
	)

	fs.StringVar(
		&c.redisAddr,
		"redis-addr",
		"",
		"the Redis address for the read cache, if any",
	)

	fs.StringVar(
		&c.logFile,
		"log-file",
		"",
		"the path of the rotating log file sink, if any",
	)
}
