// rwtool is a CLI utility for inspecting RenderWare assets: DFF model
// clumps, TXD texture dictionaries, IFP animation packages and the IMG
// archives that carry them.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Faultbox/rwkit/internal/config"
	"github.com/Faultbox/rwkit/internal/logger"
)

// toolFlags carries the options shared by every subcommand.
type toolFlags struct {
	configPath string
	verbose    bool
}

func (f *toolFlags) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config file",
			Destination: &f.configPath,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Aliases:     []string{"v"},
			Usage:       "enable debug logging",
			Destination: &f.verbose,
		},
	}
}

// setup loads the configuration and initializes logging.
func (f *toolFlags) setup() (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	if f.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	app := &cli.Command{
		Name:  "rwtool",
		Usage: "RenderWare asset inspection utility",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			infoCmd(),
			dumpCmd(),
			archiveCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}
