package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/Faultbox/rwkit/internal/export"
	"github.com/Faultbox/rwkit/internal/logger"
	"github.com/Faultbox/rwkit/pkg/rw"
)

func dumpCmd() *cli.Command {
	var (
		shared toolFlags
		outDir string
	)

	return &cli.Command{
		Name:      "dump",
		Usage:     "Decode an asset and write it as JSON",
		ArgsUsage: "<file>...",
		Flags: append(shared.flags(),
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output directory (defaults to the configured export dir)",
				Destination: &outDir,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: rwtool dump <file>...")
			}
			cfg, err := shared.setup()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.Export.Dir
			}

			for _, path := range cmd.Args().Slice() {
				asset, err := decodeAsset(path, cfg.Textures.DecodePixels)
				if err != nil {
					return err
				}
				if txd, ok := asset.(*rw.TXD); ok && !cfg.Export.IncludePixels {
					asset = export.StripPixels(txd)
				}

				base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				target := filepath.Join(outDir, base+".json")
				if err := export.WriteJSON(target, asset, cfg.Export.Pretty); err != nil {
					return err
				}
				logger.Sugar.Infow("wrote asset", "source", path, "target", target)
			}
			return nil
		},
	}
}
