package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/Faultbox/rwkit/internal/logger"
	"github.com/Faultbox/rwkit/pkg/rw"
)

func infoCmd() *cli.Command {
	var shared toolFlags

	return &cli.Command{
		Name:      "info",
		Usage:     "Show a summary of a DFF, TXD or IFP file",
		ArgsUsage: "<file>",
		Flags:     shared.flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: rwtool info <file>")
			}
			cfg, err := shared.setup()
			if err != nil {
				return err
			}

			path := cmd.Args().Get(0)
			asset, err := decodeAsset(path, cfg.Textures.DecodePixels)
			if err != nil {
				return err
			}
			logger.Sugar.Debugw("decoded asset", "path", path)

			printSummary(path, asset)
			return nil
		},
	}
}

func printSummary(path string, asset any) {
	fmt.Printf("File: %s\n", path)

	switch a := asset.(type) {
	case *rw.DFF:
		fmt.Printf("Type:      DFF (%s model)\n", a.ModelType)
		fmt.Printf("Version:   %s\n", a.Version)
		fmt.Printf("Vertices:  %d\n", a.TotalVertexCount())
		fmt.Printf("Triangles: %d\n", a.TotalTriangleCount())
		if a.FrameList != nil {
			fmt.Printf("Frames:    %d\n", a.FrameList.FrameCount)
		}
		if len(a.Dummies) > 0 {
			fmt.Printf("Dummies:   %v\n", a.Dummies)
		}
	case *rw.TXD:
		fmt.Printf("Type:     TXD (%d textures)\n", a.TextureCount)
		for i := range a.TextureNatives {
			n := &a.TextureNatives[i]
			fmt.Printf("  %-32s %dx%d depth %d, %d mip levels\n",
				n.TextureName, n.Width, n.Height, n.Depth, n.MipmapCount)
		}
	case *rw.IFP:
		fmt.Printf("Type:       IFP (%s)\n", a.Version)
		fmt.Printf("Name:       %s\n", a.Name)
		fmt.Printf("Animations: %d\n", len(a.Animations))
		for i := range a.Animations {
			fmt.Printf("  %-24s %d bones\n", a.Animations[i].Name, len(a.Animations[i].Bones))
		}
	}
}
