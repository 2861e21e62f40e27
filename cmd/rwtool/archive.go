package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/Faultbox/rwkit/internal/logger"
	"github.com/Faultbox/rwkit/pkg/img"
)

func archiveCmd() *cli.Command {
	return &cli.Command{
		Name:  "archive",
		Usage: "Work with IMG archives",
		Commands: []*cli.Command{
			archiveListCmd(),
			archiveExtractCmd(),
		},
	}
}

func archiveListCmd() *cli.Command {
	var (
		shared  toolFlags
		pattern string
	)

	return &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List the files in an IMG archive",
		ArgsUsage: "<file.img>",
		Flags: append(shared.flags(),
			&cli.StringFlag{
				Name:        "pattern",
				Aliases:     []string{"p"},
				Usage:       "only list names containing this substring",
				Destination: &pattern,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("usage: rwtool archive list <file.img>")
			}
			if _, err := shared.setup(); err != nil {
				return err
			}

			archive, err := img.Open(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			defer archive.Close()

			names := archive.List()
			sort.Strings(names)

			pattern = strings.ToLower(pattern)
			for _, name := range names {
				if pattern != "" && !strings.Contains(strings.ToLower(name), pattern) {
					continue
				}
				fmt.Println(name)
			}
			return nil
		},
	}
}

func archiveExtractCmd() *cli.Command {
	var (
		shared toolFlags
		outDir string
	)

	return &cli.Command{
		Name:      "extract",
		Aliases:   []string{"x"},
		Usage:     "Extract files from an IMG archive",
		ArgsUsage: "<file.img> <name>...",
		Flags: append(shared.flags(),
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output directory",
				Value:       ".",
				Destination: &outDir,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("usage: rwtool archive extract <file.img> <name>...")
			}
			if _, err := shared.setup(); err != nil {
				return err
			}

			archive, err := img.Open(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			defer archive.Close()

			for _, name := range cmd.Args().Slice()[1:] {
				data, err := archive.Read(name)
				if err != nil {
					return err
				}

				target := filepath.Join(outDir, filepath.Base(name))
				if err := os.MkdirAll(outDir, 0755); err != nil {
					return err
				}
				if err := os.WriteFile(target, data, 0644); err != nil {
					return err
				}
				logger.Sugar.Infow("extracted file", "name", name, "target", target, "bytes", len(data))
			}
			return nil
		},
	}
}
