package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/sonnes/darpan/server"
	"github.com/sonnes/darpan/site"
)

func buildCmd() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Compile the site once and write static output",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory",
				Value:   "dist",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				dir = "."
			}
			out := cmd.String("out")

			s, err := site.NewLoader(nil).Load(ctx, site.Params{Dir: dir})
			if err != nil {
				return err
			}

			for _, route := range s.Routes() {
				page := s.Pages[route]
				var buf bytes.Buffer
				if err := server.WritePage(&buf, s.Config.Title, page); err != nil {
					return fmt.Errorf("render %s: %w", route, err)
				}
				if err := writeFile(filepath.Join(out, outputPath(route)), buf.Bytes()); err != nil {
					return err
				}
			}

			for id, contrib := range s.Contribs {
				for name, data := range contrib.Files {
					if err := writeFile(filepath.Join(out, "_darpan", filepath.FromSlash(name)), data); err != nil {
						return fmt.Errorf("plugin %s: %w", id, err)
					}
				}
			}

			log.Info("built site", "pages", len(s.Pages), "out", out)
			return nil
		},
	}
}

// outputPath maps a route to its static file: "/" → index.html,
// "/guide/setup" → guide/setup/index.html (so links work without a server).
func outputPath(route string) string {
	if route == "/" {
		return "index.html"
	}
	return filepath.Join(filepath.FromSlash(route[1:]), "index.html")
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
