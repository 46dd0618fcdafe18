package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/sonnes/darpan/site"
)

const starterConfig = `title: My Site
base: /
router: browser
theme: dracula
plugins:
  - name: search-index
  - name: last-updated
`

const starterIndex = `# My Site

Welcome. Edit this file and watch the dev server pick it up.

Run ` + "`darpan serve`" + ` and open the printed URL.
`

const starterGuide = `# Getting Started

Pages are markdown files. Routes follow the directory layout:
` + "`guide/getting-started.md`" + ` is served at ` + "`/guide/getting-started`" + `.
`

func initCmd() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Scaffold a new site in the given directory",
		ArgsUsage: "[dir]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				dir = "."
			}

			cfgPath := filepath.Join(dir, site.ConfigFile)
			if _, err := os.Stat(cfgPath); err == nil {
				return fmt.Errorf("%s already exists in %s", site.ConfigFile, dir)
			}

			files := []struct {
				path    string
				content string
			}{
				{cfgPath, starterConfig},
				{filepath.Join(dir, "index.md"), starterIndex},
				{filepath.Join(dir, "guide", "getting-started.md"), starterGuide},
			}
			for _, f := range files {
				if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
					return err
				}
				if err := os.WriteFile(f.path, []byte(f.content), 0o644); err != nil {
					return err
				}
			}

			log.Info("scaffolded site", "dir", dir)
			return nil
		},
	}
}
