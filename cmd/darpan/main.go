package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func main() {
	root := &cli.Command{
		Name:  "darpan",
		Usage: "Compile a directory of markdown into a site and keep it live while you write",
		Description: `
     _
  __| | __ _ _ __ _ __   __ _ _ __
 / _' |/ _' | '__| '_ \ / _' | '_ \
 \__,_|\__,_|_|  | .__/ \__,_|_| |_|
                 |_|

 The mirror of your site — rebuilt on every change, served on one URL.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log level: debug, info, warn, error",
				Value: "info",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, err := log.ParseLevel(cmd.String("log"))
			if err != nil {
				return ctx, err
			}
			log.SetLevel(level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			buildCmd(),
			initCmd(),
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
