package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/sonnes/darpan/server"
	"github.com/sonnes/darpan/session"
	"github.com/sonnes/darpan/site"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:      "serve",
		Usage:     "Serve the site locally and rebuild it as files change",
		ArgsUsage: "[dir]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Bind address (0.0.0.0 to expose on all interfaces)",
				Value: "127.0.0.1",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on; the next free port is tried when taken",
				Value:   4173,
			},
			&cli.BoolFlag{
				Name:  "strict-port",
				Usage: "Fail instead of probing for a free port",
			},
			&cli.StringFlag{
				Name:  "cert",
				Usage: "TLS certificate file (enables https together with --key)",
			},
			&cli.StringFlag{
				Name:  "key",
				Usage: "TLS key file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.Args().First()
			if dir == "" {
				dir = "."
			}

			cert, key := cmd.String("cert"), cmd.String("key")
			if (cert == "") != (key == "") {
				return fmt.Errorf("--cert and --key must be set together")
			}
			protocol := session.ProtocolHTTP
			if cert != "" {
				protocol = session.ProtocolHTTPS
			}

			// No usable port is fatal: better to exit than serve nowhere.
			listener, err := server.ResolveHostPort(server.Options{
				Host:   cmd.String("host"),
				Port:   int(cmd.Int("port")),
				Strict: cmd.Bool("strict-port"),
			})
			if err != nil {
				return err
			}
			defer listener.Close()

			host, port, err := listenAddr(listener)
			if err != nil {
				return err
			}

			logger := log.Default().WithPrefix("darpan")

			// Initial load is synchronous; failure here aborts startup.
			sess, err := session.New(ctx, site.NewLoader(nil), site.Params{Dir: dir})
			if err != nil {
				return err
			}

			openURL := session.OpenURL{Protocol: protocol, Host: host, Port: port}
			coord := session.NewCoordinator(sess, openURL,
				session.WithLogger(logger),
				session.WithNotify(func(url string) {
					logger.Info("site base changed", "url", url)
				}),
			)
			defer coord.Stop()

			watcher, err := server.NewWatcher(dir, sess, coord, logger)
			if err != nil {
				return err
			}
			if err := watcher.Start(ctx); err != nil {
				return err
			}
			defer watcher.Close()

			current := sess.Get()
			printBanner(os.Stdout, current, openURL.For(current))

			srv := &http.Server{Handler: server.New(sess, logger).Handler()}
			if protocol == session.ProtocolHTTPS {
				return srv.ServeTLS(listener, cert, key)
			}
			return srv.Serve(listener)
		},
	}
}

// listenAddr recovers the bind host and the negotiated port from the
// listener. The host keeps its configured form so origin display rules
// (0.0.0.0 → localhost) apply downstream.
func listenAddr(l net.Listener) (string, int, error) {
	host, portStr, err := net.SplitHostPort(l.Addr().String())
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, err
	}
	return host, port, nil
}
