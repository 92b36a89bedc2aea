// Serve command runs the HTTP API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/linkshelf/internal/httpserver"
	"github.com/mesh-intelligence/linkshelf/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the linkshelf HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		log := logger.New(cfg.LogLevel, cfg.PrettyLog)
		defer func() { _ = log.Sync() }()

		if a.WebDAV != nil {
			if err := a.WebDAV.Ping(); err != nil {
				log.Warn("webdav endpoint unreachable, snapshot uploads will fail",
					logger.Error(err))
			}
		}

		srv := httpserver.New(cfg.ListenAddr, log, httpserver.Deps{
			Store:      a.Store,
			Categories: a.Categories,
			Bookmarks:  a.Bookmarks,
			Backups:    a.Backups,
			Exporter:   a.Exporter,
			Importer:   a.Importer,
		})

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-stop:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Stop(ctx)
		}
	},
}
