package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/crewdesk/crewdesk/pkg/config"
	"github.com/crewdesk/crewdesk/pkg/server"
	"github.com/crewdesk/crewdesk/pkg/version"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	app := &cli.App{
		Name:        "console",
		Usage:       "web console for managing users and roles",
		Description: "web console for managing users and roles",
		Version:     version.Version,
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the console server",
				Action: func(c *cli.Context) error {
					return serve(c.Context, log)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("console error")
	}
}

func serve(ctx context.Context, log logger.Logger) error {
	log.Info("starting console", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		return errors.Wrap(err, "config error")
	}

	srv, err := server.New(cfg)
	if err != nil {
		return errors.Wrap(err, "server error")
	}

	graceful := signals.Setup()

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort)
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}

		actualPort := listener.Addr().(*net.TCPAddr).Port
		log.Info("server started", logger.Data{"port": actualPort, "api": cfg.APIBaseURL})

		err = srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	if err := srv.Shutdown(ctx); err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	return nil
}
