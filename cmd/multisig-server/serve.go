package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/nrednav/cuid2"
	"github.com/spf13/cobra"
	"uk.co.dudmesh.multisig/internal/boot"
	"uk.co.dudmesh.multisig/internal/handlers"
	"uk.co.dudmesh.multisig/internal/service/messages"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the periodic retention sweep",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(opts.configFile)
		},
	}
}

func serve(configFile string) error {
	bootConfig, err := boot.Load(configFile)
	if err != nil {
		return fmt.Errorf("boot: %w", err)
	}
	log.SetLevel(bootConfig.Level())

	messageService, err := messages.New(bootConfig)
	if err != nil {
		return fmt.Errorf("creating message service: %w", err)
	}
	defer messageService.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if bootConfig.ConfigFile != "" {
		watcher, err := boot.Watch(bootConfig.ConfigFile, func(overrides *boot.Overrides) {
			settings, err := messageService.Settings(ctx)
			if err != nil {
				log.Errorf("reading settings: %+v", err)
				return
			}
			if err := messageService.Reconfigure(ctx, overrides.Apply(settings)); err != nil {
				log.Errorf("reconfiguring message service: %+v", err)
				return
			}
			log.Infof("message service reconfigured")
		})
		if err != nil {
			return fmt.Errorf("watching config file: %w", err)
		}
		defer watcher.Close()
	}

	go messages.RunSweeper(ctx, messageService, bootConfig.SweepInterval())

	server := echo.New()
	server.HideBanner = true
	server.Use(middleware.BodyLimit("64K"))
	server.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string {
			return cuid2.Generate()
		},
	}))
	server.Use(echoprometheus.NewMiddleware("multisig"))
	server.Use(middleware.Recover())

	server.Logger.SetLevel(bootConfig.Level())

	headers := []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept}
	server.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: headers,
	}))

	handlers.Register(server, messageService)

	metrics := echo.New()
	metrics.HideBanner = true
	metrics.GET("/metrics", echoprometheus.NewHandler())
	go func() {
		if err := metrics.Start(bootConfig.MetricsAddress()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server: %+v", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("server listening on %s", bootConfig.Address())
		if err := server.Start(bootConfig.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Infof("got signal - terminating server")
	case err := <-serverErr:
		return fmt.Errorf("starting server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metrics.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutting down metrics server: %+v", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}
