// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/canonical/directory-lifecycle/internal/config"
	"github.com/canonical/directory-lifecycle/internal/logging"
	"github.com/canonical/directory-lifecycle/internal/monitoring/prometheus"
	"github.com/canonical/directory-lifecycle/internal/tracing"
	"github.com/canonical/directory-lifecycle/pkg/web"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server and the stage scheduler",
	Long:  `Launch the web application, list of environment variables is available in the readme`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		panic(fmt.Errorf("issues with environment sourcing: %s", err))
	}

	logger := logging.NewLogger(specs.LogLevel)
	logger.Debugf("env vars: %v", specs)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("directory-lifecycle", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	app, err := newApp(specs, tracer, monitor, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	scheduler := cron.New()
	if specs.Schedule != "" {
		if _, err := scheduler.AddFunc(specs.Schedule, func() {
			app.runAll(context.Background())
		}); err != nil {
			return fmt.Errorf("invalid schedule %q: %w", specs.Schedule, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Infof("lifecycle stages scheduled with %q", specs.Schedule)
	} else {
		logger.Info("no schedule configured, stages run only via the run command")
	}

	router := web.NewRouter(app.storage, tracer, monitor, logger)
	logger.Infof("Starting HTTP server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Security().SystemStartup()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	return serverError
}
