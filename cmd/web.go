/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
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

	"github.com/flamego/flamego"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/humaidq/glucolens/db"
	"github.com/humaidq/glucolens/medication"
	"github.com/humaidq/glucolens/metrics"
	"github.com/humaidq/glucolens/routes"
)

const shutdownTimeout = 10 * time.Second

var CmdStart = &cli.Command{
	Name:    "start",
	Aliases: []string{"run"},
	Usage:   "Start the web server",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "port",
			Value: "8080",
			Usage: "the web server port",
		},
		databaseURLFlag(),
	}, pipelineFlags()...),
	Action: start,
}

func start(ctx context.Context, cmd *cli.Command) error {
	catalog, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	var store routes.PatientStore

	if databaseURL := cmd.String("database-url"); databaseURL != "" {
		appLogger.Info("Connecting to database...")

		if err := db.Init(ctx, databaseURL); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		if catalog, err = prepareDatabase(ctx, cmd, catalog); err != nil {
			return err
		}

		store = db.Store{}
	} else {
		appLogger.Warn("No database configured; profile lookups are disabled")
	}

	p, err := newPipeline(cmd, catalog)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f := routes.NewRouter(&routes.Services{
		Analyzer: p.analyzer,
		Alerts:   p.engine,
		Matcher:  p.matcher,
		Metrics:  metrics.New(reg),
		Store:    store,
	})
	configureEmptyNotFoundHandler(f)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%s", cmd.String("port")),
		Handler:      f,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorLog:     webStdLogger,
	}

	return serve(ctx, srv)
}

// prepareDatabase migrates the schema and syncs the catalog. An explicit
// --catalog file is written to the database; otherwise the stored catalog
// is used once it has been seeded with the built-in entries.
func prepareDatabase(ctx context.Context, cmd *cli.Command, catalog *medication.Catalog) (*medication.Catalog, error) {
	appLogger.Info("Syncing database schema...")

	if err := db.SyncSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to sync schema: %w", err)
	}

	stored, err := db.LoadMedicationCatalog(ctx)
	switch {
	case err == nil && cmd.String("catalog") == "":
		return stored, nil
	case err != nil && !errors.Is(err, medication.ErrEmptyCatalog):
		return nil, fmt.Errorf("failed to load medication catalog: %w", err)
	}

	if err := db.SyncMedicationCatalog(ctx, catalog); err != nil {
		return nil, fmt.Errorf("failed to sync medication catalog: %w", err)
	}

	return catalog, nil
}

// serve runs srv until ctx is cancelled or the process is signalled, then
// drains in-flight requests.
func serve(ctx context.Context, srv *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info("Starting web server", "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("web server failed: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		appLogger.Info("Shutting down web server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func configureEmptyNotFoundHandler(f *flamego.Flame) {
	f.NotFound(func(c flamego.Context) {
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
	})
}
