// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"fmt"

	"github.com/canonical/directory-lifecycle/internal/config"
	"github.com/canonical/directory-lifecycle/internal/db"
	"github.com/canonical/directory-lifecycle/internal/directory"
	"github.com/canonical/directory-lifecycle/internal/logging"
	"github.com/canonical/directory-lifecycle/internal/monitoring"
	"github.com/canonical/directory-lifecycle/internal/storage"
	"github.com/canonical/directory-lifecycle/internal/tracing"
	"github.com/canonical/directory-lifecycle/pkg/actuator"
	"github.com/canonical/directory-lifecycle/pkg/groupsync"
	"github.com/canonical/directory-lifecycle/pkg/pipeline"
	"github.com/canonical/directory-lifecycle/pkg/runner"
)

// app holds the wired service graph shared by the run and serve commands.
type app struct {
	stages  map[string]*runner.StageConfig
	runner  *runner.Service
	storage storage.StorageInterface

	dbClient *db.DBClient
	logger   logging.LoggerInterface
}

func newApp(specs *config.EnvSpec, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) (*app, error) {
	directoryClient := directory.NewClient(
		directory.Config{
			BaseURL:      specs.DirectoryBaseURL,
			TokenURL:     specs.DirectoryTokenURL,
			TenantID:     specs.DirectoryTenantID,
			ClientID:     specs.DirectoryClientID,
			ClientSecret: specs.DirectoryClientSecret,
		},
		tracer,
		monitor,
		logger,
	)

	a := &app{logger: logger}

	var reports runner.ReportStoreInterface
	if specs.ReportingEnabled() {
		dbConfig := db.Config{
			DSN:             specs.DSN,
			MaxConns:        specs.DBMaxConns,
			MinConns:        specs.DBMinConns,
			MaxConnLifetime: specs.DBMaxConnLifetime,
			MaxConnIdleTime: specs.DBMaxConnIdleTime,
			TracingEnabled:  specs.TracingEnabled,
		}
		dbClient, err := db.NewDBClient(dbConfig, tracer, monitor, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create database client: %v", err)
		}
		a.dbClient = dbClient
		store := storage.NewStorage(dbClient, tracer, monitor, logger)
		a.storage = store
		reports = store
	} else {
		logger.Info("no DSN configured, run reports will not be persisted")
	}

	a.runner = runner.NewService(
		pipeline.NewService(directoryClient, tracer, monitor, logger),
		actuator.NewService(directoryClient, tracer, monitor, logger),
		groupsync.NewService(directoryClient, tracer, monitor, logger),
		directoryClient,
		reports,
		tracer,
		monitor,
		logger,
	)

	stages, err := config.Stages(specs)
	if err != nil {
		return nil, err
	}
	a.stages = stages

	return a, nil
}

func (a *app) runStage(ctx context.Context, name string) (*runner.Summary, error) {
	stage, ok := a.stages[name]
	if !ok {
		return nil, fmt.Errorf("unknown stage %q, valid stages: %v", name, config.StageNames)
	}
	return a.runner.RunStage(ctx, stage)
}

// runAll executes every stage in canonical order. A failed stage is logged
// and the remaining stages still run.
func (a *app) runAll(ctx context.Context) {
	for _, name := range config.StageNames {
		if _, err := a.runStage(ctx, name); err != nil {
			a.logger.Errorf("stage %s failed: %v", name, err)
		}
	}
}

func (a *app) Close() {
	if a.dbClient != nil {
		a.dbClient.Close()
	}
}
