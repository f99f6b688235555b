package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rekrytera/jobad-publisher/internal/compliance"
	"github.com/rekrytera/jobad-publisher/internal/config"
	"github.com/rekrytera/jobad-publisher/internal/db"
	"github.com/rekrytera/jobad-publisher/internal/logger"
	"github.com/rekrytera/jobad-publisher/internal/platsbanken"
	"github.com/rekrytera/jobad-publisher/internal/publish"
	"github.com/rekrytera/jobad-publisher/internal/resolve"
	"github.com/rekrytera/jobad-publisher/internal/taxonomy"
)

// deps is the wired component graph shared by all commands.
type deps struct {
	cfg       *config.Config
	log       *zap.Logger
	database  *db.DB
	refresher *taxonomy.Refresher
	publisher *publish.Publisher
}

func (d *deps) close() {
	if d.database != nil {
		d.database.Close()
	}
	_ = d.log.Sync()
}

// buildDeps loads configuration and wires the pipeline components.
func buildDeps(ctx context.Context) (*deps, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	log, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	source := taxonomy.NewSourceClient(taxonomy.SourceOptions{
		BaseURL:  cfg.TaxonomyBaseURL,
		PageSize: cfg.TaxonomyPageSize,
		MaxPages: cfg.TaxonomyMaxPages,
		Timeout:  cfg.HTTPTimeout(),
	})
	refresher := taxonomy.NewRefresher(source, database, cfg.TaxonomyVersion, log)

	resolver := resolve.New(database, cfg.TaxonomyVersion, log)
	validator := compliance.New()
	remote := platsbanken.NewClient(platsbanken.Options{
		BaseURL: cfg.PublishBaseURL,
		APIKey:  cfg.PublishAPIKey,
		Timeout: cfg.HTTPTimeout(),
	}, log)

	publisher := publish.New(database, remote, resolver, validator, log)

	return &deps{
		cfg:       cfg,
		log:       log,
		database:  database,
		refresher: refresher,
		publisher: publisher,
	}, nil
}
