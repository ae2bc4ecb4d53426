package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/career-pathway/internal/advisor"
	"github.com/jonathan/career-pathway/internal/config"
	"github.com/jonathan/career-pathway/internal/finance"
	"github.com/jonathan/career-pathway/internal/llm"
	"github.com/jonathan/career-pathway/internal/logging"
	"github.com/jonathan/career-pathway/internal/programs"
	"github.com/spf13/cobra"
)

// app holds the collaborators shared by the commands.
type app struct {
	cfg       *config.Config
	logger    *logging.Logger
	catalog   *programs.Catalog
	resolver  *programs.Resolver
	estimator *finance.Estimator
	client    llm.Client
}

// loadApp reads configuration and builds the catalog-backed collaborators.
// The model client is created separately by connect.
func loadApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}

	catalog, err := programs.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	resolver, err := programs.NewResolver(catalog, cfg.ProgramBaseURL)
	if err != nil {
		return nil, err
	}

	aid, err := finance.DefaultAidTable()
	if err != nil {
		return nil, fmt.Errorf("failed to load aid table: %w", err)
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		catalog:   catalog,
		resolver:  resolver,
		estimator: finance.NewEstimator(aid, catalog.ShortName, catalog.College),
	}, nil
}

// modelConfig maps the configured model onto the client tiers. A model pinned
// through GEMINI_MODEL serves every tier; a model from the config file replaces
// only the standard tier.
func modelConfig(model string, pinned bool) *llm.Config {
	if pinned {
		return llm.DefaultConfig().Pinned(model)
	}
	if model == "" {
		return llm.DefaultConfig()
	}
	return llm.DefaultConfig().WithModel(llm.TierStandard, model)
}

// connect creates the model client when an API key is configured. Without a key
// the client stays nil and the advisor reports the missing credential per flow.
func (a *app) connect(ctx context.Context) error {
	if a.cfg.APIKey == "" {
		a.logger.Warn("GEMINI_API_KEY not set; model-backed endpoints will report a configuration error")
		return nil
	}
	pinned := strings.TrimSpace(os.Getenv("GEMINI_MODEL")) != ""
	client, err := llm.NewClient(ctx, modelConfig(a.cfg.Model, pinned), a.cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	a.client = client
	return nil
}

func (a *app) advisor() *advisor.Advisor {
	return advisor.New(advisor.Options{
		Client:   a.client,
		Resolver: a.resolver,
		Timeout:  a.cfg.Timeout(),
		Logger:   a.logger,
	})
}

func (a *app) close() {
	if a.client != nil {
		_ = a.client.Close()
	}
	a.logger.Sync()
}
