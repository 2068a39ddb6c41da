// Package app wires configuration, storage, the upstream client, and the
// market service into one initialized application core.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agrisense/agmark/internal/catalog"
	"github.com/agrisense/agmark/internal/clients/agmarknet"
	"github.com/agrisense/agmark/internal/common"
	"github.com/agrisense/agmark/internal/interfaces"
	"github.com/agrisense/agmark/internal/services/market"
	"github.com/agrisense/agmark/internal/storage/reportfs"
)

// App holds all initialized services and clients. It is the shared core
// used by cmd/agmark-server and by server tests.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Cache         interfaces.ReportCache
	Catalog       interfaces.Catalog
	Client        interfaces.ReportClient
	MarketService interfaces.MarketService
	StartupTime   time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, the reference catalog, the
// upstream client, and the market service. configPath may be empty, in
// which case AGMARK_CONFIG and then the binary directory are consulted.
// A missing or unreadable catalog fails startup: retrieval cannot resolve
// names without it.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("AGMARK_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "agmark.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/agmark.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative data paths to the binary directory
	if config.Storage.Downloads.Path != "" && !filepath.IsAbs(config.Storage.Downloads.Path) {
		config.Storage.Downloads.Path = filepath.Join(binDir, config.Storage.Downloads.Path)
	}
	if config.Catalog.Path != "" && !filepath.IsAbs(config.Catalog.Path) {
		config.Catalog.Path = filepath.Join(binDir, config.Catalog.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	store, err := reportfs.NewStore(logger, config.Storage.Downloads.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snapshot store: %w", err)
	}

	cat, err := catalog.New(config.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference catalog: %w", err)
	}

	client := agmarknet.NewClient(
		agmarknet.WithBaseURL(config.Clients.Agmarknet.BaseURL),
		agmarknet.WithUserAgent(config.Clients.Agmarknet.UserAgent),
		agmarknet.WithRateLimit(config.Clients.Agmarknet.RateLimit),
		agmarknet.WithTimeout(config.Clients.Agmarknet.GetTimeout()),
		agmarknet.WithLogger(logger),
	)

	svc := market.NewService(store, client, cat, logger)
	svc.SetMatching(config.Matching)

	logger.Info().
		Str("catalog", config.Catalog.Path).
		Str("downloads", config.Storage.Downloads.Path).
		Msg("Application initialized")

	return &App{
		Config:        config,
		Logger:        logger,
		Cache:         store,
		Catalog:       cat,
		Client:        client,
		MarketService: svc,
		StartupTime:   time.Now(),
	}, nil
}

// Close releases application resources.
func (a *App) Close() {
	a.Logger.Info().Msg("Application closed")
}
