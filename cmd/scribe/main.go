// -----------------------------------------------------------------------
// Scribe - terminal client for a document question-answering service
// -----------------------------------------------------------------------

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribe/internal/common"
	"github.com/ternarybob/scribe/internal/console"
	"github.com/ternarybob/scribe/internal/gateway"
	badgerstorage "github.com/ternarybob/scribe/internal/storage/badger"

	"github.com/ternarybob/scribe/internal/services/events"
	"github.com/ternarybob/scribe/internal/services/export"
	"github.com/ternarybob/scribe/internal/services/pdf"
	"github.com/ternarybob/scribe/internal/services/session"
	"github.com/ternarybob/scribe/internal/services/state"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	// Command-line flags
	configFiles  configPaths
	serverURL    = flag.String("server", "", "Service base URL (overrides config)")
	serverURLS   = flag.String("s", "", "Service base URL (shorthand, overrides config)")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")

	// Global state
	config *common.Config
	logger arbor.ILogger
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("Scribe version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Merge URL flags (shorthand takes precedence)
	finalURL := *serverURL
	if *serverURLS != "" {
		finalURL = *serverURLS
	}

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	// 4. Print banner
	var err error

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("scribe.toml"); err == nil {
			configFiles = append(configFiles, "scribe.toml")
		}
	}

	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	common.ApplyFlagOverrides(config, finalURL)

	logger = common.InitLogger(config)

	common.PrintBanner(common.GetVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Str("server", config.Server.URL).
		Str("log_level", config.Logging.Level).
		Msg("Application configuration loaded")

	// Durable local storage: only the credential survives a restart
	db, err := badgerstorage.NewBadgerDB(logger, &config.Storage.Badger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to open local storage")
	}
	defer db.Close()

	credentials := badgerstorage.NewCredentialStorage(db, logger)

	client := gateway.NewClient(credentials,
		gateway.WithBaseURL(config.Server.URL),
		gateway.WithRateLimit(config.Server.RateLimit),
		gateway.WithLogger(logger),
	)

	eventService := events.NewService(logger)
	appState := state.New(eventService, logger)
	validator := pdf.NewValidator(logger)
	flows := session.NewService(client, credentials, validator, appState, config, logger)
	exporter := export.NewService(logger)

	ui := console.New(flows, appState, credentials, exporter, eventService, logger, os.Stdin, os.Stdout)

	if err := ui.Run(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("Console terminated with error")
	}

	logger.Info().Msg("Session ended")
}
