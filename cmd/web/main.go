package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sec-tools/policy-atlas/pkg/server"
	"github.com/sec-tools/policy-atlas/pkg/services/catalog"
	"github.com/sec-tools/policy-atlas/pkg/services/config"
	scansvc "github.com/sec-tools/policy-atlas/pkg/services/scan"
	"github.com/sec-tools/policy-atlas/pkg/store/duckdb"
	duckdbscan "github.com/sec-tools/policy-atlas/pkg/store/duckdb/scan"
)

var (
	catalogPaths []string
	settingsPath string
	dbPath       string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for Policy Atlas",
		RunE:  runServer,
	}

	rootCmd.Flags().StringSliceVar(&catalogPaths, "catalog", nil,
		"Rule catalog files (YAML); builtin rules when omitted")
	rootCmd.Flags().StringVar(&settingsPath, "settings", "",
		"Settings file with weight overrides")
	rootCmd.Flags().StringVar(&dbPath, "db", "policy-atlas.db",
		"Path to the scan history database")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	rules := catalog.BuiltinRules()
	if len(catalogPaths) > 0 {
		var err error
		rules, err = catalog.LoadFiles(catalogPaths...)
		if err != nil {
			return fmt.Errorf("failed to load rule catalogs: %w", err)
		}
	}
	var ignorePatterns []string
	if settingsPath != "" {
		settings, err := config.LoadSettings(settingsPath)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		rules = settings.ApplyWeights(rules)
		ignorePatterns = settings.IgnorePatterns
	}

	cat, err := catalog.New(rules)
	if err != nil {
		return fmt.Errorf("failed to build rule catalog: %w", err)
	}
	logger.Info().Int("rules", cat.Len()).Msg("rule catalog loaded")

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: dbPath})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer db.Close()

	scanStore, err := duckdbscan.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create scan store: %w", err)
	}

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		logger.Error().Msgf("Missing server configuration from .env file")
		os.Exit(1)
	}

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr:            net.JoinHostPort(host, port),
		ShutdownTimeout: 10 * time.Second,
		Dependencies: server.Dependencies{
			Catalog: cat,
			Targets: scansvc.NewRegistry(ignorePatterns...),
			Scans:   scanStore,
		},
	})

	return webAPI.Start()
}
