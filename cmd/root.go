// =============================================================================
// Ledger Analyzer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (ledger)
//   ├── validateCmd  (ledger validate)
//   ├── analyzeCmd   (ledger analyze)
//   ├── compareCmd   (ledger compare)
//   ├── headcountCmd (ledger headcount)
//   └── versionCmd   (ledger version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads a .env file from the working directory, if present
//   2. Loads the main configuration (LEDGER_* variables override it)
//   3. Builds the logger and stores it in the command context
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ledger-analyzer/internal/config"
	"github.com/ginjaninja78/ledger-analyzer/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// mainConfig is loaded once in PersistentPreRunE.
var mainConfig *config.MainConfig

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Ledger Analyzer - Filter, aggregate and compare income and expense ledgers",
	Long: `Ledger Analyzer loads income and expense extracts, their category tables
and a monthly headcount table, joins them into normalized ledgers and answers
ad-hoc questions about them.

Key Features:
  - Strict schema checks against the published upload templates
  - Inclusive and exclusive filters on every ledger dimension
  - Grouped sums, top-N lists, category rollups and time series
  - Year over year comparisons and per-head ratios
  - Terminal tables and XLSX export

Example Usage:
  ledger validate --kind expense_data --file kiadas.xlsx
  ledger analyze --ledger expense --year 2024 --by category --top 10
  ledger compare --year-a 2023 --year-b 2024 --by category
  ledger headcount --group osszes --granularity quarter`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", describeError(err))
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initConfig loads the environment, the configuration and the logger.
func initConfig(cmd *cobra.Command) error {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg, err := config.LoadMainConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	mainConfig = cfg

	lg := logger.Build(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Out: os.Stderr})
	cmd.SetContext(logger.WithContext(cmd.Context(), lg))

	lg.Debug().Str("config", cfgFile).Msg("configuration loaded")
	return nil
}
