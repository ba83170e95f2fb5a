// =============================================================================
// Ledger Analyzer - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration: input locations, analysis constants and the five expected
// column schemas.
//
// CONFIGURATION SOURCES (later wins):
//   1. Built-in defaults (see applyMainConfigDefaults)
//   2. Main Config (config.yaml)
//   3. Environment variables prefixed with LEDGER_ (a .env file is loaded
//      by the CLI before the config is read)
//
// A missing config file is not an error: the defaults describe the
// published upload templates.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
// This is loaded from the main config.yaml file.
type MainConfig struct {
	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// Inputs holds the file path for each table kind. Empty paths are skipped
	// by the loader.
	Inputs Inputs `yaml:"inputs"`

	// OutputDir is where exported workbooks are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// CSV controls how CSV uploads are decoded.
	CSV CSVSettings `yaml:"csv"`

	// DateFormats are extra Go time layouts tried after the ISO layouts and
	// Excel serial numbers.
	// Default: ["2006.01.02", "2006.01.02.", "2006/01/02"]
	DateFormats []string `yaml:"date_formats"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the log encoder.
	// Valid values: "console", "json"
	// Default: "console"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// ANALYSIS SETTINGS
	// =========================================================================

	// Sentinel replaces category codes and hierarchy levels that are blank
	// or have no taxonomy match. It must not be blank.
	// Default: "incomplete"
	Sentinel string `yaml:"sentinel"`

	// TopN is the number of groups kept by the top-N views.
	// Default: 10
	TopN int `yaml:"top_n"`

	// PercentPrecision is the number of decimals percentages are rounded to.
	// Default: 2
	PercentPrecision int32 `yaml:"percent_precision"`

	// UnclassifiedMainCategory is assigned to expense rows whose main
	// category is missing or not an integer.
	// Default: 0
	UnclassifiedMainCategory int `yaml:"unclassified_main_category"`

	// CurrencySuffix is appended to formatted amounts.
	// Default: " Ft"
	CurrencySuffix string `yaml:"currency_suffix"`

	// HeadcountSuffix is appended to formatted headcounts.
	// Default: " fő"
	HeadcountSuffix string `yaml:"headcount_suffix"`

	// =========================================================================
	// SCHEMAS
	// =========================================================================

	// Schemas maps a table kind (income_data, income_category, expense_data,
	// expense_category, headcount) to its ordered column list. Kinds left
	// out keep their default schema.
	Schemas map[string]types.Columns `yaml:"schemas"`
}

// Inputs holds one file path per table kind.
type Inputs struct {
	IncomeData      string `yaml:"income_data"`
	IncomeCategory  string `yaml:"income_category"`
	ExpenseData     string `yaml:"expense_data"`
	ExpenseCategory string `yaml:"expense_category"`
	Headcount       string `yaml:"headcount"`
}

// Path returns the configured path for a table kind.
func (in Inputs) Path(k types.Kind) string {
	switch k {
	case types.KindIncomeData:
		return in.IncomeData
	case types.KindIncomeCategory:
		return in.IncomeCategory
	case types.KindExpenseData:
		return in.ExpenseData
	case types.KindExpenseCategory:
		return in.ExpenseCategory
	case types.KindHeadcount:
		return in.Headcount
	}
	return ""
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields in the CSV.
	// Common values: "," (comma), ";" (semicolon), "|" (pipe), "\t" (tab)
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of the CSV file.
	// Supported values: "UTF-8", "ISO-8859-2", "Windows-1250",
	// "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no file is present.
func Default() *MainConfig {
	config := &MainConfig{}
	applyMainConfigDefaults(config)
	return config
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file. A missing file
//     yields the defaults.
//
// RETURNS:
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be parsed or the result is invalid.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyMainConfigDefaults(&config)

	if err := applyEnvOverrides(&config); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.CSV.Delimiter == "" {
		config.CSV.Delimiter = ","
	}
	if config.CSV.Encoding == "" {
		config.CSV.Encoding = "UTF-8"
	}
	if len(config.DateFormats) == 0 {
		config.DateFormats = []string{"2006.01.02", "2006.01.02.", "2006/01/02"}
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogFormat == "" {
		config.LogFormat = "console"
	}
	if config.Sentinel == "" {
		config.Sentinel = "incomplete"
	}
	if config.TopN == 0 {
		config.TopN = 10
	}
	if config.PercentPrecision == 0 {
		config.PercentPrecision = 2
	}
	if config.CurrencySuffix == "" {
		config.CurrencySuffix = " Ft"
	}
	if config.HeadcountSuffix == "" {
		config.HeadcountSuffix = " fő"
	}

	if config.Schemas == nil {
		config.Schemas = make(map[string]types.Columns)
	}
	for kind, cols := range DefaultSchemas() {
		if len(config.Schemas[string(kind)]) == 0 {
			config.Schemas[string(kind)] = cols
		}
	}
}

// applyEnvOverrides applies LEDGER_* environment variables.
func applyEnvOverrides(config *MainConfig) error {
	overrideString(&config.Inputs.IncomeData, "LEDGER_INCOME_DATA")
	overrideString(&config.Inputs.IncomeCategory, "LEDGER_INCOME_CATEGORY")
	overrideString(&config.Inputs.ExpenseData, "LEDGER_EXPENSE_DATA")
	overrideString(&config.Inputs.ExpenseCategory, "LEDGER_EXPENSE_CATEGORY")
	overrideString(&config.Inputs.Headcount, "LEDGER_HEADCOUNT")
	overrideString(&config.OutputDir, "LEDGER_OUTPUT_DIR")
	overrideString(&config.LogLevel, "LEDGER_LOG_LEVEL")
	overrideString(&config.LogFormat, "LEDGER_LOG_FORMAT")
	overrideString(&config.Sentinel, "LEDGER_SENTINEL")
	overrideString(&config.CSV.Delimiter, "LEDGER_CSV_DELIMITER")
	overrideString(&config.CSV.Encoding, "LEDGER_CSV_ENCODING")

	if v := os.Getenv("LEDGER_TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEDGER_TOP_N: %w", err)
		}
		config.TopN = n
	}
	if v := os.Getenv("LEDGER_PERCENT_PRECISION"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("LEDGER_PERCENT_PRECISION: %w", err)
		}
		config.PercentPrecision = int32(n)
	}
	return nil
}

func overrideString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// validateMainConfig validates the main configuration.
// All problems are collected so that a broken file is fixed in one pass.
func validateMainConfig(config *MainConfig) error {
	var errs []error

	if strings.TrimSpace(config.Sentinel) == "" {
		errs = append(errs, errors.New("sentinel must not be blank"))
	}
	if config.TopN < 1 {
		errs = append(errs, fmt.Errorf("top_n must be positive, got %d", config.TopN))
	}
	if config.PercentPrecision < 0 || config.PercentPrecision > 8 {
		errs = append(errs, fmt.Errorf("percent_precision must be between 0 and 8, got %d", config.PercentPrecision))
	}
	switch strings.ToLower(config.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unknown log_level %q", config.LogLevel))
	}
	switch config.LogFormat {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q", config.LogFormat))
	}

	for name := range config.Schemas {
		if _, err := types.ParseKind(name); err != nil {
			errs = append(errs, fmt.Errorf("schemas: %w", err))
		}
	}
	for _, kind := range types.Kinds() {
		if err := validateSchema(kind, config.Schemas[string(kind)]); err != nil {
			errs = append(errs, fmt.Errorf("schema %s: %w", kind, err))
		}
	}

	return errors.Join(errs...)
}

// validateSchema checks that a column list can drive the normalizer for
// its kind: unique names, known types and roles, and the roles the kind
// needs.
func validateSchema(kind types.Kind, cols types.Columns) error {
	seen := make(map[string]bool)
	roles := make(map[types.Role]int)

	for _, col := range cols {
		if strings.TrimSpace(col.Name) == "" {
			return errors.New("column with blank name")
		}
		if seen[col.Name] {
			return fmt.Errorf("duplicate column %q", col.Name)
		}
		seen[col.Name] = true

		if !col.Type.Valid() {
			return fmt.Errorf("column %q: unknown type %q", col.Name, col.Type)
		}
		if !col.Role.Valid() {
			return fmt.Errorf("column %q: unknown role %q", col.Name, col.Role)
		}
		roles[col.Role]++
		if roles[col.Role] > 1 && !col.Role.Multiple() {
			return fmt.Errorf("role %q assigned to more than one column", col.Role)
		}
	}

	var required []types.Role
	switch kind {
	case types.KindIncomeData, types.KindExpenseData:
		required = []types.Role{types.RoleDate, types.RoleAmount, types.RoleCategoryCode}
	case types.KindIncomeCategory, types.KindExpenseCategory:
		required = []types.Role{types.RoleCategoryCode, types.RoleCategory, types.RoleSubcategory, types.RoleItem}
	case types.KindHeadcount:
		required = []types.Role{types.RoleDate, types.RoleHeadcountGroup}
	}
	for _, r := range required {
		if roles[r] == 0 {
			return fmt.Errorf("missing a column with role %q", r)
		}
	}

	return nil
}

// Schema returns the ordered columns expected for a table kind.
func (c *MainConfig) Schema(kind types.Kind) types.Columns {
	return c.Schemas[string(kind)]
}
