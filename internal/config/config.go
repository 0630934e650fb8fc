// =============================================================================
// Tabex - Configuration Module
// =============================================================================
//
// This module loads the application configuration. It handles both the main
// configuration file and a directory of export profile files.
//
// CONFIGURATION SOURCES (later sources win):
//   1. Built-in defaults (applyMainConfigDefaults)
//   2. Main config file (tabex.yaml or tabex.toml), when given
//   3. Environment variables prefixed TABEX_ (e.g. TABEX_OUTPUT_DIR)
//   4. Profile files in profiles_dir (*.yaml, *.yml, *.toml), merged by
//      file name
//
// The file format follows the extension: ".toml" is read as TOML, anything
// else as YAML. Keys are the same in both.
//
// Profiles and account mappings are structured values and can only be set in
// a config or profile file (YAML or TOML); every scalar setting can be
// overridden from the environment.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/tabex/internal/ledger"
	"github.com/ginjaninja78/tabex/internal/table"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "TABEX"

// ErrUnknownProfile is returned by Profile for a profile name that is not
// configured.
var ErrUnknownProfile = errors.New("unknown export profile")

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputDir is where the directory sink places delivered files and where
	// import error logs are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" toml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`

	// IncludeTimestamp appends _YYYY-MM-DD to exported file names.
	// Default: true
	IncludeTimestamp *bool `yaml:"include_timestamp" toml:"include_timestamp" envconfig:"INCLUDE_TIMESTAMP"`

	// RawHTML disables escaping in printable documents so cell values can
	// carry markup.
	// Default: false
	RawHTML bool `yaml:"raw_html" toml:"raw_html" envconfig:"RAW_HTML"`

	// PrintMode selects how printable documents are presented:
	//   - "browser": open in the default browser
	//   - "file"   : write print_<uuid>.html into OutputDir
	//   - "pdf"    : render print_<uuid>.pdf into OutputDir with headless Chrome
	// Default: "browser"
	PrintMode string `yaml:"print_mode" toml:"print_mode" envconfig:"PRINT_MODE" validate:"oneof=browser file pdf"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// InputEncoding is the encoding of imported CSV files ("utf-8",
	// "windows-1252", "iso-8859-1", "utf-16le", ...).
	// Default: "utf-8"
	InputEncoding string `yaml:"input_encoding" toml:"input_encoding" envconfig:"INPUT_ENCODING"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel is one of debug, info, warn, error.
	// Default: "info"
	LogLevel string `yaml:"log_level" toml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	// LogPretty switches from JSON lines to console output.
	LogPretty bool `yaml:"log_pretty" toml:"log_pretty" envconfig:"LOG_PRETTY"`

	// =========================================================================
	// PROFILES AND MAPPINGS
	// =========================================================================

	// ProfilesDir holds one YAML or TOML file per export profile; the file name
	// without extension is the profile name.
	// Default: "" (no profile directory)
	ProfilesDir string `yaml:"profiles_dir" toml:"profiles_dir" envconfig:"PROFILES_DIR"`

	// Profiles are named column layouts for exports.
	Profiles map[string]ExportProfile `yaml:"profiles" toml:"profiles" ignored:"true" validate:"dive"`

	// AccountMappings holds one mapping per accounting system, keyed by the
	// system name (quickbooks, sage, xero).
	AccountMappings map[string]ledger.AccountMapping `yaml:"account_mappings" toml:"account_mappings" ignored:"true"`
}

// ExportProfile is a named column layout.
//
// EXAMPLE:
//   profiles:
//     loans:
//       title: Loan book
//       columns:
//         - key: id
//           header: Loan ID
//           format:
//             - type: pad_zeros_to_length
//               value: "8"
//         - key: amount
//           header: Amount
//           format:
//             - type: format_currency
type ExportProfile struct {
	Title    string `yaml:"title" toml:"title"`
	Subtitle string `yaml:"subtitle" toml:"subtitle"`
	Filename string `yaml:"filename" toml:"filename"`

	// Match holds glob patterns (filepath.Match syntax) selecting the input
	// files a batch run exports with this profile, e.g. "loans_*.csv".
	Match []string `yaml:"match" toml:"match"`

	Columns []ColumnConfig `yaml:"columns" toml:"columns" validate:"required,min=1,dive"`
}

// ColumnConfig declares one column of a profile.
type ColumnConfig struct {
	// Key is the row property to read.
	Key string `yaml:"key" toml:"key" validate:"required"`

	// Header is the output title. Default: Key.
	Header string `yaml:"header" toml:"header"`

	// Format is an optional chain of formatter actions.
	Format []table.Action `yaml:"format" toml:"format" validate:"dive"`
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Default returns the configuration used when no file is given.
func Default() *MainConfig {
	var config MainConfig
	applyMainConfigDefaults(&config)
	return &config
}

// LoadMainConfig loads the main configuration.
//
// PARAMETERS:
//   - configPath: The path to the YAML file. Empty means defaults only.
//
// RETURNS:
//   - The loaded configuration with defaults, environment overrides and
//     profile files applied.
//   - An error if a file cannot be read or parsed, or validation fails.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	var config MainConfig

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := unmarshal(configPath, data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Environment overrides only touch variables that are set.
	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	applyMainConfigDefaults(&config)

	if config.ProfilesDir != "" {
		profiles, err := LoadProfiles(config.ProfilesDir)
		if err != nil {
			return nil, err
		}
		for name, profile := range profiles {
			config.Profiles[name] = profile
		}
	}

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for the main configuration.
func applyMainConfigDefaults(config *MainConfig) {
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.IncludeTimestamp == nil {
		include := true
		config.IncludeTimestamp = &include
	}
	if config.PrintMode == "" {
		config.PrintMode = "browser"
	}
	if config.InputEncoding == "" {
		config.InputEncoding = "utf-8"
	}
	config.LogLevel = strings.ToLower(config.LogLevel)
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.Profiles == nil {
		config.Profiles = make(map[string]ExportProfile)
	}
	if config.AccountMappings == nil {
		config.AccountMappings = make(map[string]ledger.AccountMapping)
	}
}

// validateMainConfig checks struct tags, formatter chains and mapping keys.
func validateMainConfig(config *MainConfig) error {
	if err := validator.New().Struct(config); err != nil {
		return err
	}

	for _, name := range sortedKeys(config.Profiles) {
		if _, err := config.Profiles[name].Compile(); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
	}

	for _, name := range sortedKeys(config.Profiles) {
		for _, pattern := range config.Profiles[name].Match {
			if _, err := filepath.Match(pattern, ""); err != nil {
				return fmt.Errorf("profile %q: bad match pattern %q: %w", name, pattern, err)
			}
		}
	}

	for system := range config.AccountMappings {
		if _, err := ledger.Lookup(system); err != nil {
			return fmt.Errorf("account_mappings: %w", err)
		}
	}

	return nil
}

// unmarshal decodes data as TOML or YAML depending on the extension of path.
func unmarshal(path string, data []byte, v any) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Unmarshal(data, v)
	}
	return yaml.Unmarshal(data, v)
}

// LoadProfiles loads every *.yaml, *.yml and *.toml profile file in dir.
//
// RETURNS:
//   - Profiles keyed by file name without extension.
//   - An error if the directory cannot be listed or any file is invalid.
func LoadProfiles(dir string) (map[string]ExportProfile, error) {
	profiles := make(map[string]ExportProfile)

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml", "*.toml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("failed to list profile files: %w", err)
		}
		files = append(files, matches...)
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		var profile ExportProfile
		if err := unmarshal(file, data, &profile); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}

		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		profiles[name] = profile
	}

	return profiles, nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Timestamped reports whether exported file names get a date suffix.
func (c *MainConfig) Timestamped() bool {
	return c.IncludeTimestamp == nil || *c.IncludeTimestamp
}

// Mapping returns the account mapping for an accounting system. A system
// without a configured mapping gets an empty one, which resolves every
// account to the system's literal fallback.
func (c *MainConfig) Mapping(system string) ledger.AccountMapping {
	if m, ok := c.AccountMappings[strings.ToLower(system)]; ok {
		return m
	}
	return ledger.AccountMapping{}
}

// Profile returns the named profile.
func (c *MainConfig) Profile(name string) (ExportProfile, error) {
	p, ok := c.Profiles[name]
	if !ok {
		return ExportProfile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
	return p, nil
}

// ProfileNames lists configured profiles alphabetically.
func (c *MainConfig) ProfileNames() []string {
	return sortedKeys(c.Profiles)
}

// MatchProfile finds the profile whose match patterns accept the base name
// of path. Profiles are tried alphabetically and the first match wins.
func (c *MainConfig) MatchProfile(path string) (string, bool) {
	fileName := filepath.Base(path)
	for _, name := range sortedKeys(c.Profiles) {
		for _, pattern := range c.Profiles[name].Match {
			if matched, _ := filepath.Match(pattern, fileName); matched {
				return name, true
			}
		}
	}
	return "", false
}

// Compile builds the column model of the profile.
func (p ExportProfile) Compile() ([]table.Column, error) {
	columns := make([]table.Column, 0, len(p.Columns))
	for _, cc := range p.Columns {
		formatter, err := table.Compile(cc.Format)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", cc.Key, err)
		}
		header := cc.Header
		if header == "" {
			header = cc.Key
		}
		columns = append(columns, table.Column{
			Key:       cc.Key,
			Header:    header,
			Formatter: formatter,
		})
	}
	return columns, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
